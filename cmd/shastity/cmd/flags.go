package cmd

import (
	"github.com/spf13/cobra"
)

type flagsT struct {
	backup struct {
		blockSize   string
		concurrency int
	}
	root struct {
		logLevel      string
		blobStore     string
		metadataStore string
	}
}

var shastityFlags = flagsT{}

func addLogLevelFlag(cmd *cobra.Command) string {
	logLevel := "loglevel"
	cmd.PersistentFlags().StringVar(&shastityFlags.root.logLevel, logLevel, "info",
		"The logging level, one of info, debug or none")
	return logLevel
}

func addBlobStoreFlag(cmd *cobra.Command) string {
	blobStore := "blob-store"
	cmd.PersistentFlags().StringVar(&shastityFlags.root.blobStore, blobStore, "blob",
		"The named store holding content-addressed blocks")
	return blobStore
}

func addMetadataStoreFlag(cmd *cobra.Command) string {
	metadataStore := "metadata-store"
	cmd.PersistentFlags().StringVar(&shastityFlags.root.metadataStore, metadataStore, "metadata",
		"The named store holding manifests")
	return metadataStore
}

func addBlockSizeFlag(cmd *cobra.Command) string {
	blockSize := "block-size"
	cmd.Flags().StringVar(&shastityFlags.backup.blockSize, blockSize, "1M",
		"The chunk size for file data, e.g. 512k or 4M. Changing it defeats deduplication against blocks written with another size")
	return blockSize
}

func addConcurrencyFlag(cmd *cobra.Command, defaultConcurrency int) string {
	concurrency := "concurrency"
	cmd.Flags().IntVar(&shastityFlags.backup.concurrency, concurrency, defaultConcurrency,
		"The maximum number of sibling files persisted in parallel within one directory")
	return concurrency
}
