package cmd

import (
	"context"
	"fmt"

	"github.com/docker/go-units"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/scode/shastity/pkg/persist"
	"github.com/scode/shastity/pkg/slogger"
)

var backupCmd = &cobra.Command{
	Use:   "backup <directory> <name>",
	Short: "Back up a directory tree",
	Long: `Back up a directory tree into the configured stores.

File data goes to the blob store as content-addressed blocks, one manifest
per directory level goes to the metadata store, and the root manifest is
additionally stored under <name> so the backup can be retrieved without
knowing its content hash. The root manifest's content hash is printed on
success.
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := slogger.MustGetLogger(shastityFlags.root.logLevel)

		blockSize, err := units.RAMInBytes(shastityFlags.backup.blockSize)
		if err != nil {
			wrapFatalln("parse block size", err)
			return
		}
		blobs, err := config.store(ctx, shastityFlags.root.blobStore, logger)
		if err != nil {
			wrapFatalln("create blob store", err)
			return
		}
		manifests, err := config.store(ctx, shastityFlags.root.metadataStore, logger)
		if err != nil {
			wrapFatalln("create metadata store", err)
			return
		}

		p := persist.New(blobs, afero.NewOsFs(),
			persist.BlockSize(int(blockSize)),
			persist.Concurrency(shastityFlags.backup.concurrency),
			persist.Logger(logger),
			persist.ManifestStore(manifests),
		)
		key, err := p.Snapshot(ctx, args[0], args[1])
		if err != nil {
			wrapFatalln("backup "+args[0], err)
			return
		}
		fmt.Println(key)
	},
}

func init() {
	addBlockSizeFlag(backupCmd)
	addConcurrencyFlag(backupCmd, 1)
	rootCmd.AddCommand(backupCmd)
}
