package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/scode/shastity/pkg/slogger"
)

var manifestDelete = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete one manifest",
	Long: `Delete one manifest from the metadata store. Deleting an absent key
is not an error. Blocks referenced by the manifest are never deleted;
they may be shared with other backups.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := slogger.MustGetLogger(shastityFlags.root.logLevel)

		manifests, err := config.store(ctx, shastityFlags.root.metadataStore, logger)
		if err != nil {
			wrapFatalln("create metadata store", err)
			return
		}
		if err := manifests.Delete(ctx, args[0]); err != nil {
			wrapFatalln("delete manifest "+args[0], err)
			return
		}
	},
}

func init() {
	manifestCmd.AddCommand(manifestDelete)
}
