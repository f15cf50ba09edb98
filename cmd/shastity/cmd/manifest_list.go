package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scode/shastity/pkg/slogger"
)

var manifestList = &cobra.Command{
	Use:   "list",
	Short: "List manifest keys",
	Long: `List every key in the metadata store, one per line.

Keys are fetched page by page as the listing is consumed, so listing a
large store does not hold all keys in memory.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := slogger.MustGetLogger(shastityFlags.root.logLevel)

		manifests, err := config.store(ctx, shastityFlags.root.metadataStore, logger)
		if err != nil {
			wrapFatalln("create metadata store", err)
			return
		}
		it := manifests.Keys(ctx)
		for {
			key, ok, err := it.Next(ctx)
			if err != nil {
				wrapFatalln("list manifests", err)
				return
			}
			if !ok {
				return
			}
			fmt.Println(key)
		}
	},
}

func init() {
	manifestCmd.AddCommand(manifestList)
}
