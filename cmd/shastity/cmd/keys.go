package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scode/shastity/pkg/slogger"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List block keys in the blob store",
	Long: `List every key in the blob store, one per line. For a healthy store
these are content hashes; the listing is mostly useful for debugging and
for auditing store contents.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := slogger.MustGetLogger(shastityFlags.root.logLevel)

		blobs, err := config.store(ctx, shastityFlags.root.blobStore, logger)
		if err != nil {
			wrapFatalln("create blob store", err)
			return
		}
		it := blobs.Keys(ctx)
		for {
			key, ok, err := it.Next(ctx)
			if err != nil {
				wrapFatalln("list keys", err)
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
	rootCmd.AddCommand(keysCmd)
}
