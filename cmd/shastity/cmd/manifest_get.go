package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scode/shastity/pkg/manifest"
	"github.com/scode/shastity/pkg/slogger"
)

var manifestGet = &cobra.Command{
	Use:   "get <key>",
	Short: "Show one manifest",
	Long: `Fetch and decode one manifest, printing its entries sorted by
pathname: the decoded path, the metadata string and the block hashes.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := slogger.MustGetLogger(shastityFlags.root.logLevel)

		manifests, err := config.store(ctx, shastityFlags.root.metadataStore, logger)
		if err != nil {
			wrapFatalln("create metadata store", err)
			return
		}
		entries, err := manifest.Read(ctx, manifests, args[0])
		if err != nil {
			wrapFatalln("read manifest "+args[0], err)
			return
		}
		for _, e := range entries {
			fmt.Printf("%s\t%s\t%s\n", e.Path, e.Meta, strings.Join(e.Hashes, " "))
		}
	},
}

func init() {
	manifestCmd.AddCommand(manifestGet)
}
