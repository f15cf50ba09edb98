package cmd

import (
	"github.com/spf13/cobra"
)

// manifestCmd represents the manifest related commands
var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Commands to manage stored manifests",
	Long: `Commands to list, inspect and delete manifests in the metadata store.

Manifests are stored both under their content hash and, for the root of
each backup, under the name given at backup time. Either form of key is
accepted here.`,
}

func init() {
	rootCmd.AddCommand(manifestCmd)
}
