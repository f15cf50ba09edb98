package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shastity",
	Short: "Shastity is a deduplicating backup tool",
	Long: `Shastity backs up directory trees into content-addressed blob storage.

File data is split into fixed-size blocks stored under their content hash,
so identical blocks are stored once across all backups. Each directory
level becomes a manifest, itself stored by content hash, and the root
manifest of a backup is additionally stored under a name of your choosing.

Storage backends (local filesystem, S3, GCS, in-memory) are selected per
named store in the configuration file.
`,
}

var config *CLIConfig

// used to patch over calls to os.Exit() during test
var logFatalln = log.Fatalln

func wrapFatalln(msg string, err error) {
	if err != nil {
		logFatalln(fmt.Errorf("%s: %v", msg, err))
		return
	}
	logFatalln(msg)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)
	addLogLevelFlag(rootCmd)
	addBlobStoreFlag(rootCmd)
	addMetadataStoreFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("stores.blob.backend", "localfs")
	viper.SetDefault("stores.metadata.backend", "localfs")
	if os.Getenv("SHASTITY_CONFIG") != "" {
		// Use config file from the flag.
		viper.SetConfigFile(os.Getenv("SHASTITY_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.shastity")
		viper.AddConfigPath("/etc/shastity")
		viper.SetConfigName("shastity")
	}

	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	if config.Credential != "" {
		_ = os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", config.Credential)
	}
}
