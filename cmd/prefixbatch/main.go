package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFilePath string
	logLevel       string
	region         string
	endpoint       string
	pathStyle      bool
)

var rootCmd = &cobra.Command{
	Use:   "prefixbatch",
	Short: "Batch processing over objects under a store prefix",
	Long: "prefixbatch enumerates the objects under an s3://bucket/prefix " +
		"location and runs batch operations (list, join, clean, cat) across them.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&region, "region", "", "object store region")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "custom object store endpoint")
	rootCmd.PersistentFlags().BoolVar(&pathStyle, "path-style", false, "use path-style addressing")

	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newJoinCommand())
	rootCmd.AddCommand(newCleanCommand())
	rootCmd.AddCommand(newCatCommand())
}
