package cmd

import (
	"fmt"
	"os"

	"github.com/brogergvhs/mangaseek/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagIgnoreConfig bool
	flagDebug        bool
)

// store is replaced in tests.
var store = config.DefaultStore()

var rootCmd = &cobra.Command{
	Use:           "mangaseek",
	Short:         "Find manga chapters across sites and download them as CBZ",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagIgnoreConfig, "ignore-config", false, "ignore config and use only CLI flags")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
