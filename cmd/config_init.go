package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/brogergvhs/mangaseek/internal/config"
	"github.com/spf13/cobra"
)

var flagInitYes bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the Default config",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		path := store.Path(config.DefaultLabel)

		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(out, "Configuration already exists at:\n   %s\n", path)
			fmt.Fprintln(out, "Use `mangaseek config reset` to recreate it.")
			return nil
		}

		fmt.Fprintf(out, "Configuration file will be saved at:\n   %s\n\n", path)
		fmt.Fprintln(out, "Default configuration:")
		config.DefaultConfig().Print(out)
		fmt.Fprintln(out)

		if !flagInitYes && !confirm(cmd.InOrStdin(), out, "Create Default config at "+path+"?") {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}

		if _, err := store.Init(); err != nil && !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		fmt.Fprintln(out, "Config created at:", path)
		fmt.Fprintln(out, "This config is now active (label: Default).")

		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&flagInitYes, "yes", "y", false, "do not ask for confirmation")
	configCmd.AddCommand(configInitCmd)
}
