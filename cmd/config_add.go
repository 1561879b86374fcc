package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagAddFrom string

var configAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Create a new config with default values, or import one with --from",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := args[0]

		if flagAddFrom != "" {
			if err := store.Add(label, flagAddFrom); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s as %q\n", flagAddFrom, label)
			return nil
		}

		path, err := store.Create(label)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created new config: %s\n", path)
		return nil
	},
}

func init() {
	configAddCmd.Flags().StringVar(&flagAddFrom, "from", "", "copy an existing YAML file")
	configCmd.AddCommand(configAddCmd)
}
