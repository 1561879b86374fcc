package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available configs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		list, err := store.List()
		if err != nil {
			return fmt.Errorf("cannot read configs directory: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 4, ' ', 0)
		fmt.Fprintln(w, "LABEL\tPATH\tACTIVE")
		for _, c := range list {
			active := ""
			if c.Active {
				active = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Label, c.Path, active)
		}

		return w.Flush()
	},
}

func init() {
	configCmd.AddCommand(configListCmd)
}
