package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/brogergvhs/mangaseek/internal/config"
	"github.com/brogergvhs/mangaseek/internal/ui"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List supported sites",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.DefaultConfig()
		r := newRegistry(nil, cfg, ui.NewLogger(false))

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SOURCE\tHOSTS")
		for _, src := range r.Sources() {
			hosts := strings.Join(src.Hosts, ", ")
			if hosts == "" {
				hosts = "(any other site)"
			}
			fmt.Fprintf(w, "%s\t%s\n", src.Name, hosts)
		}

		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
