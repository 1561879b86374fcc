package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/brogergvhs/mangaseek/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage mangaseek config profiles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, used, err := store.LoadMerged(config.Options{
			IgnoreConfig: flagIgnoreConfig,
			Debug:        flagDebug,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Loaded config from:\n  %s\n\n", used)
		cfg.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	resp, _ := bufio.NewReader(in).ReadString('\n')
	resp = strings.ToLower(strings.TrimSpace(resp))

	return resp == "y" || resp == "yes"
}
