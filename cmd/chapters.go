package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/brogergvhs/mangaseek/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagListURL      string
	flagListMaxPages int
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "List the chapters of a series with the index used by download selectors",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := store.LoadMerged(config.Options{
			IgnoreConfig: flagIgnoreConfig,
			Debug:        flagDebug,
			DefaultURL:   flagListURL,
			MaxPages:     flagListMaxPages,
		})
		if err != nil {
			return err
		}
		if cfg.DefaultURL == "" {
			return fmt.Errorf("missing --url and no default_url in config")
		}

		s, err := newSession(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		src, list, err := s.chapterList(ctx, cfg.DefaultURL)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d chapters from %s, oldest first\n\n", len(list), src.Name)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "INDEX\tLABEL\tTITLE\tURL")
		for i, ch := range list {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, ch.Label, ch.Title, ch.URL)
		}

		return w.Flush()
	},
}

func init() {
	chaptersCmd.Flags().StringVar(&flagListURL, "url", "", "manga series page URL")
	chaptersCmd.Flags().IntVar(&flagListMaxPages, "max-pages", 0, "stop reading the chapter list after this many pages")

	rootCmd.AddCommand(chaptersCmd)
}
