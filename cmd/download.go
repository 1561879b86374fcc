package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/brogergvhs/mangaseek/internal/chapters"
	"github.com/brogergvhs/mangaseek/internal/config"
	"github.com/brogergvhs/mangaseek/internal/downloader"
	"github.com/brogergvhs/mangaseek/internal/providers"
	"github.com/brogergvhs/mangaseek/internal/ui"
	"github.com/brogergvhs/mangaseek/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	// selection
	flagURL      string
	flagChapter  string
	flagRange    string
	flagList     string
	flagAllowExt string

	// runtime
	flagOutput         string
	flagImageWorkers   int
	flagChapterWorkers int
	flagKeepFolders    bool
	flagDryRun         bool
	flagSkipBroken     bool
	flagMaxPages       int
	flagRateLimit      float64
	flagCloudflare     bool
	flagCheckJS        bool

	// headers/auth
	flagCookie     string
	flagCookieFile string
	flagUserAgent  string
)

func init() {
	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Download manga chapters and produce CBZ files. Uses the defaults from the selected config, overwritten by CLI flags",
		RunE:  runDownload,
	}

	f := downloadCmd.Flags()

	f.StringVar(&flagURL, "url", "", "manga series page URL")
	f.StringVar(&flagChapter, "chapter", "", "download single chapter by label or index (e.g. 28.5 or 5)")
	f.StringVar(&flagRange, "range", "", "download range of chapters by index (e.g. 5-12)")
	f.StringVar(&flagList, "list", "", "download specific chapter indices (e.g. 1,3,5)")
	f.StringVar(&flagAllowExt, "allow-ext", "", "allowed image extensions (e.g. \"webp|jpg|png\")")

	f.StringVar(&flagOutput, "output", "", "output folder for CBZ files")
	f.IntVar(&flagImageWorkers, "image-workers", 5, "parallel image downloads per chapter")
	f.IntVar(&flagChapterWorkers, "chapter-workers", 2, "parallel chapter downloads")
	f.BoolVar(&flagKeepFolders, "keep-folders", false, "keep temporary folders")
	f.BoolVar(&flagDryRun, "dry-run", false, "show what would be downloaded, don't download")
	f.BoolVar(&flagSkipBroken, "skip-broken", false, "skip failed images instead of failing the whole chapter")
	f.IntVar(&flagMaxPages, "max-pages", 0, "stop reading the chapter list after this many pages")
	f.Float64Var(&flagRateLimit, "rate-limit", 0, "requests per second per host")
	f.BoolVar(&flagCloudflare, "cloudflare", false, "use browser-like TLS for sites behind Cloudflare")
	f.BoolVar(&flagCheckJS, "check-js", false, "also look for page images behind script endpoints")

	f.StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"key=value; other=123\"")
	f.StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	f.StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, _ []string) error {
	cfg, usedPath, err := store.LoadMerged(config.Options{
		IgnoreConfig: flagIgnoreConfig,
		Debug:        flagDebug,
		Output:       flagOutput,
		KeepFolders:  flagKeepFolders,
		DefaultURL:   flagURL,
		DefaultRange: flagRange,
		DefaultList:  flagList,
		Cookie:       flagCookie,
		CookieFile:   flagCookieFile,
		UserAgent:    flagUserAgent,
		SkipBroken:   flagSkipBroken,
		MaxPages:     flagMaxPages,
		RateLimit:    flagRateLimit,
		Cloudflare:   flagCloudflare,
		CheckJS:      flagCheckJS,
	})
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("image-workers") {
		cfg.ImageWorkers = flagImageWorkers
	}
	if cmd.Flags().Changed("chapter-workers") {
		cfg.ChapterWorkers = flagChapterWorkers
	}
	if flagAllowExt != "" {
		cfg.AllowExt = splitExt(flagAllowExt)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config file: %s\n", usedPath)
	fmt.Fprintln(out, "Full config:")
	cfg.Print(out)
	fmt.Fprintln(out)

	if cfg.DefaultURL == "" {
		return fmt.Errorf("missing --url and no default_url in config")
	}

	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, all, err := s.chapterList(ctx, cfg.DefaultURL)
	if err != nil {
		return err
	}

	if flagChapter == "" && cfg.DefaultRange == "" && cfg.DefaultList == "" {
		fmt.Fprintf(out, "Found %d chapters on %s.\n\n", len(all), src.Name)
	}

	selected, err := chapters.Select(all, flagChapter, cfg.DefaultRange, cfg.DefaultList)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return fmt.Errorf("no chapters selected")
	}

	if flagDryRun {
		printSelection(out, selected)
		return nil
	}

	if err := os.MkdirAll(cfg.Output, 0755); err != nil {
		return fmt.Errorf("cannot create output folder: %w", err)
	}

	err = downloadChapters(ctx, s, src.Scraper, selected, out)
	if ctx.Err() != nil {
		fmt.Fprintln(out, "\nInterrupt received. Cleaning up...")
		removed, _ := util.CleanupTempFolders(cfg.Output)
		for _, p := range removed {
			fmt.Fprintf(out, "Removed %s\n", p)
		}
		if util.RemoveIfEmpty(cfg.Output) {
			fmt.Fprintf(out, "Removed empty output folder: %s\n", cfg.Output)
		}
		return ctx.Err()
	}

	return err
}

func printSelection(w io.Writer, selected []chapters.Chapter) {
	fmt.Fprintf(w, "Dry-run: %d chapters selected.\n\n", len(selected))
	for i, ch := range selected {
		fmt.Fprintf(w, "%3d) %s  [%s]\n    %s\n", i+1, ch.Title, ch.Label, ch.URL)
	}
}

func downloadChapters(ctx context.Context, s *session, scr providers.Scraper, selected []chapters.Chapter, out io.Writer) error {
	cfg := s.cfg
	pm := ui.NewProgressManager(out)
	stats := &ui.Stats{}
	dl := downloader.New(s.client, cfg.SkipBroken)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.ChapterWorkers))

	for _, ch := range selected {
		g.Go(func() error {
			err := downloadChapter(gctx, s, scr, dl, pm, stats, ch)
			if err != nil && gctx.Err() == nil {
				stats.FailedChaps.Add(1)
				s.log.Errorf("chapter %s: %v", ch.Label, err)
			}
			// one broken chapter must not stop the others
			return nil
		})
	}

	_ = g.Wait()
	pm.Wait()

	fmt.Fprintln(out)
	stats.Print(out, time.Since(start))

	if n := stats.FailedChaps.Load(); n > 0 {
		return fmt.Errorf("%d of %d chapters failed", n, len(selected))
	}
	fmt.Fprintln(out, "\nAll done.")

	return nil
}

func downloadChapter(
	ctx context.Context,
	s *session,
	scr providers.Scraper,
	dl *downloader.Downloader,
	pm *ui.ProgressManager,
	stats *ui.Stats,
	ch chapters.Chapter,
) error {
	cfg := s.cfg

	images, err := scr.GetImages(ctx, ch.URL)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return errors.New("no images")
	}

	handle := pm.Register("Ch." + ch.Label)
	tmpFolder := filepath.Join(cfg.Output, ch.FolderName())

	res, err := dl.DownloadImages(ctx, images, tmpFolder, ch.URL, cfg.ImageWorkers, handle)
	if err != nil {
		handle.Abort()
		_ = os.RemoveAll(tmpFolder)
		return err
	}

	if err := util.CreateCBZ(res.Files, ch.OutputCBZPath(cfg.Output)); err != nil {
		_ = os.RemoveAll(tmpFolder)
		return err
	}

	if !cfg.KeepFolders {
		_ = os.RemoveAll(tmpFolder)
	}

	stats.TotalChapters.Add(1)
	stats.TotalImages.Add(int64(len(res.Files)))
	stats.TotalBytes.Add(res.Bytes)
	stats.FailedImages.Add(int64(res.Failed))

	return nil
}

func splitExt(s string) []string {
	var out []string
	for _, f := range strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == ',' || r == ' '
	}) {
		out = append(out, strings.ToLower(f))
	}

	return out
}
