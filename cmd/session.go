package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/brogergvhs/mangaseek/internal/chapters"
	"github.com/brogergvhs/mangaseek/internal/config"
	"github.com/brogergvhs/mangaseek/internal/paging"
	"github.com/brogergvhs/mangaseek/internal/providers"
	"github.com/brogergvhs/mangaseek/internal/providers/generic"
	"github.com/brogergvhs/mangaseek/internal/providers/huntersscans"
	"github.com/brogergvhs/mangaseek/internal/ui"
	"github.com/brogergvhs/mangaseek/internal/util"
)

// session holds what every network command needs once the config is
// resolved.
type session struct {
	cfg      *config.Config
	log      *ui.Logger
	client   *http.Client
	registry *providers.Registry
}

func newSession(cfg *config.Config) (*session, error) {
	log := ui.NewLogger(cfg.Debug)

	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:     30 * time.Second,
		UserAgent:   util.PickUserAgent(cfg.UserAgent),
		Cookie:      cfg.Cookie,
		CookieFile:  cfg.CookieFile,
		RateLimit:   cfg.RateLimit,
		Cloudflare:  cfg.Cloudflare,
		DebugLogger: log,
	})
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:      cfg,
		log:      log,
		client:   client,
		registry: newRegistry(client, cfg, log),
	}, nil
}

func newRegistry(client *http.Client, cfg *config.Config, log *ui.Logger) *providers.Registry {
	r := providers.NewRegistry()

	r.Register(providers.Source{
		Name:  huntersscans.Name,
		Hosts: huntersscans.Hosts(),
		Scraper: huntersscans.New(client,
			huntersscans.WithMaxPages(cfg.MaxPages),
			huntersscans.WithLogger(log),
		),
	})
	r.Register(providers.Source{
		Name: generic.Name,
		Scraper: generic.New(client, generic.Options{
			AllowExt: cfg.AllowExt,
			CheckJS:  cfg.CheckJS,
			Log:      log,
		}),
	})

	return r
}

// chapterList loads the chapters of seriesURL in reading order.
func (s *session) chapterList(ctx context.Context, seriesURL string) (providers.Source, []chapters.Chapter, error) {
	src, err := s.registry.Lookup(seriesURL)
	if err != nil {
		return providers.Source{}, nil, err
	}
	s.log.Debugf("using source %s for %s", src.Name, seriesURL)

	list, err := src.Scraper.GetChapters(ctx, seriesURL)
	switch {
	case errors.Is(err, paging.ErrExtractionNotFound):
		return src, nil, fmt.Errorf("unable to load chapter list from %s: %w", src.Name, err)
	case err != nil:
		return src, nil, err
	case len(list) == 0:
		return src, nil, fmt.Errorf("no chapters found at %s", seriesURL)
	}

	return src, chapters.Wrap(list), nil
}
