// Package huntersscans reads chapter lists from Hunters Scans, which ships
// them as links inside a page script, repeats the first and latest chapter on
// every page of the list, and has no usable last-page marker.
package huntersscans

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/mangaseek/internal/paging"
	"github.com/brogergvhs/mangaseek/internal/providers"
	"github.com/brogergvhs/mangaseek/internal/util"
)

const (
	Name    = "Hunters Scans"
	BaseURL = "https://huntersscan.xyz"

	// RateLimit is one request every two seconds.
	RateLimit = 0.5
)

var (
	chapterPattern = paging.MustCompile(`/ler/[\w+-]+-capitulo-[\d.-]+`)
	labelPattern   = paging.MustCompile(`capitulo-([\d.-]+)`)
)

var (
	_ providers.Scraper       = (*Scraper)(nil)
	_ providers.ElementParser = (*Scraper)(nil)
)

type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type Scraper struct {
	client   *http.Client
	baseURL  string
	maxPages int
	log      Logger
}

type Option func(*Scraper)

// WithBaseURL points the scraper at a mirror.
func WithBaseURL(u string) Option {
	return func(s *Scraper) {
		s.baseURL = strings.TrimRight(u, "/")
	}
}

// WithMaxPages bounds the number of chapter list pages read per series.
func WithMaxPages(n int) Option {
	return func(s *Scraper) {
		s.maxPages = n
	}
}

func WithLogger(l Logger) Option {
	return func(s *Scraper) {
		s.log = l
	}
}

func New(c *http.Client, opts ...Option) *Scraper {
	s := &Scraper{
		client:   c,
		baseURL:  BaseURL,
		maxPages: paging.DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func Hosts() []string {
	return []string{"huntersscan.xyz"}
}

// GetChapters walks the paginated chapter list of a series. Chapters come
// back highest number first.
func (s *Scraper) GetChapters(ctx context.Context, seriesURL string) ([]providers.Chapter, error) {
	p := &paging.Paginator{
		Fetch: func(ctx context.Context, page int) (string, error) {
			return util.GetBody(ctx, s.client, paging.PageURL(seriesURL, page))
		},
		Extractor: paging.Extractor{Selector: "script", Pattern: chapterPattern},
		Decoder:   paging.Decoder{Label: labelPattern, Base: s.baseURL},
		MaxPages:  s.maxPages,
	}
	if s.log != nil {
		p.Log = s.log
	}

	entries, err := p.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s chapter list: %w", Name, err)
	}

	out := make([]providers.Chapter, len(entries))
	for i, e := range entries {
		out[i] = providers.Chapter{
			URL:    e.Location,
			Title:  "Capítulo " + e.Name,
			Label:  e.Name,
			Number: paging.SortKey(e.Name),
		}
	}

	return out, nil
}

// ChapterFromElement is not offered: chapters only exist in page scripts.
func (s *Scraper) ChapterFromElement(*goquery.Selection, string) (providers.Chapter, error) {
	return providers.Chapter{}, fmt.Errorf("%s: element parsing: %w", Name, providers.ErrUnsupported)
}

func (s *Scraper) GetImages(ctx context.Context, chapterURL string) ([]string, error) {
	body, err := util.GetBody(ctx, s.client, chapterURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse chapter page: %w", err)
	}

	var out []string
	doc.Find("main.container img").Each(func(_ int, img *goquery.Selection) {
		src := strings.TrimSpace(img.AttrOr("src", ""))
		if src == "" {
			return
		}
		out = append(out, paging.ResolveURL(chapterURL, src))
	})

	if len(out) == 0 {
		return nil, fmt.Errorf("no page images in %s", chapterURL)
	}

	return out, nil
}
