package generic

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/mangaseek/internal/paging"
	"github.com/brogergvhs/mangaseek/internal/providers"
	"github.com/brogergvhs/mangaseek/internal/util"
)

const Name = "Generic"

var (
	_ providers.Scraper       = (*Scraper)(nil)
	_ providers.ElementParser = (*Scraper)(nil)

	errNotChapter = errors.New("not a chapter link")

	reNuxt = regexp.MustCompile(`window\.__NUXT__\s*=\s*(\{.*?});`)
)

type Logger interface {
	Debugf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}

type Options struct {
	// AllowExt lists the image extensions accepted as pages.
	AllowExt []string
	// CheckJS also mines inline scripts for chapter endpoints.
	CheckJS bool
	Log     Logger
}

type Scraper struct {
	client  *http.Client
	allowed *regexp.Regexp
	checkJS bool
	log     Logger
}

func New(c *http.Client, opts Options) *Scraper {
	s := &Scraper{
		client:  c,
		allowed: buildExtRegex(normalizeExtList(opts.AllowExt)),
		checkJS: opts.CheckJS,
		log:     opts.Log,
	}
	if s.log == nil {
		s.log = nopLogger{}
	}

	return s
}

func (s *Scraper) fetchDOM(ctx context.Context, target string) (*goquery.Document, string, error) {
	body, err := util.GetBody(ctx, s.client, target)
	if err != nil {
		return nil, "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", target, err)
	}

	return doc, body, nil
}

// ChapterFromElement reads one anchor of a chapter list.
func (s *Scraper) ChapterFromElement(a *goquery.Selection, pageURL string) (providers.Chapter, error) {
	href := strings.TrimSpace(a.AttrOr("href", ""))
	text := strings.TrimSpace(a.Text())
	if href == "" || !looksLikeChapterLink(href, text) {
		return providers.Chapter{}, errNotChapter
	}

	label, ok := parseLabel(href, text)
	if !ok {
		return providers.Chapter{}, errNotChapter
	}

	title := text
	if title == "" {
		title = "Chapter " + label
	}

	return providers.Chapter{
		URL:    paging.ResolveURL(pageURL, href),
		Title:  title,
		Label:  label,
		Number: labelNumber(label),
	}, nil
}

// GetChapters returns the chapter links of a series page, highest number
// first.
func (s *Scraper) GetChapters(ctx context.Context, pageURL string) ([]providers.Chapter, error) {
	doc, _, err := s.fetchDOM(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	var out []providers.Chapter
	seen := map[string]bool{}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		ch, err := s.ChapterFromElement(a, pageURL)
		if err != nil || seen[ch.URL] {
			return
		}
		seen[ch.URL] = true
		out = append(out, ch)
	})

	slices.SortStableFunc(out, func(a, b providers.Chapter) int {
		return cmp.Compare(b.Number, a.Number)
	})
	s.log.Debugf("%s: %d chapter links on %s", Name, len(out), pageURL)

	return out, nil
}

func (s *Scraper) GetImages(ctx context.Context, chapterURL string) ([]string, error) {
	doc, body, err := s.fetchDOM(ctx, chapterURL)
	if err != nil {
		return nil, err
	}

	col := newImageCollector(s.allowed, s.log)

	s.log.Debugf("IMG tags: +%d", col.ScanIMGTags(doc, chapterURL))
	s.log.Debugf("PICTURE sources: +%d", col.ScanPictureSources(doc, chapterURL))
	s.log.Debugf("ANCHOR href: +%d", col.ScanAnchorImages(doc, chapterURL))
	s.log.Debugf("CSS background: +%d", col.ScanBackgroundImages(doc, chapterURL))

	if m := reNuxt.FindStringSubmatch(body); len(m) > 1 {
		var raw map[string]any
		if json.Unmarshal([]byte(m[1]), &raw) == nil {
			s.log.Debugf("found embedded Nuxt state")
			col.ScanNuxt(raw, chapterURL)
		}
	}

	col.ScanLooseURLs(body)

	if s.checkJS {
		js := ExtractJS(scriptText(doc))
		s.log.Debugf("JS vars=%v urls=%v calls=%v", js.Vars, js.URLs, js.Calls)
		s.tryDynamicEndpoints(ctx, chapterURL, js, col)
	}

	final := col.Finalize()
	if len(final) == 0 {
		return nil, fmt.Errorf("no usable images found on %s", chapterURL)
	}

	return final, nil
}

func scriptText(doc *goquery.Document) string {
	var b strings.Builder
	doc.Find("script").Each(func(_ int, sc *goquery.Selection) {
		if t := sc.Text(); strings.TrimSpace(t) != "" {
			b.WriteString(t)
			b.WriteString("\n")
		}
	})

	return b.String()
}
