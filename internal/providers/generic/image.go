package generic

import (
	"cmp"
	"net/url"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/mangaseek/internal/paging"
	om "github.com/wk8/go-ordered-map/v2"
)

var (
	reImageExt = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)$`)

	reSizeSuffix = regexp.MustCompile(`[-_](\d{2,5})x(\d{2,5})`)

	reBackgroundURL = regexp.MustCompile(`url\((?:["']?)([^"')]+)(?:["']?)\)`)
	reLooseURLs     = regexp.MustCompile(`https?://[^\s"'<>]+`)

	nonPageHints = []string{"logo", "cover", "profile", "avatar", "banner"}
)

// candidate is an image URL with its page index (-1 when unknown) and the
// order it was discovered in.
type candidate struct {
	URL   string
	Index int
	Order int
}

// imageCollector gathers candidates from every scan and picks one URL per
// page in Finalize.
type imageCollector struct {
	allowed *regexp.Regexp
	log     Logger
	items   []candidate
	seen    map[string]bool
}

func newImageCollector(allowed *regexp.Regexp, log Logger) *imageCollector {
	return &imageCollector{
		allowed: allowed,
		log:     log,
		items:   make([]candidate, 0, 64),
		seen:    make(map[string]bool),
	}
}

func (c *imageCollector) add(u string, idx int) {
	lu := strings.ToLower(u)
	if u == "" || strings.HasPrefix(lu, "javascript:") || strings.HasPrefix(lu, "data:") {
		return
	}
	if !c.allowed.MatchString(lu) {
		return
	}
	for _, hint := range nonPageHints {
		if strings.Contains(lu, hint) {
			c.log.Debugf("skipping non-page image: %s", u)
			return
		}
	}
	if c.seen[u] {
		return
	}

	c.seen[u] = true
	c.items = append(c.items, candidate{URL: u, Index: idx, Order: len(c.items) + 1})
}

func normalizeExtList(list []string) []string {
	out := []string{}
	for _, ext := range list {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext != "" {
			out = append(out, regexp.QuoteMeta(ext))
		}
	}

	return out
}

func buildExtRegex(exts []string) *regexp.Regexp {
	if len(exts) == 0 {
		// matches nothing
		return regexp.MustCompile(`$a`)
	}

	return regexp.MustCompile(`(?i)\.(` + strings.Join(exts, "|") + `)$`)
}

func resolve(chapterURL, raw string) string {
	return paging.ResolveURL(chapterURL, raw)
}

// sizeKey drops "-800x1200" style suffixes so resized copies of one page
// share a key.
func sizeKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	ext := path.Ext(u.Path)
	base := strings.TrimSuffix(u.Path, ext)
	base = strings.TrimRight(reSizeSuffix.ReplaceAllString(base, ""), "-_")

	return base + ext
}

func area(u string) int {
	m := reSizeSuffix.FindAllStringSubmatch(u, -1)
	if len(m) == 0 {
		return 0
	}

	last := m[len(m)-1]
	w, _ := strconv.Atoi(last[1])
	h, _ := strconv.Atoi(last[2])

	return w * h
}

func indexOf(sel *goquery.Selection) int {
	if v, ok := sel.Attr("data-index"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}

	if v, ok := sel.ParentsFiltered("[data-index]").First().Attr("data-index"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}

	return -1
}

func (c *imageCollector) addSrcset(chapterURL, srcset string, idx int) {
	for part := range strings.SplitSeq(srcset, ",") {
		if fields := strings.Fields(part); len(fields) > 0 {
			c.add(resolve(chapterURL, fields[0]), idx)
		}
	}
}

func (c *imageCollector) ScanIMGTags(doc *goquery.Document, chapterURL string) int {
	before := len(c.items)
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		idx := indexOf(img)

		c.addSrcset(chapterURL, img.AttrOr("srcset", ""), idx)
		for _, k := range []string{"src", "data-src", "data-lazy-src", "data-original"} {
			if v := strings.TrimSpace(img.AttrOr(k, "")); v != "" {
				c.add(resolve(chapterURL, v), idx)
			}
		}
	})

	return len(c.items) - before
}

func (c *imageCollector) ScanPictureSources(doc *goquery.Document, chapterURL string) int {
	before := len(c.items)
	doc.Find("source[srcset]").Each(func(_ int, src *goquery.Selection) {
		c.addSrcset(chapterURL, src.AttrOr("srcset", ""), indexOf(src))
	})

	return len(c.items) - before
}

func (c *imageCollector) ScanBackgroundImages(doc *goquery.Document, chapterURL string) int {
	before := len(c.items)
	doc.Find("[style]").Each(func(_ int, el *goquery.Selection) {
		style := el.AttrOr("style", "")
		if !strings.Contains(strings.ToLower(style), "background-image") {
			return
		}

		idx := indexOf(el)
		for _, m := range reBackgroundURL.FindAllStringSubmatch(style, -1) {
			if u := strings.TrimSpace(m[1]); u != "" {
				c.add(resolve(chapterURL, u), idx)
			}
		}
	})

	return len(c.items) - before
}

func (c *imageCollector) ScanAnchorImages(doc *goquery.Document, chapterURL string) int {
	before := len(c.items)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		for _, prefix := range []string{"http://", "https://", "/", "./"} {
			if strings.HasPrefix(href, prefix) {
				c.add(resolve(chapterURL, href), indexOf(a))
				return
			}
		}
	})

	return len(c.items) - before
}

// ScanNuxt walks decoded JSON state for absolute image URLs and embedded
// HTML fragments.
func (c *imageCollector) ScanNuxt(root map[string]any, chapterURL string) {
	var walk func(v any)

	walk = func(v any) {
		switch t := v.(type) {
		case string:
			s := strings.TrimSpace(t)
			ls := strings.ToLower(s)
			if strings.HasPrefix(ls, "http://") || strings.HasPrefix(ls, "https://") {
				if reImageExt.MatchString(ls) {
					c.add(s, -1)
				}
				return
			}
			if !looksLikeHTML(s) {
				return
			}
			if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
				c.ScanIMGTags(doc, chapterURL)
				c.ScanPictureSources(doc, chapterURL)
				c.ScanAnchorImages(doc, chapterURL)
				c.ScanBackgroundImages(doc, chapterURL)
			}
		case []any:
			for _, x := range t {
				walk(x)
			}
		case map[string]any:
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				walk(t[k])
			}
		}
	}

	walk(root)
}

func (c *imageCollector) ScanLooseURLs(body string) {
	for _, u := range reLooseURLs.FindAllString(body, -1) {
		c.add(u, -1)
	}
}

// Finalize keeps the best candidate of each page and orders pages by
// index, then by discovery.
func (c *imageCollector) Finalize() []string {
	if len(c.items) == 0 {
		return nil
	}

	groups := om.New[string, []candidate]()
	for _, it := range c.items {
		key := sizeKey(it.URL)
		prev, _ := groups.Get(key)
		groups.Set(key, append(prev, it))
	}

	chosen := make([]candidate, 0, groups.Len())
	for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
		best := pickBest(pair.Value)
		best.Index = lowestIndex(pair.Value)
		best.Order = pair.Value[0].Order
		chosen = append(chosen, best)
	}

	slices.SortStableFunc(chosen, func(a, b candidate) int {
		switch {
		case a.Index >= 0 && b.Index >= 0 && a.Index != b.Index:
			return cmp.Compare(a.Index, b.Index)
		case a.Index >= 0 && b.Index < 0:
			return -1
		case a.Index < 0 && b.Index >= 0:
			return 1
		}
		return cmp.Compare(a.Order, b.Order)
	})

	out := make([]string, len(chosen))
	for i, it := range chosen {
		out[i] = it.URL
	}

	return out
}

// pickBest prefers the original over resized copies, then the largest
// resized copy.
func pickBest(items []candidate) candidate {
	if i := slices.IndexFunc(items, func(it candidate) bool { return !reSizeSuffix.MatchString(it.URL) }); i >= 0 {
		return items[i]
	}

	return slices.MaxFunc(items, func(a, b candidate) int {
		return cmp.Compare(area(a.URL), area(b.URL))
	})
}

func lowestIndex(items []candidate) int {
	idx := -1
	for _, it := range items {
		if it.Index >= 0 && (idx < 0 || it.Index < idx) {
			idx = it.Index
		}
	}

	return idx
}
