package generic

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/brogergvhs/mangaseek/internal/paging"
)

var (
	reChapterDash = regexp.MustCompile(`chapter[_\-]?0*([0-9]+)(?:[_\-]([0-9]+))?`)
	reVolChapter  = regexp.MustCompile(`vol[_\-]?\d+[/_\-]ch[_\-]?(\d+(?:\.\d+)?)`)
	reShortCh     = regexp.MustCompile(`(?:^|[/\-_])ch[_\-]?(\d+(?:\.\d+)?)`)
	rePlainNumber = regexp.MustCompile(`[/\-](\d+(?:\.\d+)?)(?:$|[/\-_])`)

	reTitlePrefix = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*[.\- ]`)
	reTitleWord   = regexp.MustCompile(`(?i)(?:vol(?:ume)?[_\-\s]*\d+[_\-\s]*)?(?:chapter|ch)[_\-\s]*0*([0-9]+)(?:[_\-\s]*[.\-][_\-\s]*([0-9]+))?`)

	reLikelyChapter = regexp.MustCompile(`(?i)(?:^|[-_/])(?:ch|chapter)[-_]?\d+`)
)

// looksLikeChapterLink is a cheap filter run before label parsing.
func looksLikeChapterLink(href, title string) bool {
	h := strings.ToLower(href)
	if reLikelyChapter.MatchString(h) || reVolChapter.MatchString(h) || reShortCh.MatchString(h) {
		return true
	}

	t := strings.ToLower(title)
	return strings.HasPrefix(t, "ch ") || strings.HasPrefix(t, "chapter ")
}

// parseLabel finds the chapter label of a link, trying URL shapes before
// the link text. Decimal chapters come back with a dot: "12.5".
func parseLabel(href, title string) (string, bool) {
	h := strings.ToLower(href)
	t := strings.ToLower(title)

	if isExcluded(h) || !hasChapterKeyword(h, t) {
		return "", false
	}

	if m := reChapterDash.FindStringSubmatch(h); m != nil {
		return joinLabel(m[1], m[2]), true
	}
	for _, re := range []*regexp.Regexp{reVolChapter, reShortCh, rePlainNumber} {
		if m := re.FindStringSubmatch(h); m != nil {
			return trimNumber(m[1]), true
		}
	}
	if m := reTitlePrefix.FindStringSubmatch(title); m != nil {
		return trimNumber(m[1]), true
	}
	if m := reTitleWord.FindStringSubmatch(title); m != nil {
		return joinLabel(m[1], m[2]), true
	}

	return "", false
}

func hasChapterKeyword(h, t string) bool {
	for _, kw := range []string{"ch", "vol"} {
		if strings.Contains(h, kw) || strings.Contains(t, kw) {
			return true
		}
	}

	return false
}

// user pages and list aggregators link chapters of other series
func isExcluded(h string) bool {
	return strings.Contains(h, "/u/") || strings.Contains(h, "batolists")
}

func joinLabel(main, sub string) string {
	main = trimNumber(main)
	if sub == "" {
		return main
	}

	return main + "." + sub
}

// trimNumber drops leading zeros from the integer part.
func trimNumber(s string) string {
	whole, frac, ok := strings.Cut(s, ".")
	if n, err := strconv.Atoi(whole); err == nil {
		whole = strconv.Itoa(n)
	}
	if ok {
		return whole + "." + frac
	}

	return whole
}

func labelNumber(label string) float64 {
	return paging.SortKey(label)
}
