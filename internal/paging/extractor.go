package paging

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrExtractionNotFound means no script block on the page matched the
// reference pattern. It signals a change in site structure, as opposed to
// a page that legitimately lists no chapters.
var ErrExtractionNotFound = errors.New("no script block matches the chapter pattern")

// DefaultScriptSelector selects the blocks scanned for references.
const DefaultScriptSelector = "script"

// Extractor pulls raw chapter references out of script blocks.
type Extractor struct {
	// Selector picks candidate blocks. Defaults to DefaultScriptSelector.
	Selector string
	Pattern  Pattern
}

// Extract returns the distinct references found in the first non-empty
// block that contains at least one match, in discovery order.
func (x Extractor) Extract(pageText string) ([]string, error) {
	if x.Pattern == nil {
		return nil, errors.New("extractor has no pattern")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageText))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	sel := x.Selector
	if sel == "" {
		sel = DefaultScriptSelector
	}

	var matches [][]string
	doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		block := s.Text()
		if strings.TrimSpace(block) == "" {
			return true
		}

		matches = x.Pattern.FindAll(block)
		return len(matches) == 0
	})

	if len(matches) == 0 {
		return nil, ErrExtractionNotFound
	}

	refs := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	add := func(ref string) {
		if ref == "" || seen[ref] {
			return
		}
		seen[ref] = true
		refs = append(refs, ref)
	}

	for _, m := range matches {
		add(m[0])
		for _, group := range m[1:] {
			if group != "" && len(x.Pattern.FindAll(group)) > 0 {
				add(group)
			}
		}
	}

	return refs, nil
}
