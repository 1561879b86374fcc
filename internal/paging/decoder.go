package paging

import (
	"net/url"
	"strings"
	"unicode"
)

// DefaultName is given to references whose label cannot be decoded.
const DefaultName = "0"

// Decoder turns raw references into entries.
type Decoder struct {
	// Label extracts the ordering label; the last capturing group of the
	// first match is used.
	Label Pattern
	// Base is the locator references are resolved against.
	Base string
}

// Decode never fails: a reference without a usable label gets DefaultName.
func (d Decoder) Decode(ref string) Entry {
	ref = strings.TrimSpace(ref)

	return Entry{
		Name:     d.name(ref),
		Location: ResolveURL(d.Base, ref),
	}
}

func (d Decoder) name(ref string) string {
	if d.Label == nil || ref == "" {
		return DefaultName
	}

	matches := d.Label.FindAll(ref)
	if len(matches) == 0 {
		return DefaultName
	}

	name := normalizeLabel(matches[0][len(matches[0])-1])
	if name == "" {
		return DefaultName
	}

	return name
}

// normalizeLabel drops whitespace and turns hyphen separators into a
// decimal point, so "12-5" becomes "12.5".
func normalizeLabel(label string) string {
	label = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, label)

	return strings.ReplaceAll(label, "-", ".")
}

// ResolveURL makes href absolute against base. Unparsable input is
// returned as base+href.
func ResolveURL(base, href string) string {
	if href == "" {
		return base
	}

	u, err := url.Parse(href)
	if err == nil && u.IsAbs() {
		return u.String()
	}

	b, err := url.Parse(base)
	if err != nil || u == nil {
		return strings.TrimRight(base, "/") + href
	}

	return b.ResolveReference(u).String()
}
