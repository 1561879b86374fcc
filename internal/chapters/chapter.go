package chapters

import (
	"cmp"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/brogergvhs/mangaseek/internal/providers"
)

type Chapter struct {
	providers.Chapter
}

// Wrap converts adapter output into reading order, lowest chapter first, so
// that index based selection counts from the first chapter of the series.
func Wrap(list []providers.Chapter) []Chapter {
	out := make([]Chapter, len(list))
	for i, c := range list {
		out[i] = Chapter{Chapter: c}
	}

	slices.SortStableFunc(out, func(a, b Chapter) int {
		return cmp.Compare(a.Number, b.Number)
	})

	return out
}

var (
	fileNameReplacer = strings.NewReplacer(
		"•", "_", "-", "_", "—", "_", "–", "_",
		"/", "_", "\\", "_", ".", "_", " ", "_",
		"(", "", ")", "",
	)
	underscores = regexp.MustCompile(`_+`)
)

func sanitize(s string) string {
	s = fileNameReplacer.Replace(strings.ToLower(s))

	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return -1
	}, s)

	return strings.Trim(underscores.ReplaceAllString(s, "_"), "_")
}

func (c Chapter) baseName() string {
	lbl := sanitize(c.Label)
	title := sanitize(c.Title)

	switch {
	case lbl == "":
		return title
	case title == "" || title == lbl:
		return lbl
	default:
		return lbl + "_" + title
	}
}

// FolderName is the scratch directory images are downloaded into.
func (c Chapter) FolderName() string {
	return c.baseName() + "_tmp"
}

func (c Chapter) OutputCBZ() string {
	return c.baseName() + ".cbz"
}

func (c Chapter) OutputCBZPath(out string) string {
	return filepath.Join(out, c.OutputCBZ())
}
