package providers

import (
	"context"
	"errors"

	"github.com/PuerkitoBio/goquery"
)

// ErrUnsupported is returned by adapters for parsing modes they do not offer.
var ErrUnsupported = errors.New("not supported by this source")

type Chapter struct {
	URL    string
	Title  string
	Label  string
	Number float64
}

type Scraper interface {
	GetChapters(ctx context.Context, url string) ([]Chapter, error)
	GetImages(ctx context.Context, chapterURL string) ([]string, error)
}

// ElementParser reads a single chapter out of one list element. Sources
// that only expose chapters through page scripts return ErrUnsupported.
type ElementParser interface {
	ChapterFromElement(sel *goquery.Selection, pageURL string) (Chapter, error)
}
