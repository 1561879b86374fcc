package paging

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// DefaultMaxPages bounds a Run when Paginator.MaxPages is zero.
const DefaultMaxPages = 500

// FetchFunc returns the raw text of one page of a chapter list.
type FetchFunc func(ctx context.Context, page int) (string, error)

// Logger is the logging surface the paginator needs.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}

// Paginator walks a paginated chapter list page by page. It keeps no state
// between runs.
type Paginator struct {
	Fetch     FetchFunc
	Extractor Extractor
	Decoder   Decoder
	// Heuristic defaults to BoundaryPinning.
	Heuristic Heuristic
	// MaxPages defaults to DefaultMaxPages. Reaching it ends the run with
	// whatever was gathered.
	MaxPages int
	Log      Logger
}

// Run pages from page 1 until the heuristic reports the end of data and
// returns the merged chapter list, highest number first.
//
// A page that fails to fetch counts as an empty page, unless ctx was
// cancelled meanwhile, which aborts the run with the context error. A page whose scripts
// hold no reference at all aborts the run with ErrExtractionNotFound.
func (p *Paginator) Run(ctx context.Context) ([]Entry, error) {
	if p.Fetch == nil {
		return nil, errors.New("paginator has no fetch function")
	}

	heuristic := p.Heuristic
	if heuristic == nil {
		heuristic = BoundaryPinning{}
	}
	maxPages := p.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	log := p.Log
	if log == nil {
		log = nopLogger{}
	}

	st := NewState()
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("chapter list page %d: %w", st.Page, err)
		}

		batch, err := p.page(ctx, st.Page, log)
		if err != nil {
			return nil, fmt.Errorf("chapter list page %d: %w", st.Page, err)
		}

		var done bool
		st, done = heuristic.Step(st, batch)
		log.Debugf("page %d: %d entries, %d accumulated, %d pinned", st.Page, len(batch), len(st.Accumulated), st.Pinned.Len())

		if done {
			break
		}
		if st.Page >= maxPages {
			log.Warnf("stopping after %d pages without reaching the end of the chapter list", st.Page)
			break
		}
		st.Page++
	}

	return Finalize(st.Accumulated, st.Pinned), nil
}

func (p *Paginator) page(ctx context.Context, page int, log Logger) ([]Entry, error) {
	text, err := p.Fetch(ctx, page)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warnf("page %d: fetch failed, treating as empty: %v", page, err)
		return nil, nil
	}

	refs, err := p.Extractor.Extract(text)
	if err != nil {
		return nil, err
	}

	batch := make([]Entry, 0, len(refs))
	for _, ref := range refs {
		e := p.Decoder.Decode(ref)
		if e.Name == DefaultName {
			log.Debugf("page %d: no chapter label in %q", page, ref)
		}
		batch = append(batch, e)
	}

	return batch, nil
}

// PageURL sets the page query parameter on base.
func PageURL(base string, page int) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}

	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	return u.String()
}
