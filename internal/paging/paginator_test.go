package paging_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/brogergvhs/mangaseek/internal/paging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSite serves chapter labels per page. Pages missing from the map fail
// to fetch.
type fakeSite struct {
	pages   map[int][]string
	fetched []int
}

func (s *fakeSite) fetch(_ context.Context, page int) (string, error) {
	s.fetched = append(s.fetched, page)

	labels, ok := s.pages[page]
	if !ok {
		return "", errors.New("HTTP 503")
	}

	return sitePage(labels...), nil
}

func newPaginator(site *fakeSite) *paging.Paginator {
	return &paging.Paginator{
		Fetch:     site.fetch,
		Extractor: paging.Extractor{Pattern: refPattern},
		Decoder:   paging.Decoder{Label: labelPattern, Base: "https://site.example"},
	}
}

func TestPaginator_Run(t *testing.T) {
	t.Parallel()

	t.Run("walks pages until a short page", func(t *testing.T) {
		t.Parallel()

		site := &fakeSite{pages: map[int][]string{
			1: {"1", "2", "3", "4", "5"},
			2: {"1", "6", "7", "8", "9"},
			3: {"1", "10"},
		}}

		got, err := newPaginator(site).Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []int{1, 2, 3}, site.fetched)
		assert.Equal(t, []string{"10", "9", "8", "7", "6", "5", "4", "3", "2", "1"}, names(got))
		assert.Equal(t, "https://site.example/ler/solo-leveling-capitulo-10", got[0].Location)
	})

	t.Run("stops once the server repeats a page", func(t *testing.T) {
		t.Parallel()

		site := &fakeSite{pages: map[int][]string{
			1: {"1", "2", "3", "4", "9"},
			2: {"1", "3", "5", "6", "9"},
			3: {"1", "7", "8", "10", "9"},
		}}

		got, err := newPaginator(site).Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []int{1, 2}, site.fetched)
		assert.Equal(t, []string{"9", "6", "5", "4", "3", "2", "1"}, names(got))
	})

	t.Run("keeps decimal chapters in numeric order", func(t *testing.T) {
		t.Parallel()

		site := &fakeSite{pages: map[int][]string{
			1: {"10-2", "10-5", "9", "11"},
			2: {"11"},
		}}

		got, err := newPaginator(site).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"11", "10.5", "10.2", "9"}, names(got))
	})

	t.Run("a failed fetch ends paging with what was gathered", func(t *testing.T) {
		t.Parallel()

		site := &fakeSite{pages: map[int][]string{
			1: {"1", "2", "3", "4"},
		}}
		log := &recordingLogger{}

		p := newPaginator(site)
		p.Log = log
		got, err := p.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, site.fetched)
		assert.Equal(t, []string{"4", "3", "2", "1"}, names(got))
		require.Len(t, log.warn, 1)
		assert.Contains(t, log.warn[0], "HTTP 503")
	})

	t.Run("a page without chapter data is fatal", func(t *testing.T) {
		t.Parallel()

		p := &paging.Paginator{
			Fetch: func(context.Context, int) (string, error) {
				return `<html><script>var a = 1;</script></html>`, nil
			},
			Extractor: paging.Extractor{Pattern: refPattern},
			Decoder:   paging.Decoder{Label: labelPattern},
		}

		got, err := p.Run(context.Background())
		assert.ErrorIs(t, err, paging.ErrExtractionNotFound)
		assert.Contains(t, err.Error(), "page 1")
		assert.Nil(t, got)
	})

	t.Run("malformed labels sort last without dropping the page", func(t *testing.T) {
		t.Parallel()

		p := &paging.Paginator{
			Fetch: func(_ context.Context, page int) (string, error) {
				if page > 1 {
					return `<script>[]</script><script>["/ler/a-capitulo-1"]</script>`, nil
				}
				return `<script>["/ler/a-capitulo-1", "/ler/a-especial", "/ler/a-capitulo-2", "/ler/a-capitulo-3", "/ler/a-capitulo-4"]</script>`, nil
			},
			Extractor: paging.Extractor{Pattern: paging.MustCompile(`/ler/[\w-]+`)},
			Decoder:   paging.Decoder{Label: labelPattern, Base: "https://site.example"},
		}

		got, err := p.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"4", "3", "2", "1", "0"}, names(got))
		assert.Equal(t, "https://site.example/ler/a-especial", got[4].Location)
	})

	t.Run("stops at the page limit", func(t *testing.T) {
		t.Parallel()

		next := 0
		p := &paging.Paginator{
			Fetch: func(context.Context, int) (string, error) {
				labels := []string{"1", "", "", "1000"}
				labels[1] = strconv.Itoa(next + 2)
				labels[2] = strconv.Itoa(next + 3)
				next += 2
				return sitePage(labels...), nil
			},
			Extractor: paging.Extractor{Pattern: refPattern},
			Decoder:   paging.Decoder{Label: labelPattern},
			MaxPages:  3,
		}
		log := &recordingLogger{}
		p.Log = log

		got, err := p.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 6, next)
		assert.Len(t, got, 8)
		require.Len(t, log.warn, 1)
		assert.Contains(t, log.warn[0], "3 pages")
	})

	t.Run("honors cancellation between pages", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		site := &fakeSite{pages: map[int][]string{
			1: {"1", "2", "3", "4"},
			2: {"1", "5", "6", "7"},
		}}
		p := newPaginator(site)
		fetch := p.Fetch
		p.Fetch = func(ctx context.Context, page int) (string, error) {
			defer cancel()
			return fetch(ctx, page)
		}

		_, err := p.Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []int{1}, site.fetched)
	})

	t.Run("cancellation during a fetch is not an empty page", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		site := &fakeSite{pages: map[int][]string{
			1: {"1", "2", "3", "4", "5"},
		}}
		p := newPaginator(site)
		fetch := p.Fetch
		p.Fetch = func(ctx context.Context, page int) (string, error) {
			if page == 2 {
				cancel()
				return "", ctx.Err()
			}
			return fetch(ctx, page)
		}

		got, err := p.Run(ctx)
		require.ErrorIs(t, err, context.Canceled)
		assert.Contains(t, err.Error(), "chapter list page 2")
		assert.Nil(t, got)
		assert.Equal(t, []int{1}, site.fetched)
	})

	t.Run("requires a fetch function", func(t *testing.T) {
		t.Parallel()

		_, err := (&paging.Paginator{}).Run(context.Background())
		require.Error(t, err)
	})

	t.Run("plain paging heuristic", func(t *testing.T) {
		t.Parallel()

		site := &fakeSite{pages: map[int][]string{
			1: {"1", "2"},
			2: {"3"},
			3: {"1", "3"},
		}}
		p := newPaginator(site)
		p.Heuristic = paging.PlainPaging{}

		got, err := p.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, site.fetched)
		assert.Equal(t, []string{"3", "2", "1"}, names(got))
	})
}

func TestBoundaryPinning_Step(t *testing.T) {
	t.Parallel()

	t.Run("short batch is kept verbatim and ends paging", func(t *testing.T) {
		t.Parallel()

		st := paging.NewState()
		st.Accumulated = entries("2", "3")

		next, done := paging.BoundaryPinning{}.Step(st, entries("10", "1"))
		assert.True(t, done)
		assert.Equal(t, []string{"2", "3", "10", "1"}, names(next.Accumulated))
		assert.Equal(t, 0, next.Pinned.Len())
	})

	t.Run("pins the extremes of an unsorted batch", func(t *testing.T) {
		t.Parallel()

		next, done := paging.BoundaryPinning{}.Step(paging.NewState(), entries("5", "3", "1", "4", "2"))
		assert.False(t, done)
		assert.Equal(t, []string{"2", "3", "4"}, names(next.Accumulated))
		assert.Equal(t, []string{"1", "5"}, names(next.Pinned.Entries()))
	})

	t.Run("repeated boundary names are pinned once", func(t *testing.T) {
		t.Parallel()

		st, _ := paging.BoundaryPinning{}.Step(paging.NewState(), entries("1", "2", "3", "4", "5"))
		st, done := paging.BoundaryPinning{}.Step(st, entries("1", "6", "7", "8", "9"))

		assert.False(t, done)
		assert.Equal(t, []string{"1", "5", "9"}, names(st.Pinned.Entries()))
		assert.Equal(t, []string{"2", "3", "4", "6", "7", "8"}, names(st.Accumulated))
	})

	t.Run("a repeated name ends paging after the append", func(t *testing.T) {
		t.Parallel()

		st, _ := paging.BoundaryPinning{}.Step(paging.NewState(), entries("1", "2", "3", "4", "5"))
		st, done := paging.BoundaryPinning{}.Step(st, entries("1", "4", "6", "9"))

		assert.True(t, done)
		assert.Equal(t, []string{"2", "3", "4", "4", "6"}, names(st.Accumulated))
	})

	t.Run("a previously pinned name mid-batch is accumulated", func(t *testing.T) {
		t.Parallel()

		st, _ := paging.BoundaryPinning{}.Step(paging.NewState(), entries("1", "2", "3", "4", "5"))
		st, done := paging.BoundaryPinning{}.Step(st, entries("0", "5", "6", "7", "8"))

		assert.False(t, done)
		assert.Equal(t, []string{"1", "5", "0", "8"}, names(st.Pinned.Entries()))
		assert.Equal(t, []string{"2", "3", "4", "5", "6", "7"}, names(st.Accumulated))
	})
}

func TestPageURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://site.example/manga/x?page=1", paging.PageURL("https://site.example/manga/x", 1))
	assert.Equal(t, "https://site.example/manga/x?page=3&sort=asc", paging.PageURL("https://site.example/manga/x?page=2&sort=asc", 3))
}
