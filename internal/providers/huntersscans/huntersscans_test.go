package huntersscans_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brogergvhs/mangaseek/internal/paging"
	"github.com/brogergvhs/mangaseek/internal/providers"
	"github.com/brogergvhs/mangaseek/internal/providers/huntersscans"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listPage(labels ...string) string {
	refs := make([]string, len(labels))
	for i, l := range labels {
		refs[i] = fmt.Sprintf(`{"href":"/ler/tower-of-god-capitulo-%s"}`, l)
	}

	return `<html><head><script src="/app.js"></script><script>window.dataLayer = [];</script></head>
<body><script>self.__next_f.push([1,"` + strings.ReplaceAll(strings.Join(refs, ","), `"`, `\"`) + `"])</script></body></html>`
}

func newSite(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/manga/tower-of-god", func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Query().Get("page")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprint(w, body)
	})
	mux.HandleFunc("/ler/tower-of-god-capitulo-2", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `<html><body>
<header><img src="/logo.png"></header>
<main class="container">
  <img src="https://cdn.example/p1.webp">
  <img src="/uploads/p2.webp">
  <img src="">
</main></body></html>`)
	})
	mux.HandleFunc("/ler/tower-of-god-capitulo-3", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `<html><body><main class="container"><p>removido</p></main></body></html>`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestScraper_GetChapters(t *testing.T) {
	t.Parallel()

	t.Run("merges pages and keeps the repeated boundary chapters", func(t *testing.T) {
		t.Parallel()

		srv := newSite(t, map[string]string{
			"1": listPage("1", "2", "3", "4", "5"),
			"2": listPage("1", "6", "7-5", "8", "9"),
			"3": listPage("1", "10"),
		})
		s := huntersscans.New(srv.Client(), huntersscans.WithBaseURL(srv.URL))

		got, err := s.GetChapters(context.Background(), srv.URL+"/manga/tower-of-god")
		require.NoError(t, err)
		require.Len(t, got, 10)

		assert.Equal(t, providers.Chapter{
			URL:    srv.URL + "/ler/tower-of-god-capitulo-10",
			Title:  "Capítulo 10",
			Label:  "10",
			Number: 10,
		}, got[0])

		labels := make([]string, len(got))
		for i, c := range got {
			labels[i] = c.Label
		}
		assert.Equal(t, []string{"10", "9", "8", "7.5", "6", "5", "4", "3", "2", "1"}, labels)
		assert.InDelta(t, 7.5, got[3].Number, 0.0001)
	})

	t.Run("a missing page ends the list", func(t *testing.T) {
		t.Parallel()

		srv := newSite(t, map[string]string{
			"1": listPage("1", "2", "3", "4"),
		})
		s := huntersscans.New(srv.Client(), huntersscans.WithBaseURL(srv.URL))

		got, err := s.GetChapters(context.Background(), srv.URL+"/manga/tower-of-god")
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("a page without chapter data fails", func(t *testing.T) {
		t.Parallel()

		srv := newSite(t, map[string]string{
			"1": `<html><script>console.log("maintenance")</script></html>`,
		})
		s := huntersscans.New(srv.Client(), huntersscans.WithBaseURL(srv.URL))

		_, err := s.GetChapters(context.Background(), srv.URL+"/manga/tower-of-god")
		require.ErrorIs(t, err, paging.ErrExtractionNotFound)
		assert.Contains(t, err.Error(), huntersscans.Name)
	})
}

func TestScraper_GetImages(t *testing.T) {
	t.Parallel()

	srv := newSite(t, nil)
	s := huntersscans.New(srv.Client(), huntersscans.WithBaseURL(srv.URL))

	t.Run("collects reader images", func(t *testing.T) {
		t.Parallel()

		got, err := s.GetImages(context.Background(), srv.URL+"/ler/tower-of-god-capitulo-2")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://cdn.example/p1.webp",
			srv.URL + "/uploads/p2.webp",
		}, got)
	})

	t.Run("a chapter without images is an error", func(t *testing.T) {
		t.Parallel()

		_, err := s.GetImages(context.Background(), srv.URL+"/ler/tower-of-god-capitulo-3")
		require.Error(t, err)
	})
}

func TestScraper_ChapterFromElement(t *testing.T) {
	t.Parallel()

	_, err := huntersscans.New(http.DefaultClient).ChapterFromElement(nil, huntersscans.BaseURL)
	assert.ErrorIs(t, err, providers.ErrUnsupported)
}
