package providers

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var ErrNoProvider = errors.New("no source registered for this site")

type Source struct {
	Name    string
	Hosts   []string
	Scraper Scraper
}

// Registry picks a source by the host of a series URL. Sources registered
// without hosts are used as the fallback.
type Registry struct {
	byHost   map[string]Source
	sources  []Source
	fallback *Source
}

func NewRegistry() *Registry {
	return &Registry{byHost: map[string]Source{}}
}

func (r *Registry) Register(src Source) {
	r.sources = append(r.sources, src)

	if len(src.Hosts) == 0 {
		r.fallback = &src
		return
	}

	for _, h := range src.Hosts {
		r.byHost[normalizeHost(h)] = src
	}
}

func (r *Registry) Lookup(rawURL string) (Source, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return Source{}, fmt.Errorf("invalid series URL %q", rawURL)
	}

	if src, ok := r.byHost[normalizeHost(u.Hostname())]; ok {
		return src, nil
	}
	if r.fallback != nil {
		return *r.fallback, nil
	}

	return Source{}, fmt.Errorf("%s: %w", u.Hostname(), ErrNoProvider)
}

// Sources returns every registered source ordered by name.
func (r *Registry) Sources() []Source {
	out := slices.Clone(r.sources)
	slices.SortStableFunc(out, func(a, b Source) int { return strings.Compare(a.Name, b.Name) })

	return out
}

func normalizeHost(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.TrimPrefix(h, "www.")
}
