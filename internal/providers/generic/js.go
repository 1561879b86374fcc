package generic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"slices"
	"strings"
)

var (
	reJSVar  = regexp.MustCompile(`(?m)(?:var|let|const)\s+([A-Za-z0-9_]+)\s*=\s*["']?([\w\-\/\.]+)["']?;`)
	reJSURL  = regexp.MustCompile(`["'](\/[A-Za-z0-9\/\-\._]+)["']`)
	reJSCall = regexp.MustCompile(`(?:fetch|axios|post|get)\s*\(\s*["']([^"']+)["']`)
)

// JSAnalysis is what ExtractJS pulls out of inline scripts.
type JSAnalysis struct {
	Vars  map[string]string
	URLs  []string
	Calls []string
}

func ExtractJS(js string) JSAnalysis {
	out := JSAnalysis{Vars: map[string]string{}}

	for _, m := range reJSVar.FindAllStringSubmatch(js, -1) {
		out.Vars[m[1]] = m[2]
	}
	for _, m := range reJSURL.FindAllStringSubmatch(js, -1) {
		out.URLs = append(out.URLs, m[1])
	}
	for _, m := range reJSCall.FindAllStringSubmatch(js, -1) {
		out.Calls = append(out.Calls, m[1])
	}

	return out
}

// Endpoints guesses URLs that may return the chapter pages: chapter-ish
// directory paths joined with id variables, plus every literal fetch call.
func (js JSAnalysis) Endpoints() []string {
	var out []string

	ids := make([]string, 0, len(js.Vars))
	for key, val := range js.Vars {
		if strings.Contains(strings.ToLower(key), "id") {
			ids = append(ids, val)
		}
	}
	slices.Sort(ids)

	for _, base := range js.URLs {
		if strings.Contains(base, "chap") && strings.HasSuffix(base, "/") {
			for _, id := range ids {
				out = append(out, base+id)
			}
		}
	}
	out = append(out, js.Calls...)

	slices.Sort(out)
	return slices.Compact(out)
}

func looksLikeHTML(s string) bool {
	s = strings.TrimSpace(s)
	for _, tag := range []string{"<img", "<a", "<div", "<picture", "<source"} {
		if strings.Contains(s, tag) {
			return true
		}
	}

	return false
}

func (s *Scraper) tryDynamicEndpoints(ctx context.Context, chapterURL string, js JSAnalysis, col *imageCollector) {
	for _, path := range js.Endpoints() {
		target := resolve(chapterURL, path)
		s.log.Debugf("probing %s", target)

		body, ok := s.tryDynamicFetch(ctx, target, http.MethodPost)
		if !ok {
			body, ok = s.tryDynamicFetch(ctx, target, http.MethodGet)
		}
		if !ok || !strings.HasPrefix(strings.TrimSpace(body), "{") {
			continue
		}

		var obj map[string]any
		if err := json.Unmarshal([]byte(body), &obj); err == nil {
			col.ScanNuxt(obj, chapterURL)
		}
	}
}

func (s *Scraper) tryDynamicFetch(ctx context.Context, target, method string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Debugf("%s %s: %v", method, target, err)
		return "", false
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		s.log.Debugf("read %s: %v", target, err)
		return "", false
	}

	return string(b), true
}
