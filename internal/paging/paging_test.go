package paging_test

import (
	"fmt"
	"strings"

	"github.com/brogergvhs/mangaseek/internal/paging"
)

var (
	refPattern   = paging.MustCompile(`/ler/[\w+-]+-capitulo-[\d.-]+`)
	labelPattern = paging.MustCompile(`capitulo-([\d.-]+)`)
)

// sitePage renders a page whose chapter links live in the second script.
func sitePage(labels ...string) string {
	refs := make([]string, len(labels))
	for i, l := range labels {
		refs[i] = fmt.Sprintf(`"/ler/solo-leveling-capitulo-%s"`, l)
	}

	return `<html><head>
<script></script>
<script>window.analytics = {id: "UA-1"};</script>
<script>self.__next_f.push([1, [` + strings.Join(refs, ",") + `]])</script>
</head><body><main></main></body></html>`
}

func names(entries []paging.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}

	return out
}

func entries(names ...string) []paging.Entry {
	out := make([]paging.Entry, len(names))
	for i, n := range names {
		out[i] = paging.Entry{Name: n, Location: "https://site.example/ler/x-capitulo-" + n}
	}

	return out
}

type recordingLogger struct {
	debug []string
	warn  []string
}

func (l *recordingLogger) Debugf(format string, args ...any) {
	l.debug = append(l.debug, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.warn = append(l.warn, fmt.Sprintf(format, args...))
}
