package paging

import (
	"slices"

	om "github.com/wk8/go-ordered-map/v2"
)

// Finalize merges the accumulated and pinned entries, keeps the first entry
// seen for each name and orders the result from the highest number down.
func Finalize(accumulated []Entry, pinned *PinnedSet) []Entry {
	byName := om.New[string, Entry]()
	for _, e := range slices.Concat(accumulated, pinned.Entries()) {
		if _, ok := byName.Get(e.Name); !ok {
			byName.Set(e.Name, e)
		}
	}

	out := make([]Entry, 0, byName.Len())
	for pair := byName.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}

	sortAscending(out)
	slices.Reverse(out)

	return out
}
