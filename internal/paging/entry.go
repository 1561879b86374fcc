package paging

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Entry is one decoded chapter reference. Two entries are the same item
// iff their names are equal.
type Entry struct {
	Name     string
	Location string
}

// SortKey returns the numeric ordering value of a chapter name.
// Names that do not parse as a number sort below everything else.
func SortKey(name string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(name), 64)
	if err != nil || math.IsNaN(f) {
		return math.Inf(-1)
	}

	return f
}

func sortAscending(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(SortKey(a.Name), SortKey(b.Name))
	})
}

func hasDuplicateName(entries []Entry) bool {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Name]; ok {
			return true
		}
		seen[e.Name] = struct{}{}
	}

	return false
}
