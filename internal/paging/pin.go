package paging

import (
	om "github.com/wk8/go-ordered-map/v2"
)

// PinnedSet holds the boundary entries a site renders on every page,
// keyed by name in first-seen order.
type PinnedSet struct {
	m *om.OrderedMap[string, Entry]
}

func NewPinnedSet() *PinnedSet {
	return &PinnedSet{m: om.New[string, Entry]()}
}

// Add keeps the first entry seen for a name. It reports whether the name
// was new.
func (p *PinnedSet) Add(e Entry) bool {
	if _, ok := p.m.Get(e.Name); ok {
		return false
	}
	p.m.Set(e.Name, e)

	return true
}

func (p *PinnedSet) Has(name string) bool {
	if p == nil {
		return false
	}
	_, ok := p.m.Get(name)

	return ok
}

func (p *PinnedSet) Len() int {
	if p == nil {
		return 0
	}

	return p.m.Len()
}

// Entries returns the pinned entries in insertion order.
func (p *PinnedSet) Entries() []Entry {
	if p == nil {
		return nil
	}

	out := make([]Entry, 0, p.m.Len())
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}

	return out
}

// Pin splits an ascending batch into its lowest and highest entries and
// the ones in between. ok is false when the batch has two entries or fewer.
func Pin(sorted []Entry) (pinned [2]Entry, rest []Entry, ok bool) {
	if len(sorted) <= 2 {
		return pinned, nil, false
	}

	pinned = [2]Entry{sorted[0], sorted[len(sorted)-1]}
	rest = make([]Entry, len(sorted)-2)
	copy(rest, sorted[1:len(sorted)-1])

	return pinned, rest, true
}
