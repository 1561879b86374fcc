package paging

// State is the data gathered by one Run. It is owned by that Run and handed
// to the heuristic on every page.
type State struct {
	Page        int
	Accumulated []Entry
	Pinned      *PinnedSet
}

// NewState returns the state a Run starts from.
func NewState() State {
	return State{Page: 1, Pinned: NewPinnedSet()}
}

// Heuristic folds one page batch into the state and decides whether
// paging is over.
type Heuristic interface {
	Step(st State, batch []Entry) (next State, done bool)
}

// BoundaryPinning handles sites that render their first and last chapter on
// every page. A batch of two entries or fewer ends paging and is kept as is;
// a longer batch has its lowest and highest entries pinned and the rest
// accumulated. Paging also ends once a name repeats in the accumulator.
type BoundaryPinning struct{}

// Step keeps only the two boundary entries of batch out of the accumulator.
// A name pinned on an earlier page that shows up mid-batch later is
// accumulated like any other and counts towards the repeat check; Finalize
// merges it with the pinned copy.
func (BoundaryPinning) Step(st State, batch []Entry) (State, bool) {
	if len(batch) <= 2 {
		st.Accumulated = append(st.Accumulated, batch...)
		return st, true
	}

	sorted := make([]Entry, len(batch))
	copy(sorted, batch)
	sortAscending(sorted)

	pinned, rest, _ := Pin(sorted)
	st.Pinned.Add(pinned[0])
	st.Pinned.Add(pinned[1])
	st.Accumulated = append(st.Accumulated, rest...)

	return st, hasDuplicateName(st.Accumulated)
}

// PlainPaging appends every batch without pinning. Paging ends on an empty
// batch or on a batch that brings no name not already accumulated.
type PlainPaging struct{}

func (PlainPaging) Step(st State, batch []Entry) (State, bool) {
	if len(batch) == 0 {
		return st, true
	}

	known := make(map[string]bool, len(st.Accumulated))
	for _, e := range st.Accumulated {
		known[e.Name] = true
	}

	fresh := false
	for _, e := range batch {
		if !known[e.Name] {
			fresh = true
			break
		}
	}

	st.Accumulated = append(st.Accumulated, batch...)

	return st, !fresh
}
