package chapters

import (
	"fmt"
	"strconv"
	"strings"
)

// Select applies the first non-empty selector: a single chapter (label
// first, then 1-based index), an index range such as "5-12", or an index
// list such as "1,3,5". With no selector every chapter is returned.
func Select(all []Chapter, chapter, rng, list string) ([]Chapter, error) {
	switch {
	case chapter != "":
		if byLabel := ByLabel(all, chapter); len(byLabel) > 0 {
			return byLabel, nil
		}
		idx, err := atoi(chapter)
		if err != nil || idx <= 0 || idx > len(all) {
			return nil, fmt.Errorf("chapter %q not found", chapter)
		}
		return []Chapter{all[idx-1]}, nil
	case rng != "":
		return Range(all, rng)
	case list != "":
		return List(all, list), nil
	default:
		return all, nil
	}
}

// ByLabel matches labels as written or numerically, so "7" finds "07".
func ByLabel(all []Chapter, label string) []Chapter {
	label = strings.TrimSpace(label)
	num, numErr := strconv.ParseFloat(label, 64)

	var out []Chapter
	for _, ch := range all {
		if ch.Label == label || (numErr == nil && ch.Number == num && ch.Label != "") {
			out = append(out, ch)
		}
	}

	return out
}

func Range(all []Chapter, rng string) ([]Chapter, error) {
	from, to, ok := strings.Cut(rng, "-")
	if !ok {
		return nil, fmt.Errorf("invalid range %q, expected FROM-TO", rng)
	}

	start, err1 := atoi(from)
	end, err2 := atoi(to)
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("invalid range %q, expected FROM-TO", rng)
	}
	if start <= 0 || start > end || end > len(all) {
		return nil, fmt.Errorf("range %q outside 1-%d", rng, len(all))
	}

	return all[start-1 : end], nil
}

// List ignores indices that are malformed or out of bounds.
func List(all []Chapter, list string) []Chapter {
	var out []Chapter
	for n := range strings.SplitSeq(list, ",") {
		idx, err := atoi(n)
		if err != nil || idx <= 0 || idx > len(all) {
			continue
		}
		out = append(out, all[idx-1])
	}

	return out
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
