package paging

import (
	"regexp"
	"time"

	"github.com/dlclark/regexp2"
)

// Pattern finds references in page text.
type Pattern interface {
	// FindAll returns every non-overlapping match. Each match is the full
	// match followed by its capturing groups; groups that did not take part
	// in the match are empty strings.
	FindAll(s string) [][]string
}

const patternTimeout = 250 * time.Millisecond

type stdPattern struct {
	re *regexp.Regexp
}

// Std adapts a Go regexp to a Pattern.
func Std(re *regexp.Regexp) Pattern {
	return stdPattern{re: re}
}

func (p stdPattern) FindAll(s string) [][]string {
	return p.re.FindAllStringSubmatch(s, -1)
}

func (p stdPattern) String() string {
	return p.re.String()
}

type backtrackingPattern struct {
	re *regexp2.Regexp
}

// Compile compiles expr with backtracking semantics, which accepts the
// syntax site definitions are usually written in, lookarounds included.
func Compile(expr string) (Pattern, error) {
	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = patternTimeout

	return backtrackingPattern{re: re}, nil
}

// MustCompile is like Compile but panics on an invalid expression.
func MustCompile(expr string) Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic("paging: Compile(" + expr + "): " + err.Error())
	}

	return p
}

func (p backtrackingPattern) FindAll(s string) [][]string {
	var out [][]string

	m, err := p.re.FindStringMatch(s)
	for m != nil && err == nil {
		groups := m.Groups()
		row := make([]string, len(groups))
		for i, g := range groups {
			if len(g.Captures) > 0 {
				row[i] = g.String()
			}
		}
		out = append(out, row)

		m, err = p.re.FindNextMatch(m)
	}

	return out
}

func (p backtrackingPattern) String() string {
	return p.re.String()
}
