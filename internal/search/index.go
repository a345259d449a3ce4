package search

import (
	"iter"
	"slices"
	"sort"

	"tkgrep/internal/token"
)

// Location is a resolved match: the line and 1-based byte column where the
// matched text starts, and its byte length.
type Location struct {
	Line   int
	Kind   token.Kind
	Column int
	Length int
}

// Index keeps at most one Location per line, the first one inserted, and
// yields them by ascending line.
type Index struct {
	byLine map[int]Location
	lines  []int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byLine: make(map[int]Location)}
}

// Insert adds loc unless its line is already present. It reports whether
// loc was kept.
func (x *Index) Insert(loc Location) bool {
	if _, exists := x.byLine[loc.Line]; exists {
		return false
	}
	x.byLine[loc.Line] = loc

	i := sort.SearchInts(x.lines, loc.Line)
	x.lines = slices.Insert(x.lines, i, loc.Line)
	return true
}

// Len is the number of distinct matched lines.
func (x *Index) Len() int {
	return len(x.lines)
}

// Find returns the Location recorded for line.
func (x *Index) Find(line int) (Location, bool) {
	loc, ok := x.byLine[line]
	return loc, ok
}

// All yields the recorded Locations by ascending line.
func (x *Index) All() iter.Seq[Location] {
	return func(yield func(Location) bool) {
		for _, line := range x.lines {
			if !yield(x.byLine[line]) {
				return
			}
		}
	}
}
