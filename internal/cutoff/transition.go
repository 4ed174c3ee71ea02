// Package cutoff finds date breakpoints in a most-recent-first entry list and
// walks the user through choosing one.
package cutoff

import "github.com/papapumpkin/beetcut/internal/catalog"

// Transition is a boundary between two adjacent entries with different dates.
// Choosing it keeps Included and everything before it.
type Transition struct {
	Index    int // position of Included in the entry list
	Included catalog.DateEntry
	Excluded catalog.DateEntry
}

// Rank is the 1-based position of Included, the count a user would keep.
func (t Transition) Rank() int {
	return t.Index + 1
}

// FindTransition returns the first adjacent pair at or after position skip
// whose dates differ. It reports false when the list is too short or the
// dates never change past skip.
func FindTransition(entries []catalog.DateEntry, skip int) (Transition, bool) {
	if skip < 0 {
		skip = 0
	}
	for i := skip; i+1 < len(entries); i++ {
		if entries[i].Date != entries[i+1].Date {
			return Transition{Index: i, Included: entries[i], Excluded: entries[i+1]}, true
		}
	}
	return Transition{}, false
}
