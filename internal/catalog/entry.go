// Package catalog queries a beets library through the beet CLI and parses
// its line-oriented output into dated entries.
package catalog

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Layout of a line produced by the recent-entries query:
//
//	01234567890123456789...
//	YYYY-MM-DD HH:MM:SS artist - album - title
const (
	dateLength = 10
	entryStart = 20
)

var (
	// ErrLineTooShort is returned when a line cannot hold a date and a description.
	ErrLineTooShort = errors.New("entry too short")
	// ErrSplitCharacter is returned when the date or description boundary
	// falls inside a multi-byte character.
	ErrSplitCharacter = errors.New("entry boundary splits a character")
)

// DateEntry is one catalog record: the date it was added and a free-text description.
type DateEntry struct {
	Date  string
	Entry string
}

// ParseDateEntry splits a line into its date (first 10 bytes) and description
// (from byte 20 on). The date is kept as an opaque, lexicographically sortable
// token; the time region in between is skipped unchecked.
func ParseDateEntry(line string) (DateEntry, error) {
	if len(line) <= entryStart {
		return DateEntry{}, fmt.Errorf("%w: %q", ErrLineTooShort, line)
	}
	if !utf8.RuneStart(line[dateLength]) || !utf8.RuneStart(line[entryStart]) {
		return DateEntry{}, fmt.Errorf("%w: %q", ErrSplitCharacter, line)
	}
	return DateEntry{
		Date:  line[:dateLength],
		Entry: line[entryStart:],
	}, nil
}

func (e DateEntry) String() string {
	return e.Date + " " + e.Entry
}
