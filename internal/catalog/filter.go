package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// DateFilterScope controls where a query-time filter lands in the filter chain.
type DateFilterScope string

const (
	// ScopeFinal substitutes the extra filter once, for the last token of the final group.
	ScopeFinal DateFilterScope = "final"
	// ScopeEveryGroup appends the extra filter to every group, keeping all tokens.
	ScopeEveryGroup DateFilterScope = "every"
)

var (
	// ErrEmptyFilterGroup is returned when a filter group has no tokens,
	// e.g. for an empty string or two consecutive commas.
	ErrEmptyFilterGroup = errors.New("empty filter group")
	// ErrInvalidScope is returned for an unknown DateFilterScope.
	ErrInvalidScope = errors.New("invalid date filter scope")
)

// continuation is appended to the last token of a group when another group follows.
const continuation = ","

// FilterSpec holds the fixed ("timeless") filters of every list query.
// Groups are alternatives; beet reads a trailing comma on a token as the
// end of one alternative.
type FilterSpec struct {
	Groups [][]string
	Scope  DateFilterScope
}

// ParseFilterSpec builds a FilterSpec from a raw string where commas separate
// groups and newlines separate the tokens of a group.
//
// Example: "arg1\narg2,arg3\narg4" yields [["arg1" "arg2"] ["arg3" "arg4"]],
// which encodes to the arguments "arg1" "arg2," "arg3" "arg4".
func ParseFilterSpec(raw string) (FilterSpec, error) {
	parts := strings.Split(raw, ",")
	groups := make([][]string, 0, len(parts))
	for i, part := range parts {
		tokens := splitLines(part)
		if len(tokens) == 0 {
			return FilterSpec{}, fmt.Errorf("filter group %d: %w (duplicate commas in timeless args?)", i+1, ErrEmptyFilterGroup)
		}
		groups = append(groups, tokens)
	}
	return FilterSpec{Groups: groups, Scope: ScopeFinal}, nil
}

// NewFilterSpec validates pre-split groups.
func NewFilterSpec(groups [][]string, scope DateFilterScope) (FilterSpec, error) {
	if scope == "" {
		scope = ScopeFinal
	}
	if err := scope.Validate(); err != nil {
		return FilterSpec{}, err
	}
	if len(groups) == 0 {
		return FilterSpec{}, fmt.Errorf("no filter groups: %w", ErrEmptyFilterGroup)
	}
	out := make([][]string, len(groups))
	for i, g := range groups {
		if len(g) == 0 {
			return FilterSpec{}, fmt.Errorf("filter group %d: %w", i+1, ErrEmptyFilterGroup)
		}
		out[i] = append([]string(nil), g...)
	}
	return FilterSpec{Groups: out, Scope: scope}, nil
}

// Validate reports whether s is a known scope.
func (s DateFilterScope) Validate() error {
	switch s {
	case ScopeFinal, ScopeEveryGroup:
		return nil
	default:
		return fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidScope, s, ScopeFinal, ScopeEveryGroup)
	}
}

// ListArgs returns the arguments of a "beet list" query, starting with "list".
// A non-empty extra filter is placed according to f.Scope.
func (f FilterSpec) ListArgs(extra string) []string {
	args := []string{"list"}
	for i, group := range f.Groups {
		final := i == len(f.Groups)-1

		rest, last := group[:len(group)-1], group[len(group)-1]
		if extra != "" {
			switch f.Scope {
			case ScopeEveryGroup:
				rest, last = group, extra
			default:
				if final {
					last = extra
				}
			}
		}

		args = append(args, rest...)
		if final {
			args = append(args, last)
		} else {
			args = append(args, last+continuation)
		}
	}
	return args
}

// splitLines splits s on newlines the way a line reader would: a trailing
// newline does not start a new token and a trailing carriage return is dropped.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
