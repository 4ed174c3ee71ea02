package catalog

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Fixed query arguments appended after the filter chain.
const (
	sortAddedDesc = "added-"
	formatFlag    = "--format"
	recentFormat  = "$added $artist - $album - $title"
	idFormat      = "$id"
)

// maxLineSize bounds a single line of beet output.
const maxLineSize = 1024 * 1024

// Querier is the query surface used by the commands.
// *Client satisfies this interface.
type Querier interface {
	FetchRecent(ctx context.Context) ([]DateEntry, error)
	CountAfter(ctx context.Context, date string) (int, error)
}

// Client runs list queries against a beets library.
type Client struct {
	BeetPath   string
	Filters    FilterSpec
	MaxEntries int       // FetchRecent stops after this many entries
	Runner     Runner    // defaults to ExecRunner
	Logger     io.Writer // optional; receives each command line before it runs
}

// FetchRecent lists the library most-recently-added first and parses at most
// MaxEntries lines into entries.
func (c *Client) FetchRecent(ctx context.Context) ([]DateEntry, error) {
	const query = "beet ls [current_args]"

	args := append(c.Filters.ListArgs(""), sortAddedDesc, formatFlag, recentFormat)
	out, err := c.run(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", query, err)
	}

	var entries []DateEntry
	err = eachLine(out, func(number int, line string) (bool, error) {
		if len(entries) >= c.MaxEntries {
			return false, nil
		}
		e, err := ParseDateEntry(line)
		if err != nil {
			return false, fmt.Errorf("line %d: %w", number, err)
		}
		entries = append(entries, e)
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", query, err)
	}
	return entries, nil
}

// CountAfter counts the entries added on or after date.
func (c *Client) CountAfter(ctx context.Context, date string) (int, error) {
	const query = "beet ls [current_args] added:[selection].."

	args := append(c.Filters.ListArgs(AddedSince(date)), formatFlag, idFormat)
	out, err := c.run(ctx, args)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", query, err)
	}

	count := 0
	err = eachLine(out, func(number int, line string) (bool, error) {
		if strings.TrimSpace(line) != "" {
			count++
		}
		return true, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", query, err)
	}
	return count, nil
}

// Validate checks that the beet command runs, returning its version line.
func (c *Client) Validate(ctx context.Context) (string, error) {
	out, err := c.run(ctx, []string{"version"})
	if err != nil {
		return "", fmt.Errorf("beet not usable at %q: %w", c.BeetPath, err)
	}
	version, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return version, nil
}

// AddedSince returns the open-ended beets query for entries added on or after date.
func AddedSince(date string) string {
	return "added:" + date + ".."
}

func (c *Client) run(ctx context.Context, args []string) ([]byte, error) {
	if c.Logger != nil {
		fmt.Fprintf(c.Logger, "%s %q\n", c.BeetPath, args)
	}
	runner := c.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	return runner.Run(ctx, c.BeetPath, args)
}

// eachLine calls fn with each 1-based line number and line of out until fn
// returns false or an error.
func eachLine(out []byte, fn func(number int, line string) (bool, error)) error {
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	number := 0
	for sc.Scan() {
		number++
		line := sc.Text()
		if !utf8.ValidString(line) {
			return fmt.Errorf("line %d: invalid UTF-8", number)
		}
		more, err := fn(number, line)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("line %d: %w", number+1, err)
	}
	return nil
}
