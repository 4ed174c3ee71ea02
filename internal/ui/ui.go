package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/papapumpkin/beetcut/internal/catalog"
	"github.com/papapumpkin/beetcut/internal/cutoff"
)

// maxEntryWidth wraps long entry descriptions in the breakpoint table.
const maxEntryWidth = 100

var (
	bold    = color.New(color.Bold)
	dim     = color.New(color.Faint)
	red     = color.New(color.FgRed, color.Bold)
	green   = color.New(color.FgGreen, color.Bold)
	yellow  = color.New(color.FgYellow)
	cyan    = color.New(color.FgCyan, color.Bold)
	magenta = color.New(color.FgMagenta)
)

// Printer writes human-facing output to stderr, leaving stdout for results.
// *Printer satisfies cutoff.Reporter.
type Printer struct {
	out io.Writer
}

// New returns a Printer writing to stderr.
func New() *Printer {
	return NewWithWriter(color.Error)
}

// NewWithWriter returns a Printer writing to w.
func NewWithWriter(w io.Writer) *Printer {
	return &Printer{out: w}
}

// Writer is the underlying output, for collaborators that log lines directly.
func (p *Printer) Writer() io.Writer {
	return p.out
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.out, "%s%s\n", red.Sprint("error: "), msg)
}

func (p *Printer) Info(msg string) {
	dim.Fprintln(p.out, msg)
}

func (p *Printer) Success(msg string) {
	fmt.Fprintf(p.out, "%s %s\n", green.Sprint("✓"), msg)
}

func (p *Printer) Failure(msg string) {
	fmt.Fprintf(p.out, "%s %s\n", red.Sprint("✗"), msg)
}

// Loaded reports the keys found in the output file.
func (p *Printer) Loaded(n int, path string) {
	p.Info(fmt.Sprintf("Loaded %d entries from %s", n, path))
}

// Saved reports the keys written to the output file.
func (p *Printer) Saved(n int, path string) {
	p.Info(fmt.Sprintf("Saved %d entries to %s", n, path))
}

// Previous shows the date currently stored under key in the output file.
func (p *Printer) Previous(key, date string) {
	fmt.Fprintf(p.out, "Current %s cutoff: %s\n", bold.Sprint(key), magenta.Sprint(date))
}

// Fetched reports how many recent entries are available to choose from.
func (p *Printer) Fetched(n int) {
	p.Info(fmt.Sprintf("fetched %d recent entries", n))
}

// Breakpoint prints one numbered breakpoint: the entry kept and the entry cut.
func (p *Printer) Breakpoint(choice, target int, t cutoff.Transition) {
	fmt.Fprintf(p.out, "%s Breakpoint for %d:\n", cyan.Sprintf("[#%d]", choice), target)

	tbl := uitable.New()
	tbl.MaxColWidth = maxEntryWidth
	tbl.Wrap = true
	tbl.AddRow("   ", fmt.Sprintf("%d:", t.Rank()), green.Sprint(t.Included.Date), t.Included.Entry)
	tbl.AddRow("   ", fmt.Sprintf("%d:", t.Rank()+1), red.Sprint(t.Excluded.Date), t.Excluded.Entry)
	fmt.Fprintln(p.out, tbl)
}

func (p *Printer) TargetSkipped(target int) {
	dim.Fprintf(p.out, "[skipping target: %d]\n", target)
}

func (p *Printer) TargetOutOfRange(target int) {
	yellow.Fprintf(p.out, "[out of range: %d]\n", target)
}

func (p *Printer) InvalidChoice(n int) {
	yellow.Fprintf(p.out, "invalid number %d\n", n)
}

func (p *Printer) InvalidCustom(input string, err error) {
	yellow.Fprintf(p.out, "invalid custom input %q: %v\n", input, err)
}

func (p *Printer) InvalidCommand(err error) {
	yellow.Fprintln(p.out, err)
}

// Chose summarizes the selected cutoff.
func (p *Printer) Chose(e catalog.DateEntry, count int) {
	fmt.Fprintf(p.out, "%s %s %s, which gives %s entries\n",
		bold.Sprint("Chose"), magenta.Sprint(e.Date), e.Entry, bold.Sprint(count))
}

// Count prints the result of a standalone count.
func (p *Printer) Count(date string, count int) {
	fmt.Fprintf(p.out, "%s entries added on or after %s\n", bold.Sprint(count), magenta.Sprint(date))
}
