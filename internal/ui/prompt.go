package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LinePrompter reads answers one line at a time. *LinePrompter satisfies
// cutoff.Prompter.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter reads from in and writes prompts to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// ReadLine shows prompt on its own line and returns the trimmed answer.
// A final line without a newline is still returned; after it, io.EOF.
func (p *LinePrompter) ReadLine(prompt string) (string, error) {
	fmt.Fprintf(p.out, "\n%s ", bold.Sprint(prompt))

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
