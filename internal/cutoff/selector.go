package cutoff

import (
	"errors"
	"fmt"
	"io"

	"github.com/papapumpkin/beetcut/internal/catalog"
)

// DefaultTargetRanks are the ranks evaluated before the user asks for others.
var DefaultTargetRanks = []int{30, 50, 70}

// Prompter reads one trimmed line of user input after showing prompt.
// It returns io.EOF once input is exhausted.
type Prompter interface {
	ReadLine(prompt string) (string, error)
}

// Reporter displays the selector's progress and recoverable input errors.
type Reporter interface {
	// Breakpoint shows the choice-th listed transition found for target.
	Breakpoint(choice, target int, t Transition)
	// TargetSkipped notes a target already covered by an earlier transition.
	TargetSkipped(target int)
	// TargetOutOfRange notes a target with no transition after it.
	TargetOutOfRange(target int)
	// InvalidChoice notes a number that does not name a listed breakpoint.
	InvalidChoice(n int)
	// InvalidCustom notes rejected custom ranks; the previous ranks are kept.
	InvalidCustom(input string, err error)
	// InvalidCommand notes input that is not a command.
	InvalidCommand(err error)
}

type state int

const (
	stateEvaluating state = iota
	stateAwaitingCommand
	stateAwaitingCustomRanks
)

// Selector runs the interactive breakpoint selection.
type Selector struct {
	Prompter    Prompter
	Reporter    Reporter
	MaxEntries  int   // upper bound for custom ranks
	TargetRanks []int // initial ranks; DefaultTargetRanks when nil
}

// Select evaluates the target ranks against entries, which must be ordered
// most recent first, and loops until the user picks a breakpoint or quits.
// The returned entry points into entries; it is nil when the user quit.
func (s *Selector) Select(entries []catalog.DateEntry) (*catalog.DateEntry, error) {
	targets := s.TargetRanks
	if targets == nil {
		targets = DefaultTargetRanks
	}

	var transitions []Transition
	st := stateEvaluating
	for {
		switch st {
		case stateEvaluating:
			transitions = s.evaluate(entries, targets)
			st = stateAwaitingCommand

		case stateAwaitingCommand:
			input, err := s.Prompter.ReadLine(SelectionPrompt)
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			if err != nil {
				return nil, fmt.Errorf("reading selection: %w", err)
			}

			cmd, err := ParseCommand(input)
			if err != nil {
				s.Reporter.InvalidCommand(err)
				continue
			}
			switch cmd.Kind {
			case CommandQuit:
				return nil, nil
			case CommandCustom:
				st = stateAwaitingCustomRanks
			case CommandEmpty:
			case CommandNumber:
				if cmd.Number > len(transitions) {
					s.Reporter.InvalidChoice(cmd.Number)
					continue
				}
				return &entries[transitions[cmd.Number-1].Index], nil
			}

		case stateAwaitingCustomRanks:
			input, err := s.Prompter.ReadLine(CustomPrompt)
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			if err != nil {
				return nil, fmt.Errorf("reading custom targets: %w", err)
			}

			ranks, err := ParseTargetRanks(input, s.MaxEntries)
			if err != nil {
				s.Reporter.InvalidCustom(input, err)
				st = stateAwaitingCommand
				continue
			}
			targets = ranks
			st = stateEvaluating
		}
	}
}

// evaluate finds a transition for each target in order. A target at or below
// the position of the previous transition found in this pass would repeat it,
// so it is skipped.
func (s *Selector) evaluate(entries []catalog.DateEntry, targets []int) []Transition {
	var transitions []Transition
	for _, target := range targets {
		if n := len(transitions); n > 0 && transitions[n-1].Index >= target {
			s.Reporter.TargetSkipped(target)
			continue
		}
		t, ok := FindTransition(entries, target)
		if !ok {
			s.Reporter.TargetOutOfRange(target)
			continue
		}
		transitions = append(transitions, t)
		s.Reporter.Breakpoint(len(transitions), target, t)
	}
	return transitions
}
