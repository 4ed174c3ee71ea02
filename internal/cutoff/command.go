package cutoff

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Prompt texts.
const (
	SelectionPrompt = "Enter selection [#/Custom/Quit]:"
	CustomPrompt    = "Enter custom target numbers (space separated):"
)

// ErrUnrecognizedCommand is returned by ParseCommand for input that is not a command.
var ErrUnrecognizedCommand = errors.New("unrecognized command")

// CommandKind enumerates the inputs accepted at the selection prompt.
type CommandKind int

const (
	CommandEmpty  CommandKind = iota // blank line, prompt again
	CommandQuit                      // stop without choosing
	CommandCustom                    // enter new target ranks
	CommandNumber                    // pick a listed breakpoint
)

func (k CommandKind) String() string {
	switch k {
	case CommandEmpty:
		return "empty"
	case CommandQuit:
		return "quit"
	case CommandCustom:
		return "custom"
	case CommandNumber:
		return "number"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

// Command is a classified selection-prompt input. Number is set only for CommandNumber.
type Command struct {
	Kind   CommandKind
	Number int
}

// ParseCommand classifies one trimmed line of input, case-insensitively.
func ParseCommand(input string) (Command, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "q", "quit", "exit":
		return Command{Kind: CommandQuit}, nil
	case "c", "custom":
		return Command{Kind: CommandCustom}, nil
	case "":
		return Command{Kind: CommandEmpty}, nil
	}
	n, err := strconv.ParseUint(s, 10, strconv.IntSize-1)
	if err != nil || n == 0 {
		return Command{}, fmt.Errorf("%w %q", ErrUnrecognizedCommand, s)
	}
	return Command{Kind: CommandNumber, Number: int(n)}, nil
}

// ParseTargetRanks parses whitespace-separated non-negative ranks. A rank
// above limit rejects the whole input.
func ParseTargetRanks(input string, limit int) ([]int, error) {
	fields := strings.Fields(input)
	ranks := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 10, strconv.IntSize-1)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, fmt.Errorf("%s exceeds max entries (%d)", f, limit)
			}
			return nil, fmt.Errorf("invalid number %q", f)
		}
		if int(n) > limit {
			return nil, fmt.Errorf("%d exceeds max entries (%d)", n, limit)
		}
		ranks = append(ranks, int(n))
	}
	return ranks, nil
}
