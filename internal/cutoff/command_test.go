package cutoff

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Command
	}{
		{input: "q", want: Command{Kind: CommandQuit}},
		{input: "QUIT", want: Command{Kind: CommandQuit}},
		{input: "Exit", want: Command{Kind: CommandQuit}},
		{input: "c", want: Command{Kind: CommandCustom}},
		{input: "Custom", want: Command{Kind: CommandCustom}},
		{input: "", want: Command{Kind: CommandEmpty}},
		{input: "   ", want: Command{Kind: CommandEmpty}},
		{input: "1", want: Command{Kind: CommandNumber, Number: 1}},
		{input: "12", want: Command{Kind: CommandNumber, Number: 12}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCommand(tt.input)
			if err != nil {
				t.Fatalf("ParseCommand(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCommand_Unrecognized(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"0", "-1", "+2", "1.5", "yes", "cus", "99999999999999999999999"} {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			_, err := ParseCommand(input)
			if !errors.Is(err, ErrUnrecognizedCommand) {
				t.Errorf("ParseCommand(%q) error = %v, want ErrUnrecognizedCommand", input, err)
			}
		})
	}
}

func TestParseTargetRanks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{name: "single", input: "10", want: []int{10}},
		{name: "several", input: "10 20\t40", want: []int{10, 20, 40}},
		{name: "zero allowed", input: "0 5", want: []int{0, 5}},
		{name: "at limit", input: "400", want: []int{400}},
		{name: "order kept", input: "70 30", want: []int{70, 30}},
		{name: "empty", input: "", want: []int{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTargetRanks(tt.input, 400)
			if err != nil {
				t.Fatalf("ParseTargetRanks(%q) returned error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ranks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseTargetRanks_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantMsg []string
	}{
		{name: "above limit", input: "10 999999999", wantMsg: []string{"999999999", "400"}},
		{name: "overflow", input: "10 99999999999999999999999", wantMsg: []string{"99999999999999999999999", "400"}},
		{name: "negative", input: "-5", wantMsg: []string{"-5"}},
		{name: "word", input: "10 abc", wantMsg: []string{"abc"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTargetRanks(tt.input, 400)
			if err == nil {
				t.Fatalf("ParseTargetRanks(%q) = %v, want error", tt.input, got)
			}
			if got != nil {
				t.Errorf("ranks = %v, want none applied", got)
			}
			for _, m := range tt.wantMsg {
				if !strings.Contains(err.Error(), m) {
					t.Errorf("error %q does not mention %q", err, m)
				}
			}
		})
	}
}
