package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFilterFile(t *testing.T) {
	t.Parallel()

	data := []byte(`
scope = "every"

[[group]]
tokens = ["genre:Jazz", "year:1950..1970"]

[[group]]
tokens = ["artist:Coltrane"]
`)
	spec, err := ParseFilterFile(data)
	if err != nil {
		t.Fatalf("ParseFilterFile returned error: %v", err)
	}

	want := [][]string{{"genre:Jazz", "year:1950..1970"}, {"artist:Coltrane"}}
	if diff := cmp.Diff(want, spec.Groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	if spec.Scope != ScopeEveryGroup {
		t.Errorf("Scope = %q, want %q", spec.Scope, ScopeEveryGroup)
	}
}

func TestParseFilterFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{name: "no groups", data: `scope = "final"`, wantErr: ErrEmptyFilterGroup},
		{name: "empty tokens", data: "[[group]]\ntokens = []\n", wantErr: ErrEmptyFilterGroup},
		{name: "bad scope", data: "scope = \"some\"\n[[group]]\ntokens = [\"a\"]\n", wantErr: ErrInvalidScope},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseFilterFile([]byte(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseFilterFile_UnknownKey(t *testing.T) {
	t.Parallel()

	_, err := ParseFilterFile([]byte("[[group]]\ntokens = [\"a\"]\nlimit = 3\n"))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadFilterFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "filters.toml")
	if err := os.WriteFile(path, []byte("[[group]]\ntokens = [\"a\", \"b\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	spec, err := LoadFilterFile(path)
	if err != nil {
		t.Fatalf("LoadFilterFile returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"list", "a", "b"}, spec.ListArgs("")); diff != "" {
		t.Errorf("ListArgs mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadFilterFile(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}
