package catalog

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// filterFile is the TOML form of a FilterSpec:
//
//	scope = "final"
//
//	[[group]]
//	tokens = ["genre:Jazz", "year:1950..1970"]
//
//	[[group]]
//	tokens = ["artist:Coltrane"]
type filterFile struct {
	Scope  DateFilterScope   `toml:"scope"`
	Groups []filterFileGroup `toml:"group"`
}

type filterFileGroup struct {
	Tokens []string `toml:"tokens"`
}

// LoadFilterFile reads a FilterSpec from a TOML file.
func LoadFilterFile(path string) (FilterSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FilterSpec{}, fmt.Errorf("reading filter file: %w", err)
	}
	spec, err := ParseFilterFile(data)
	if err != nil {
		return FilterSpec{}, fmt.Errorf("filter file %s: %w", path, err)
	}
	return spec, nil
}

// ParseFilterFile decodes the TOML form of a FilterSpec. Unknown keys are rejected.
func ParseFilterFile(data []byte) (FilterSpec, error) {
	var ff filterFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ff); err != nil {
		return FilterSpec{}, fmt.Errorf("parsing TOML: %w", err)
	}

	groups := make([][]string, len(ff.Groups))
	for i, g := range ff.Groups {
		groups[i] = g.Tokens
	}
	return NewFilterSpec(groups, ff.Scope)
}
