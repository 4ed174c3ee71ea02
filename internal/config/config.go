package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/papapumpkin/beetcut/internal/catalog"
	"github.com/papapumpkin/beetcut/internal/cutoff"
)

// DefaultMaxEntries bounds the recent-entries query and custom target ranks.
const DefaultMaxEntries = 400

// legacyEnv maps config keys to the unprefixed environment variables the
// tool has always read, in addition to their BEETCUT_* forms.
var legacyEnv = map[string]string{
	"beet_command":  "BEET_COMMAND",
	"timeless_args": "TIMELESS_ARGS",
	"output_file":   "OUTPUT_FILE",
	"output_key":    "OUTPUT_KEY",
}

// Config holds all runtime configuration for a beetcut run.
// Values are populated from .beetcut.yaml, BEETCUT_* env vars, and CLI flags.
type Config struct {
	BeetCommand     string `mapstructure:"beet_command"`
	TimelessArgs    string `mapstructure:"timeless_args"`     // groups split by ',', tokens by '\n'
	FilterFile      string `mapstructure:"filter_file"`       // TOML alternative to TimelessArgs
	DateFilterScope string `mapstructure:"date_filter_scope"` // "final" or "every"
	MaxEntries      int    `mapstructure:"max_entries"`
	TargetRanks     []int  `mapstructure:"target_ranks"`
	OutputFile      string `mapstructure:"output_file"`
	OutputKey       string `mapstructure:"output_key"`
	Verbose         bool   `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags. Paths have a
// leading ~ expanded.
func Load() (Config, error) {
	viper.SetDefault("beet_command", "beet")
	viper.SetDefault("timeless_args", "")
	viper.SetDefault("filter_file", "")
	viper.SetDefault("date_filter_scope", string(catalog.ScopeFinal))
	viper.SetDefault("max_entries", DefaultMaxEntries)
	viper.SetDefault("target_ranks", cutoff.DefaultTargetRanks)
	viper.SetDefault("output_file", "")
	viper.SetDefault("output_key", "")
	viper.SetDefault("verbose", false)

	for key, env := range legacyEnv {
		if err := viper.BindEnv(key, "BEETCUT_"+strings.ToUpper(key), env); err != nil {
			return Config{}, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	for _, p := range []*string{&cfg.BeetCommand, &cfg.FilterFile, &cfg.OutputFile} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return Config{}, fmt.Errorf("expanding %q: %w", *p, err)
		}
		*p = expanded
	}
	return cfg, nil
}

// Validate checks settings that must agree with each other.
func (c Config) Validate() error {
	var errs []error

	switch {
	case c.OutputFile != "" && c.OutputKey == "":
		errs = append(errs, errors.New("missing output_key for provided output_file"))
	case c.OutputFile == "" && c.OutputKey != "":
		errs = append(errs, errors.New("missing output_file for provided output_key"))
	}
	if c.TimelessArgs != "" && c.FilterFile != "" {
		errs = append(errs, errors.New("timeless_args and filter_file are mutually exclusive"))
	}
	if c.MaxEntries <= 0 {
		errs = append(errs, fmt.Errorf("max_entries must be positive, got %d", c.MaxEntries))
	}
	if c.DateFilterScope != "" {
		if err := catalog.DateFilterScope(c.DateFilterScope).Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, r := range c.TargetRanks {
		if r < 0 || r > c.MaxEntries {
			errs = append(errs, fmt.Errorf("target rank %d outside 0..%d (max_entries)", r, c.MaxEntries))
		}
	}
	return errors.Join(errs...)
}

// HasOutput reports whether the chosen date should be written to a file.
func (c Config) HasOutput() bool {
	return c.OutputFile != "" && c.OutputKey != ""
}

// FilterSpec builds the timeless filters from the filter file when one is
// configured (the file carries its own scope), otherwise from TimelessArgs
// and DateFilterScope.
func (c Config) FilterSpec() (catalog.FilterSpec, error) {
	if c.FilterFile != "" {
		return catalog.LoadFilterFile(c.FilterFile)
	}
	spec, err := catalog.ParseFilterSpec(c.TimelessArgs)
	if err != nil {
		return catalog.FilterSpec{}, fmt.Errorf("timeless_args: %w", err)
	}
	if c.DateFilterScope != "" {
		spec.Scope = catalog.DateFilterScope(c.DateFilterScope)
	}
	if err := spec.Scope.Validate(); err != nil {
		return catalog.FilterSpec{}, err
	}
	return spec, nil
}
