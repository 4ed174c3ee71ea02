package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/papapumpkin/beetcut/internal/catalog"
	"github.com/papapumpkin/beetcut/internal/config"
	"github.com/papapumpkin/beetcut/internal/cutoff"
	"github.com/papapumpkin/beetcut/internal/store"
	"github.com/papapumpkin/beetcut/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "beetcut",
	Short: "Pick a cutoff date in a beets library",
	Long: `beetcut lists the most recently added entries of a beets library, proposes
breakpoints where the added date changes near a few target ranks, and lets you
choose one. The chosen date can be written to a key of a JSON file.`,
	Example: `  BEET_COMMAND=beet TIMELESS_ARGS=$'genre:Jazz\nyear:1950..1970' beetcut
  beetcut --timeless-args 'genre:Jazz' --output-file ~/beets/dates.json --output-key jazz
  beetcut --filter-file filters.toml --target-ranks 20,40,80`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSelect,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .beetcut.yaml)")
	pf.BoolP("verbose", "v", false, "verbose output")
	pf.String("beet-command", "", "path to the beet command (env BEET_COMMAND)")
	pf.String("timeless-args", "", "filter arguments for beet list: newline between tokens, comma between groups (env TIMELESS_ARGS)")
	pf.String("filter-file", "", "TOML file with filter groups, instead of --timeless-args")
	pf.String("date-filter-scope", "", `where the added-date filter goes: "final" group or "every" group`)
	pf.Int("max-entries", config.DefaultMaxEntries, "number of recent entries to fetch; upper bound for target ranks")

	rootCmd.Flags().IntSlice("target-ranks", cutoff.DefaultTargetRanks, "initial target ranks")
	rootCmd.Flags().String("output-file", "", "JSON file to write the chosen date to (env OUTPUT_FILE)")
	rootCmd.Flags().String("output-key", "", "key for the chosen date in --output-file (env OUTPUT_KEY)")

	bindFlags(pf, map[string]string{
		"verbose":           "verbose",
		"beet_command":      "beet-command",
		"timeless_args":     "timeless-args",
		"filter_file":       "filter-file",
		"date_filter_scope": "date-filter-scope",
		"max_entries":       "max-entries",
	})
	bindFlags(rootCmd.Flags(), map[string]string{
		"target_ranks": "target-ranks",
		"output_file":  "output-file",
		"output_key":   "output-key",
	})
}

// bindFlags binds each viper key to the named flag in fs.
func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, flag := range keys {
		_ = viper.BindPFlag(key, fs.Lookup(flag))
	}
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".beetcut")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("BEETCUT")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// loadConfig loads and validates the configuration.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newClient builds the beet query client for cfg. Every beet invocation is
// echoed to the printer.
func newClient(cfg config.Config, printer *ui.Printer) (*catalog.Client, error) {
	filters, err := cfg.FilterSpec()
	if err != nil {
		return nil, err
	}
	return &catalog.Client{
		BeetPath:   cfg.BeetCommand,
		Filters:    filters,
		MaxEntries: cfg.MaxEntries,
		Runner:     catalog.ExecRunner{},
		Logger:     printer.Writer(),
	}, nil
}

func runSelect(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	printer := ui.New()

	client, err := newClient(cfg, printer)
	if err != nil {
		return err
	}

	// Open the output file before querying so a bad path fails fast.
	var out *store.Store
	if cfg.HasOutput() {
		out, err = openOutput(cfg, printer)
		if err != nil {
			return err
		}
		defer out.Close()
	}

	prompter := ui.NewLinePrompter(cmd.InOrStdin(), printer.Writer())
	return selectCutoff(cmd.Context(), cmd.OutOrStdout(), cfg, client, printer, prompter, out)
}

// openOutput opens the output file and reports what it already holds,
// including the date currently stored under the output key.
func openOutput(cfg config.Config, printer *ui.Printer) (*store.Store, error) {
	out, err := store.Open(cfg.OutputFile)
	if err != nil {
		return nil, fmt.Errorf("reading json file: %w", err)
	}
	if out.Existed() {
		printer.Loaded(out.Len(), cfg.OutputFile)
	}
	if prev, ok := out.Get(cfg.OutputKey); ok {
		printer.Previous(cfg.OutputKey, prev)
	}
	return out, nil
}

// selectCutoff fetches recent entries, runs the interactive selection, counts
// the entries kept by the chosen date, and records it in out when non-nil.
// The chosen date alone goes to stdout.
func selectCutoff(ctx context.Context, stdout io.Writer, cfg config.Config, q catalog.Querier, printer *ui.Printer, prompter cutoff.Prompter, out *store.Store) error {
	entries, err := q.FetchRecent(ctx)
	if err != nil {
		return fmt.Errorf("query current items: %w", err)
	}
	if cfg.Verbose {
		printer.Fetched(len(entries))
	}

	selector := &cutoff.Selector{
		Prompter:    prompter,
		Reporter:    printer,
		MaxEntries:  cfg.MaxEntries,
		TargetRanks: cfg.TargetRanks,
	}
	chosen, err := selector.Select(entries)
	if err != nil {
		return err
	}
	if chosen == nil {
		printer.Info("no cutoff chosen")
		return nil
	}

	count, err := q.CountAfter(ctx, chosen.Date)
	if err != nil {
		return fmt.Errorf("counting entries with chosen date bound: %w", err)
	}
	printer.Chose(*chosen, count)
	fmt.Fprintln(stdout, chosen.Date)

	if out == nil {
		return nil
	}
	if err := out.Set(cfg.OutputKey, chosen.Date); err != nil {
		return err
	}
	n, err := out.Save()
	if err != nil {
		return err
	}
	printer.Saved(n, out.Path)
	return nil
}
