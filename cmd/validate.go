package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/beetcut/internal/catalog"
	"github.com/papapumpkin/beetcut/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the beet command and filter configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		printer := ui.New()
		ok := true

		filters, err := cfg.FilterSpec()
		if err != nil {
			printer.Failure(fmt.Sprintf("filters: %v", err))
			ok = false
		} else {
			printer.Success(fmt.Sprintf("filters: %d group(s), date filter scope %q", len(filters.Groups), filters.Scope))
		}

		client := &catalog.Client{BeetPath: cfg.BeetCommand, Runner: catalog.ExecRunner{}}
		if cfg.Verbose {
			client.Logger = printer.Writer()
		}
		if beetVersion, err := client.Validate(cmd.Context()); err != nil {
			printer.Failure(err.Error())
			ok = false
		} else {
			printer.Success(beetVersion)
		}

		if !ok {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
