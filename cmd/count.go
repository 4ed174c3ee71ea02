package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/beetcut/internal/ui"
)

var countCmd = &cobra.Command{
	Use:   "count <date>",
	Short: "Count entries added on or after a date",
	Long: `Count the entries matched by the configured filters that were added on or
after date (YYYY-MM-DD). Useful for checking a date previously written to the
output file.`,
	Example: `  beetcut count 2024-02-28
  beetcut count --timeless-args 'genre:Jazz' 2024-01-01`,
	Args: cobra.ExactArgs(1),
	RunE: runCount,
}

func init() {
	rootCmd.AddCommand(countCmd)
}

func runCount(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	printer := ui.New()

	client, err := newClient(cfg, printer)
	if err != nil {
		return err
	}

	count, err := client.CountAfter(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printer.Count(args[0], count)
	fmt.Fprintln(cmd.OutOrStdout(), count)
	return nil
}
