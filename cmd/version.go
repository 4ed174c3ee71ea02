package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"
)

// Set at build time with -ldflags "-X github.com/papapumpkin/beetcut/cmd.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	shortened := false
	output := "json"
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print beetcut version",
		Example: `  beetcut version
  beetcut version --short`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			resp := goversion.FuncWithOutput(shortened, version, commit, date, output)
			fmt.Fprint(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().BoolVarP(&shortened, "short", "s", false, "Print just the version number.")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format. One of 'yaml' or 'json'.")

	rootCmd.AddCommand(cmd)
}
