package cmd

import (
	"os"

	"github.com/nfrund/portfolio/cmd/portfolio-cli/internal/output"
	"github.com/nfrund/portfolio/internal/logging"
	"github.com/spf13/cobra"
)

var outputFormat string

var rootCmd = &cobra.Command{
	Use:   "portfolio-cli",
	Short: "Portfolio site tooling",
	Long: `portfolio-cli inspects the content model and the content lake behind
the portfolio site and helps exercise its webhooks locally.

Available commands:
  schema     Print the authored document types
  content    Fetch companies or testimonials through the data layer
  events     List the events published on the in-process bus
  sign       Produce a signed revalidation webhook request

Use "portfolio-cli [command] --help" for more information about a specific command.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.New()
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", output.FormatTable, "output format: table, json or yaml")
}
