package cmd

import (
	"fmt"

	"github.com/nfrund/portfolio/internal/config"
	"github.com/spf13/cobra"
)

var version = "0.1.0" // This should be set at build time using -ldflags

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of portfolio-cli",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "portfolio-cli v%s (content API %s)\n", version, config.DefaultAPIVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
