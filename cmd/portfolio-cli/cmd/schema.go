package cmd

import (
	"fmt"

	"github.com/nfrund/portfolio/cmd/portfolio-cli/internal/output"
	"github.com/nfrund/portfolio/internal/schema"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [type]",
	Short: "Print the authored document types",
	Long: `Print the document types the studio edits, with their fields.

Examples:
  portfolio-cli schema                 # every type as a table
  portfolio-cli schema company -f yaml # one type as YAML`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		types := schema.Types()
		if len(args) == 1 {
			var found []schema.DocumentType
			for _, t := range types {
				if string(t.Name) == args[0] {
					found = append(found, t)
				}
			}
			if len(found) == 0 {
				return fmt.Errorf("unknown document type %q", args[0])
			}
			types = found
		}

		w := cmd.OutOrStdout()
		if outputFormat != output.FormatTable {
			return output.Encode(w, outputFormat, types)
		}

		for i, t := range types {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s (%s)\n\n", t.Title, t.Name)
			rows := make([][]string, 0, len(t.Fields))
			for _, f := range t.Fields {
				kind := string(f.Type)
				if f.To != "" {
					kind += " -> " + string(f.To)
				}
				rows = append(rows, []string{f.Name, kind, yesNo(f.Required), output.Truncate(f.Description, 40)})
			}
			output.WriteTable(w, []string{"FIELD", "TYPE", "REQUIRED", "DESCRIPTION"}, rows)
		}
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
