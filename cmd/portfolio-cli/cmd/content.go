package cmd

import (
	"fmt"
	"io"

	"github.com/nfrund/portfolio/cmd/portfolio-cli/internal/output"
	"github.com/nfrund/portfolio/internal/cms"
	"github.com/nfrund/portfolio/internal/cms/localstore"
	"github.com/nfrund/portfolio/internal/config"
	"github.com/nfrund/portfolio/internal/content"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var contentFile string

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Fetch content through the data layer",
	Long: `Fetch companies or testimonials exactly as the site renders them:
the query runs against the hosted content lake (or a local dataset file)
and every result is mapped to its render-ready form.

Examples:
  portfolio-cli content companies
  portfolio-cli content testimonials -f json
  portfolio-cli content companies --file data/dataset.json`,
}

var contentCompaniesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List companies in display order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := contentService()
		if err != nil {
			return err
		}
		companies, err := svc.Companies(cmd.Context(), nil)
		if err != nil {
			return fmt.Errorf("fetch companies: %w", err)
		}

		w := cmd.OutOrStdout()
		if outputFormat != output.FormatTable {
			return output.Encode(w, outputFormat, companies)
		}
		heading(w, "companies", len(companies))
		rows := make([][]string, 0, len(companies))
		for _, c := range companies {
			rows = append(rows, []string{c.Name, c.Website, output.Truncate(c.Logo, 60)})
		}
		output.WriteTable(w, []string{"NAME", "WEBSITE", "LOGO"}, rows)
		return nil
	},
}

var contentTestimonialsCmd = &cobra.Command{
	Use:   "testimonials",
	Short: "List testimonials in display order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := contentService()
		if err != nil {
			return err
		}
		testimonials, err := svc.Testimonials(cmd.Context(), nil)
		if err != nil {
			return fmt.Errorf("fetch testimonials: %w", err)
		}

		w := cmd.OutOrStdout()
		if outputFormat != output.FormatTable {
			return output.Encode(w, outputFormat, testimonials)
		}
		heading(w, "testimonials", len(testimonials))
		rows := make([][]string, 0, len(testimonials))
		for _, t := range testimonials {
			rows = append(rows, []string{t.AuthorName, t.AuthorRole, t.Company.Name, output.Truncate(t.Quote, 50)})
		}
		output.WriteTable(w, []string{"AUTHOR", "ROLE", "COMPANY", "QUOTE"}, rows)
		return nil
	},
}

func heading(w io.Writer, kind string, n int) {
	fmt.Fprintf(w, "%s (%d)\n\n", cases.Title(language.English).String(kind), n)
}

// contentService reads through on every call; the CLI never caches.
func contentService() (*content.Service, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	source, err := contentSource(cfg)
	if err != nil {
		return nil, err
	}
	return content.NewService(source, cms.NewImageURLBuilder(cfg.Sanity.ProjectID, cfg.Sanity.Dataset), nil), nil
}

func contentSource(cfg *config.Config) (content.Querier, error) {
	path := contentFile
	if path == "" {
		path = cfg.ContentFile
	}
	if path != "" {
		return localstore.Open(afero.NewOsFs(), path)
	}
	return cms.NewClient(cfg.Sanity.ProjectID, cfg.Sanity.Dataset, cfg.Sanity.APIVersion,
		cms.WithToken(cfg.Sanity.ReadToken),
		cms.WithCDN(cfg.Sanity.UseCDN),
	), nil
}

func init() {
	contentCmd.PersistentFlags().StringVar(&contentFile, "file", "", "read a local dataset file instead of the hosted API")
	contentCmd.AddCommand(contentCompaniesCmd, contentTestimonialsCmd)
	rootCmd.AddCommand(contentCmd)
}
