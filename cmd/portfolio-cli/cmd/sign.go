package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/nfrund/portfolio/internal/config"
	"github.com/nfrund/portfolio/internal/domain"
	"github.com/nfrund/portfolio/internal/webhook"
	"github.com/spf13/cobra"
)

var signOpts struct {
	docType string
	id      string
	secret  string
	send    string
}

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Produce a signed revalidation webhook request",
	Long: `Build the body and signature header the content lake sends when a
document changes. With --send the request is POSTed to the given URL,
which is handy for exercising the revalidation endpoint locally.

The secret defaults to SANITY_WEBHOOK_SECRET.

Examples:
  portfolio-cli sign --type company --id c1
  portfolio-cli sign --type testimonial --send http://localhost:8080/api/revalidate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := signOpts.secret
		if secret == "" {
			secret = os.Getenv(config.KeyWebhookSecret)
		}
		if secret == "" {
			return errors.New("no secret: pass --secret or set SANITY_WEBHOOK_SECRET")
		}

		body, err := json.Marshal(webhook.Payload{Type: signOpts.docType, ID: signOpts.id})
		if err != nil {
			return err
		}
		header := webhook.Sign(body, secret, time.Now())

		w := cmd.OutOrStdout()
		if signOpts.send == "" {
			fmt.Fprintf(w, "%s: %s\n%s\n", webhook.SignatureHeader, header, body)
			return nil
		}

		req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, signOpts.send, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(webhook.SignatureHeader, header)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return fmt.Errorf("send webhook: %w", err)
		}
		defer resp.Body.Close()
		reply, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		fmt.Fprintf(w, "%s\n%s\n", resp.Status, bytes.TrimSpace(reply))
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("webhook rejected with status %d", resp.StatusCode)
		}
		return nil
	},
}

func init() {
	signCmd.Flags().StringVar(&signOpts.docType, "type", domain.KindCompany.String(), "document type of the change")
	signCmd.Flags().StringVar(&signOpts.id, "id", "", "document id of the change")
	signCmd.Flags().StringVar(&signOpts.secret, "secret", "", "webhook signing secret")
	signCmd.Flags().StringVar(&signOpts.send, "send", "", "POST the signed request to this URL")
	rootCmd.AddCommand(signCmd)
}
