package cmd

import (
	"github.com/nfrund/portfolio/cmd/portfolio-cli/internal/output"
	"github.com/nfrund/portfolio/internal/pubsub"
	"github.com/spf13/cobra"
)

type eventInfo struct {
	Topic       string `json:"topic" yaml:"topic"`
	Description string `json:"description" yaml:"description"`
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the events published on the in-process bus",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		events := []eventInfo{
			{pubsub.ContentRevalidated.Topic, pubsub.ContentRevalidated.Description},
			{pubsub.UploadCompleted.Topic, pubsub.UploadCompleted.Description},
		}

		w := cmd.OutOrStdout()
		if outputFormat != output.FormatTable {
			return output.Encode(w, outputFormat, struct {
				Events []eventInfo `json:"events" yaml:"events"`
				Count  int         `json:"count" yaml:"count"`
			}{events, len(events)})
		}
		rows := make([][]string, 0, len(events))
		for _, e := range events {
			rows = append(rows, []string{e.Topic, e.Description})
		}
		output.WriteTable(w, []string{"TOPIC", "DESCRIPTION"}, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
