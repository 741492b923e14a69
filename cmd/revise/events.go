package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Abishek0612/student-revision-app-client/internal/events"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect document lifecycle events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print lifecycle events as they are published",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if deps.Bus == nil {
			return errors.New("events tail requires EVENTS_PROVIDER=nats")
		}
		out := cmd.OutOrStdout()
		asJSON := jsonOutput(cmd)
		return deps.Bus.Listen(cmd.Context(), func(_ context.Context, e events.Event) error {
			if asJSON {
				return printJSON(out, e)
			}
			_, err := fmt.Fprintln(out, formatEvent(e))
			return err
		})
	},
}

func init() {
	eventsCmd.AddCommand(eventsTailCmd)
}

func formatEvent(e events.Event) string {
	ts := e.OccurredAt.Format("15:04:05")
	switch e.Type {
	case events.TypeDocumentReady:
		return fmt.Sprintf("%s %s %s (%d pages)", ts, green("ready"), e.FileName, e.TotalPages)
	case events.TypeDocumentFailed:
		return fmt.Sprintf("%s %s %s: %s", ts, red("failed"), e.FileName, e.ErrorMessage)
	default:
		return fmt.Sprintf("%s %s %s", ts, e.Type, e.DocumentID)
	}
}
