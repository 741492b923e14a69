package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
	"github.com/Abishek0612/student-revision-app-client/internal/metrics"
	"github.com/Abishek0612/student-revision-app-client/internal/poller"
	"github.com/Abishek0612/student-revision-app-client/internal/session"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage uploaded documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents and their processing status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := deps.Session.RefreshDocuments(cmd.Context()); err != nil {
			return err
		}
		docs := deps.Session.Documents.State().Documents
		if jsonOutput(cmd) {
			return printJSON(cmd.OutOrStdout(), docs)
		}
		renderDocuments(cmd.OutOrStdout(), docs)
		return nil
	},
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Upload a PDF for processing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		doc, err := deps.Session.UploadDocument(cmd.Context(), domain.Upload{
			FileName: filepath.Base(args[0]),
			Content:  content,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s as %s (%s)\n", doc.FileName, doc.ID, statusLabel(doc.Status))

		if wait, _ := cmd.Flags().GetBool("wait"); !wait {
			return nil
		}
		doc, err = waitForTerminal(cmd.Context(), deps.Session, doc.ID, deps.Config.PollInterval, deps.Metrics, deps.Log)
		if err != nil {
			return err
		}
		if doc.Status == domain.StatusError {
			return fmt.Errorf("processing failed: %s", doc.ErrorMessage)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is ready (%d pages)\n", doc.FileName, doc.TotalPages)
		return nil
	},
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := deps.Session.DeleteDocument(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

var docsRetryCmd = &cobra.Command{
	Use:   "retry <id>",
	Short: "Re-run processing for a failed document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := deps.Session.RefreshDocuments(cmd.Context()); err != nil {
			return err
		}
		doc, err := deps.Session.RetryDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", doc.FileName, statusLabel(doc.Status))
		return nil
	},
}

var docsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the sample textbook documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := deps.Session.SeedDocuments(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd.OutOrStdout(), docs)
		}
		renderDocuments(cmd.OutOrStdout(), docs)
		return nil
	},
}

func init() {
	docsUploadCmd.Flags().Bool("wait", false, "Poll until processing finishes")

	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsUploadCmd)
	docsCmd.AddCommand(docsDeleteCmd)
	docsCmd.AddCommand(docsRetryCmd)
	docsCmd.AddCommand(docsSeedCmd)
}

// waitForTerminal waits until the document with id is ready or failed. The
// poller refreshes while anything is processing; while the document is still
// uploading the poller stays idle, so the wait refreshes on its own.
func waitForTerminal(ctx context.Context, sess *session.Session, id string, interval time.Duration, m *metrics.Metrics, log *slog.Logger) (domain.Document, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	st := sess.Store()
	changes, unsubscribe := st.Subscribe()
	defer unsubscribe()

	p := poller.New(st, sess.Documents, interval, m, log)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(ctx) }()
	defer func() {
		cancel()
		<-errCh
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		doc, ok := sess.Documents.Find(id)
		if !ok {
			return domain.Document{}, fmt.Errorf("document %s is no longer listed", id)
		}
		if doc.Status.Terminal() {
			return doc, nil
		}
		select {
		case <-ctx.Done():
			return domain.Document{}, ctx.Err()
		case <-changes:
		case <-ticker.C:
			if p.Armed() {
				continue
			}
			if err := sess.RefreshDocuments(ctx); err != nil && ctx.Err() == nil {
				log.Warn("refresh while waiting failed", "document_id", id, "err", err)
			}
		}
	}
}
