package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Abishek0612/student-revision-app-client/internal/app"
)

// deps is built once per invocation by the root pre-run hook.
var deps app.Deps

var rootCmd = &cobra.Command{
	Use:          "revise",
	Short:        "Revision companion client",
	Long:         "revise uploads course PDFs, tracks their processing, and runs quizzes, document chats and video recommendations against the revision service.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		d, err := app.Build()
		if err != nil {
			return err
		}
		deps = d
		if token, _ := cmd.Flags().GetString("token"); token != "" {
			deps.Session.Login(token)
		}
		return nil
	},
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() {
		if deps.Session != nil {
			_ = deps.Close()
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("token", "", "Bearer token (overrides AUTH_TOKEN env var)")
	rootCmd.PersistentFlags().Bool("json", false, "Print results as JSON")

	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(videosCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(watchCmd)
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// selectDocument loads the collection and focuses the session on id.
func selectDocument(ctx context.Context, id string) error {
	if err := deps.Session.RefreshDocuments(ctx); err != nil {
		return err
	}
	return deps.Session.SelectDocument(id)
}
