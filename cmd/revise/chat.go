package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions about your documents",
}

var chatListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chat threads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		threads, err := deps.Session.Chat.Load(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd.OutOrStdout(), threads)
		}
		renderThreads(cmd.OutOrStdout(), threads)
		return nil
	},
}

var chatNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a chat thread, optionally about one document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if doc, _ := cmd.Flags().GetString("doc"); doc != "" {
			if err := selectDocument(ctx, doc); err != nil {
				return err
			}
		}
		title, _ := cmd.Flags().GetString("title")
		thread, err := deps.Session.StartThread(ctx, title)
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd.OutOrStdout(), thread)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Started %q (%s)\n", thread.Title, thread.ID)
		return nil
	},
}

var chatSendCmd = &cobra.Command{
	Use:   "send <thread-id> <message...>",
	Short: "Send a message and print the reply",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if _, err := deps.Session.Chat.Load(ctx); err != nil {
			return err
		}
		if err := deps.Session.Chat.Select(args[0]); err != nil {
			return err
		}
		if doc, _ := cmd.Flags().GetString("doc"); doc != "" {
			if err := selectDocument(ctx, doc); err != nil {
				return err
			}
		}

		thread, err := deps.Session.Ask(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd.OutOrStdout(), thread)
		}
		if n := len(thread.Messages); n > 0 {
			renderMessage(cmd.OutOrStdout(), thread.Messages[n-1])
		}
		return nil
	},
}

var chatDeleteCmd = &cobra.Command{
	Use:   "delete <thread-id>",
	Short: "Delete a chat thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := deps.Session.Chat.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	chatNewCmd.Flags().String("doc", "", "Document the thread is about")
	chatNewCmd.Flags().String("title", "", "Thread title")
	chatSendCmd.Flags().String("doc", "", "Scope the question to a ready document")

	chatCmd.AddCommand(chatListCmd)
	chatCmd.AddCommand(chatNewCmd)
	chatCmd.AddCommand(chatSendCmd)
	chatCmd.AddCommand(chatDeleteCmd)
}
