package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Abishek0612/student-revision-app-client/internal/events"
	"github.com/Abishek0612/student-revision-app-client/internal/httputil"
	"github.com/Abishek0612/student-revision-app-client/internal/poller"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Track document processing and serve local status",
	Long:  "watch refreshes documents while any is processing, publishes lifecycle events, and serves /healthz, /state and /metrics until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := deps.Session
		cfg := deps.Config
		if err := sess.RefreshDocuments(cmd.Context()); err != nil {
			return err
		}

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = fmt.Sprintf(":%d", cfg.StatusPort)
		}

		st := sess.Store()
		p := poller.New(st, sess.Documents, cfg.PollInterval, deps.Metrics, deps.Log)
		w := events.NewWatcher(st, sess.Documents, deps.Events, cfg.RetryAttempts, cfg.RetryBase, deps.Metrics, deps.Log)

		deps.Log.Info("watching documents", "interval", cfg.PollInterval, "addr", addr)
		g, ctx := errgroup.WithContext(cmd.Context())

		// Refresh while anything is processing
		g.Go(func() error {
			return p.Run(ctx)
		})

		// Publish lifecycle transitions
		g.Go(func() error {
			return w.Run(ctx)
		})

		// Serve local status
		g.Go(func() error {
			return httputil.Serve(ctx, addr, statusRouter(sess, deps.Metrics, deps.Log), deps.Log)
		})

		return g.Wait()
	},
}

func init() {
	watchCmd.Flags().String("addr", "", "Status server address (defaults to :STATUS_PORT)")
}
