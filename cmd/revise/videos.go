package main

import (
	"github.com/spf13/cobra"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
)

var videosCmd = &cobra.Command{
	Use:   "videos <document-id>",
	Short: "Recommend videos for a ready document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := selectDocument(ctx, args[0]); err != nil {
			return err
		}

		var (
			videos []domain.Video
			err    error
		)
		if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
			videos, err = deps.Session.RefreshVideos(ctx)
		} else {
			videos, err = deps.Session.RecommendVideos(ctx)
		}
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(cmd.OutOrStdout(), videos)
		}
		renderVideos(cmd.OutOrStdout(), videos)
		return nil
	},
}

func init() {
	videosCmd.Flags().Bool("refresh", false, "Bypass the recommendation cache")
}
