package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"contentgen/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status <video-id>",
		Short: "Show a video's generation status and assets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, cfg, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			runner := buildRunner(cfg, st, nil)
			report, err := runner.Status(cmd.Context(), videoID)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, map[string]any{
					"video":       report.Video,
					"job":         report.Job,
					"assets":      report.Assets,
					"totalAssets": report.TotalAssets,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Video %d: %s\n", report.Video.ID, report.Video.Title)
			fmt.Fprintf(out, "  Status:  %s\n", report.Video.Status)
			if report.Video.ErrorMessage != "" {
				fmt.Fprintf(out, "  Error:   %s\n", report.Video.ErrorMessage)
			}
			if report.Video.VideoURL != "" {
				fmt.Fprintf(out, "  URL:     %s\n", report.Video.VideoURL)
			}
			if job := report.Job; job != nil {
				fmt.Fprintf(out, "  Job %d:   %s, step %s, %d%%\n", job.ID, job.Status, job.CurrentStep, job.Progress)
				if job.CompletedAt != nil {
					fmt.Fprintf(out, "  Finished: %s\n", job.CompletedAt.Format(time.RFC3339))
				}
			} else {
				fmt.Fprintln(out, "  Job:     never run")
			}

			if report.TotalAssets == 0 {
				return nil
			}
			rows := make([][]string, 0, report.TotalAssets)
			for _, assetType := range []store.AssetType{
				store.AssetAudio, store.AssetImage, store.AssetVideo, store.AssetSubtitle, store.AssetThumbnail,
			} {
				for _, asset := range report.Assets[assetType] {
					rows = append(rows, []string{
						strconv.FormatInt(asset.ID, 10),
						string(asset.AssetType),
						asset.FileName,
						strconv.FormatInt(asset.FileSize, 10),
					})
				}
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Type", "File", "Bytes"}, rows, 0, 3))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}
