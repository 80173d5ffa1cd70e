package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"contentgen/internal/store"
)

func newVideoCommand(ctx *commandContext) *cobra.Command {
	videoCmd := &cobra.Command{
		Use:   "video",
		Short: "Manage videos",
	}
	videoCmd.AddCommand(newVideoAddCommand(ctx))
	videoCmd.AddCommand(newVideoListCommand(ctx))
	return videoCmd
}

func newVideoAddCommand(ctx *commandContext) *cobra.Command {
	var (
		title       string
		description string
		contentType string
		scriptFile  string
	)

	cmd := &cobra.Command{
		Use:   "add <project-id>",
		Short: "Queue a video for generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0])
			if err != nil {
				return err
			}
			parsedType, ok := parseContentType(contentType)
			if !ok {
				return fmt.Errorf("invalid content type %q (use short or long)", contentType)
			}

			var script string
			if scriptFile != "" {
				data, err := os.ReadFile(scriptFile)
				if err != nil {
					return fmt.Errorf("read script file: %w", err)
				}
				script = string(data)
			}

			st, _, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if project, err := st.GetProject(cmd.Context(), projectID); err != nil {
				return fmt.Errorf("load project: %w", err)
			} else if project == nil {
				return fmt.Errorf("project %d not found", projectID)
			}

			video, err := st.CreateVideo(cmd.Context(), &store.Video{
				ProjectID:   projectID,
				Title:       title,
				Description: description,
				Script:      script,
				ContentType: parsedType,
			})
			if err != nil {
				return fmt.Errorf("create video: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created video %d (%s)\n", video.ID, video.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Video title")
	cmd.Flags().StringVar(&description, "description", "", "What the video should cover")
	cmd.Flags().StringVar(&contentType, "type", "short", "Content type: short (720x1280) or long (1280x720)")
	cmd.Flags().StringVar(&scriptFile, "script", "", "Path to a hand-written script (skips script generation)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func parseContentType(value string) (store.ContentType, bool) {
	switch store.ContentType(value) {
	case store.ContentShort, "":
		return store.ContentShort, true
	case store.ContentLong:
		return store.ContentLong, true
	default:
		return "", false
	}
}

func newVideoListCommand(ctx *commandContext) *cobra.Command {
	var (
		projectID  int64
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			var videos []*store.Video
			if projectID > 0 {
				videos, err = st.VideosByProject(cmd.Context(), projectID)
			} else {
				videos, err = st.ListVideos(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("list videos: %w", err)
			}
			if jsonOutput {
				return writeJSON(cmd, videos)
			}

			rows := make([][]string, 0, len(videos))
			for _, video := range videos {
				rows = append(rows, []string{
					strconv.FormatInt(video.ID, 10),
					video.Title,
					string(video.ContentType),
					string(video.Status),
					video.VideoURL,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Title", "Type", "Status", "URL"}, rows, 0))
			return nil
		},
	}

	cmd.Flags().Int64Var(&projectID, "project", 0, "Limit to one project")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}
