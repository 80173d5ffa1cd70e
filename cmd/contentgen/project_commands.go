package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"contentgen/internal/store"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	projectCmd.AddCommand(newProjectAddCommand(ctx))
	projectCmd.AddCommand(newProjectListCommand(ctx))
	projectCmd.AddCommand(newProjectSettingsCommand(ctx))
	return projectCmd
}

func newProjectAddCommand(ctx *commandContext) *cobra.Command {
	var niche, platform, description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			project, err := st.CreateProject(cmd.Context(), &store.Project{
				Name:           strings.TrimSpace(args[0]),
				Niche:          niche,
				Description:    description,
				TargetPlatform: platform,
			})
			if err != nil {
				return fmt.Errorf("create project: %w", err)
			}
			// Materialize default settings up front so they can be edited
			// before the first run.
			if _, err := st.SettingsForProject(cmd.Context(), project.ID); err != nil {
				return fmt.Errorf("create settings: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %d (%s)\n", project.ID, project.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&niche, "niche", "", "Content niche, e.g. fitness")
	cmd.Flags().StringVar(&platform, "platform", "", "Target platform, e.g. tiktok")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	return cmd
}

func newProjectListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			projects, err := st.ListProjects(cmd.Context())
			if err != nil {
				return fmt.Errorf("list projects: %w", err)
			}
			if jsonOutput {
				return writeJSON(cmd, projects)
			}

			rows := make([][]string, 0, len(projects))
			for _, project := range projects {
				rows = append(rows, []string{
					strconv.FormatInt(project.ID, 10),
					project.Name,
					project.Niche,
					project.TargetPlatform,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Niche", "Platform"}, rows, 0))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}

func newProjectSettingsCommand(ctx *commandContext) *cobra.Command {
	var (
		ttsProvider, ttsVoice         string
		imageProvider, imageStyle     string
		videoProvider                 string
		captionColor, captionBg       string
		captionPosition               string
		contentLanguage, creativeNote string
	)

	cmd := &cobra.Command{
		Use:   "settings <project-id>",
		Short: "Show or update project settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, _, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			settings, err := st.SettingsForProject(cmd.Context(), projectID)
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			changed := false
			for _, update := range []struct {
				flag  string
				value string
				dest  *string
			}{
				{"tts-provider", ttsProvider, &settings.TTSProvider},
				{"tts-voice", ttsVoice, &settings.TTSVoiceID},
				{"image-provider", imageProvider, &settings.ImageProvider},
				{"image-style", imageStyle, &settings.ImageStyle},
				{"video-provider", videoProvider, &settings.VideoProvider},
				{"caption-color", captionColor, &settings.CaptionColor},
				{"caption-bg", captionBg, &settings.CaptionBgColor},
				{"caption-position", captionPosition, &settings.CaptionPosition},
				{"language", contentLanguage, &settings.ContentLanguage},
				{"context", creativeNote, &settings.CreativeContext},
			} {
				if cmd.Flags().Changed(update.flag) {
					*update.dest = update.value
					changed = true
				}
			}
			if changed {
				if err := st.UpdateSettings(cmd.Context(), settings); err != nil {
					return fmt.Errorf("update settings: %w", err)
				}
			}
			return writeJSON(cmd, settings)
		},
	}

	cmd.Flags().StringVar(&ttsProvider, "tts-provider", "", "Speech provider: elevenlabs or minimax")
	cmd.Flags().StringVar(&ttsVoice, "tts-voice", "", "Voice identifier")
	cmd.Flags().StringVar(&imageProvider, "image-provider", "", "Image provider: replicate or minimax")
	cmd.Flags().StringVar(&imageStyle, "image-style", "", "Image style, e.g. cinematic")
	cmd.Flags().StringVar(&videoProvider, "video-provider", "", "Video provider: ffmpeg or minimax")
	cmd.Flags().StringVar(&captionColor, "caption-color", "", "Caption text color, e.g. #FFFFFF")
	cmd.Flags().StringVar(&captionBg, "caption-bg", "", "Caption background color")
	cmd.Flags().StringVar(&captionPosition, "caption-position", "", "Caption position: top, center, or bottom")
	cmd.Flags().StringVar(&contentLanguage, "language", "", "Content language, e.g. en or pt-BR")
	cmd.Flags().StringVar(&creativeNote, "context", "", "Creative direction passed to script generation")
	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
