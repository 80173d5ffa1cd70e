package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <video-id>",
		Short: "Run the generation pipeline for a video",
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

			// One run per video at a time; a second invocation fails fast
			// instead of racing the asset tree.
			lockPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("video-%d.lock", videoID))
			if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
				return fmt.Errorf("create lock directory: %w", err)
			}
			lock := flock.New(lockPath)
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("video %d is already being generated (lock %s held)", videoID, lockPath)
			}
			defer func() {
				_ = lock.Unlock()
			}()

			logger := newLogger(cfg)
			runner := buildRunner(cfg, st, logger)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Running generation for video %d...\n", videoID)
			result := runner.Run(cmd.Context(), videoID)
			if result.Err != nil {
				return fmt.Errorf("generation failed (job %d): %w", result.JobID, result.Err)
			}

			report, err := runner.Status(cmd.Context(), videoID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Video %d done: %s (%s assets)\n",
				videoID, report.Video.VideoURL, strconv.Itoa(report.TotalAssets))
			return nil
		},
	}
	return cmd
}
