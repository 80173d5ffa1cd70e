// Package pipeline orchestrates the seven-stage video generation flow:
// script, audio, image prompts, images, timestamps, assembly, and captions.
// Each run creates a generation job whose step and progress are persisted
// after every stage. A retried run keeps the script and scene data but
// regenerates every downstream output, appending fresh asset rows.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"contentgen/internal/logging"
	"contentgen/internal/services"
	"contentgen/internal/storage"
	"contentgen/internal/store"
	"contentgen/internal/subtitles"
)

// Options tunes pipeline behavior that is not provider-specific.
type Options struct {
	CaptionWordsPerLine    int
	ThumbnailOffsetSeconds float64
}

// Runner executes generation runs against the store and asset layout.
type Runner struct {
	store     *store.Store
	layout    *storage.Layout
	providers Providers
	logger    *slog.Logger

	captionWords    int
	thumbnailOffset float64
}

// NewRunner wires a runner. A nil logger falls back to a no-op logger.
func NewRunner(st *store.Store, layout *storage.Layout, providers Providers, logger *slog.Logger, opts Options) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		store:           st,
		layout:          layout,
		providers:       providers,
		logger:          logging.NewComponentLogger(logger, "pipeline"),
		captionWords:    opts.CaptionWordsPerLine,
		thumbnailOffset: opts.ThumbnailOffsetSeconds,
	}
	if r.captionWords <= 0 {
		r.captionWords = subtitles.DefaultWordsPerCaption
	}
	if r.thumbnailOffset < 0 {
		r.thumbnailOffset = 0
	}
	return r
}

// Result reports the outcome of one generation run.
type Result struct {
	VideoID int64
	JobID   int64
	Success bool
	Err     error
}

// runState carries per-run working data between stages.
type runState struct {
	video    *store.Video
	project  *store.Project
	settings *store.ProjectSettings
	job      *store.GenerationJob

	audioPath     string
	audioDuration float64
	transcript    *subtitles.Transcript
	srtPath       string
	rawPath       string
}

// Run executes the full pipeline for one video. Any stage failure marks the
// job failed and the video errored; the error is returned in the result
// rather than panicking or leaving the records mid-flight.
func (r *Runner) Run(ctx context.Context, videoID int64) Result {
	video, err := r.store.GetVideo(ctx, videoID)
	if err != nil {
		return Result{VideoID: videoID, Err: err}
	}
	if video == nil {
		return Result{VideoID: videoID, Err: services.Wrap(services.ErrNotFound, "", "run", fmt.Sprintf("video %d not found", videoID), nil)}
	}
	project, err := r.store.GetProject(ctx, video.ProjectID)
	if err != nil {
		return Result{VideoID: videoID, Err: err}
	}
	settings, err := r.store.SettingsForProject(ctx, video.ProjectID)
	if err != nil {
		return Result{VideoID: videoID, Err: err}
	}
	job, err := r.store.CreateJob(ctx, videoID)
	if err != nil {
		return Result{VideoID: videoID, Err: err}
	}

	ctx = services.WithRunID(ctx, uuid.NewString())
	ctx = services.WithVideoID(ctx, videoID)
	ctx = services.WithJobID(ctx, job.ID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("generation run started", logging.String("title", video.Title))

	state := &runState{video: video, project: project, settings: settings, job: job}
	if err := r.execute(ctx, state); err != nil {
		r.markFailure(ctx, videoID, job.ID, err)
		logger.Error("generation run failed", logging.Error(err))
		return Result{VideoID: videoID, JobID: job.ID, Err: err}
	}

	r.markSuccess(ctx, job.ID)
	logger.Info("generation run completed")
	return Result{VideoID: videoID, JobID: job.ID, Success: true}
}

type stage struct {
	step store.Step
	run  func(context.Context, *runState) error
}

func (r *Runner) execute(ctx context.Context, st *runState) error {
	if err := r.layout.EnsureVideoDirs(st.video.ID); err != nil {
		return err
	}

	stages := []stage{
		{store.StepScript, r.runScript},
		{store.StepAudio, r.runAudio},
		{store.StepImagePrompts, r.runImagePrompts},
		{store.StepImages, r.runImages},
		{store.StepTimestamps, r.runTimestamps},
		{store.StepAssembly, r.runAssembly},
		{store.StepCaptions, r.runCaptions},
	}
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.advance(ctx, st.job.ID, s.step); err != nil {
			return err
		}
		stageCtx := services.WithStage(ctx, string(s.step))
		if err := s.run(stageCtx, st); err != nil {
			return fmt.Errorf("%s stage: %w", s.step, err)
		}
	}
	return nil
}

// advance persists the job's current step and its fixed progress value.
func (r *Runner) advance(ctx context.Context, jobID int64, step store.Step) error {
	progress := store.ProgressForStep(step)
	_, err := r.store.UpdateJob(ctx, jobID, store.JobUpdate{
		CurrentStep: &step,
		Progress:    &progress,
	})
	return err
}

func (r *Runner) markSuccess(ctx context.Context, jobID int64) {
	status := store.JobCompleted
	step := store.StepDone
	progress := store.ProgressForStep(store.StepDone)
	if _, err := r.store.UpdateJob(ctx, jobID, store.JobUpdate{
		Status:      &status,
		CurrentStep: &step,
		Progress:    &progress,
	}); err != nil {
		logging.WithContext(ctx, r.logger).Error("mark job completed", logging.Error(err))
	}
}

func (r *Runner) markFailure(ctx context.Context, videoID, jobID int64, runErr error) {
	status := store.JobFailed
	message := runErr.Error()
	if _, err := r.store.UpdateJob(ctx, jobID, store.JobUpdate{
		Status:       &status,
		ErrorMessage: &message,
	}); err != nil {
		logging.WithContext(ctx, r.logger).Error("mark job failed", logging.Error(err))
	}
	if video, err := r.store.GetVideo(ctx, videoID); err == nil && video != nil {
		video.Status = store.VideoError
		video.ErrorMessage = message
		if err := r.store.UpdateVideo(ctx, video); err != nil {
			logging.WithContext(ctx, r.logger).Error("mark video errored", logging.Error(err))
		}
	}
}

func (r *Runner) setVideoStatus(ctx context.Context, st *runState, status store.VideoStatus) error {
	st.video.Status = status
	st.video.ErrorMessage = ""
	return r.store.UpdateVideo(ctx, st.video)
}

func (r *Runner) mergeJobMetadata(ctx context.Context, st *runState, metadata map[string]any) {
	if len(metadata) == 0 {
		return
	}
	merged := make(map[string]any, len(metadata))
	if st.job.Metadata != nil {
		for k, v := range st.job.Metadata {
			merged[k] = v
		}
	}
	for k, v := range metadata {
		merged[k] = v
	}
	job, err := r.store.UpdateJob(ctx, st.job.ID, store.JobUpdate{Metadata: merged})
	if err != nil {
		logging.WithContext(ctx, r.logger).Warn("persist job metadata", logging.Error(err))
		return
	}
	st.job = job
}

// recordAsset appends one row to the asset ledger for a file already on disk.
func (r *Runner) recordAsset(ctx context.Context, videoID int64, assetType store.AssetType, path, mimeType string, sortOrder int, duration *float64, metadata map[string]any) (*store.VideoAsset, error) {
	size, err := r.layout.FileSize(path)
	if err != nil {
		return nil, err
	}
	return r.store.CreateAsset(ctx, &store.VideoAsset{
		VideoID:         videoID,
		AssetType:       assetType,
		FilePath:        path,
		FileName:        baseName(path),
		FileSize:        size,
		MimeType:        mimeType,
		DurationSeconds: duration,
		SortOrder:       sortOrder,
		Metadata:        metadata,
	})
}

func baseName(path string) string {
	if idx := strings.LastIndexByte(path, os.PathSeparator); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
