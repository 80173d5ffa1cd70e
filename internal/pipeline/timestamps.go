package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"contentgen/internal/logging"
	"contentgen/internal/services"
	"contentgen/internal/storage"
	"contentgen/internal/store"
	"contentgen/internal/subtitles"
)

// runTimestamps produces word-level timing for the narration and renders the
// SRT captions. A configured transcriber is authoritative and its errors fail
// the stage; the proportional estimator only covers the unconfigured case.
func (r *Runner) runTimestamps(ctx context.Context, st *runState) error {
	logger := logging.WithContext(ctx, r.logger)
	if st.audioPath == "" {
		st.audioPath = r.layout.AssetPath(st.video.ID, storage.SubdirAudio, storage.NarrationFile)
	}
	if !fileExists(st.audioPath) {
		return services.Wrap(services.ErrValidation, "timestamps", "transcribe", "narration audio missing", nil)
	}

	duration, err := r.providers.Assembler.Duration(ctx, st.audioPath)
	if err != nil {
		return err
	}
	st.audioDuration = duration

	var transcript *subtitles.Transcript
	if r.providers.Transcriber != nil && r.providers.Transcriber.Configured() {
		transcript, err = r.providers.Transcriber.Transcribe(ctx, st.audioPath, st.settings.ContentLanguage)
		if err != nil {
			return err
		}
	}
	if transcript == nil || len(transcript.Words) == 0 {
		estimated := subtitles.Estimate(narrationText(st.video), duration)
		transcript = &estimated
		logger.Info("timestamps estimated from narration text",
			logging.Int("words", len(transcript.Words)))
	} else {
		logger.Info("narration transcribed",
			logging.Int("words", len(transcript.Words)),
			logging.Float64("duration", transcript.Duration))
	}
	st.transcript = transcript

	encoded, err := json.MarshalIndent(transcript, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	if _, err := r.layout.SaveFile(st.video.ID, storage.SubdirSubtitles, storage.TranscriptFile, encoded); err != nil {
		return err
	}

	srt := subtitles.GenerateSRT(transcript.Words, r.captionWords)
	srtPath, err := r.layout.SaveFile(st.video.ID, storage.SubdirSubtitles, storage.CaptionsFile, []byte(srt))
	if err != nil {
		return err
	}
	if _, err := r.recordAsset(ctx, st.video.ID, store.AssetSubtitle, srtPath, "application/x-subrip", 0, nil, nil); err != nil {
		return err
	}
	st.srtPath = srtPath

	r.mergeJobMetadata(ctx, st, map[string]any{
		"audioDuration": duration,
		"wordCount":     len(transcript.Words),
	})
	return nil
}
