package pipeline

import (
	"context"
	"strings"

	"contentgen/internal/logging"
	"contentgen/internal/services"
	"contentgen/internal/storage"
	"contentgen/internal/store"
)

// runAudio synthesizes the narration track. Every run re-synthesizes and
// appends a fresh asset row; a retry never reuses stale narration.
func (r *Runner) runAudio(ctx context.Context, st *runState) error {
	logger := logging.WithContext(ctx, r.logger)
	text := narrationText(st.video)
	if text == "" {
		return services.Wrap(services.ErrValidation, "audio", "synthesize", "no narration text available", nil)
	}

	tts := resolveTTS(st.settings.TTSProvider, r.providers)
	if tts == nil || !tts.Configured() {
		return services.Wrap(services.ErrConfiguration, "audio", "synthesize", "no speech provider configured", nil)
	}

	if err := r.setVideoStatus(ctx, st, store.VideoAudioGenerating); err != nil {
		return err
	}

	logger.Info("synthesizing narration",
		logging.String(logging.FieldProvider, tts.Name()),
		logging.Int("characters", len(text)))
	audio, err := tts.Synthesize(ctx, text, st.settings.TTSVoiceID)
	if err != nil {
		return err
	}

	saved, err := r.layout.SaveFile(st.video.ID, storage.SubdirAudio, storage.NarrationFile, audio)
	if err != nil {
		return err
	}
	if _, err := r.recordAsset(ctx, st.video.ID, store.AssetAudio, saved, "audio/mpeg", 0, nil, nil); err != nil {
		return err
	}
	st.audioPath = saved
	return nil
}

// narrationText joins scene narrations in order; the flat script is the
// fallback for videos whose scenes lack narration text.
func narrationText(video *store.Video) string {
	if video.SceneData != nil {
		parts := make([]string, 0, len(video.SceneData.Scenes))
		for _, scene := range video.SceneData.Scenes {
			if text := strings.TrimSpace(scene.Narration); text != "" {
				parts = append(parts, text)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}
	return strings.TrimSpace(video.Script)
}
