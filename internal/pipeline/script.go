package pipeline

import (
	"context"
	"strings"

	"contentgen/internal/logging"
	"contentgen/internal/scriptparse"
	"contentgen/internal/services"
	"contentgen/internal/services/openai"
	"contentgen/internal/store"
)

// runScript fills in the video's scene data. Videos that already carry
// scenes, from a prior run or a hand-written script, are left untouched.
func (r *Runner) runScript(ctx context.Context, st *runState) error {
	logger := logging.WithContext(ctx, r.logger)
	if st.video.HasScenes() {
		logger.Info("script already present, skipping",
			logging.Int("scenes", len(st.video.SceneData.Scenes)))
		return nil
	}

	var data *store.SceneData
	fullScript := strings.TrimSpace(st.video.Script)
	switch {
	case fullScript != "":
		// A user-supplied script wins over generation.
		data = scriptparse.Parse(st.video.Title, fullScript)
		logger.Info("parsed supplied script", logging.Int("scenes", len(data.Scenes)))
	case r.providers.Script != nil && r.providers.Script.Configured():
		result, err := r.providers.Script.GenerateScript(ctx, openai.ScriptRequest{
			Title:       st.video.Title,
			Niche:       st.project.Niche,
			Platform:    st.project.TargetPlatform,
			Description: st.video.Description,
			Context:     st.settings.CreativeContext,
			ContentType: st.video.ContentType,
			Language:    st.settings.ContentLanguage,
		})
		if err != nil {
			return err
		}
		data = &result.SceneData
		fullScript = result.FullScript
		r.mergeJobMetadata(ctx, st, map[string]any{"tokensUsed": result.TokensUsed})
		logger.Info("script generated",
			logging.Int("scenes", len(data.Scenes)),
			logging.Int("tokens_used", result.TokensUsed))
	default:
		return services.Wrap(services.ErrConfiguration, "script", "generate",
			"no script text supplied and no script provider configured", nil)
	}

	if len(data.Scenes) == 0 {
		return services.Wrap(services.ErrValidation, "script", "generate", "script produced no scenes", nil)
	}

	st.video.SceneData = data
	st.video.Script = fullScript
	return r.setVideoStatus(ctx, st, store.VideoScriptGenerated)
}
