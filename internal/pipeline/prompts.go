package pipeline

import (
	"context"

	"contentgen/internal/logging"
	"contentgen/internal/promptbuild"
	"contentgen/internal/services"
)

// runImagePrompts fills each scene's image prompt. A configured refiner is
// asked first; scenes it misses, or all scenes when no refiner is available,
// get deterministic prompts built from their visual descriptions. Prompts
// are aligned with scenes by index.
func (r *Runner) runImagePrompts(ctx context.Context, st *runState) error {
	logger := logging.WithContext(ctx, r.logger)
	if st.video.SceneData == nil || len(st.video.SceneData.Scenes) == 0 {
		return services.Wrap(services.ErrValidation, "image_prompts", "build", "video has no scenes", nil)
	}

	scenes := st.video.SceneData.Scenes
	missing := 0
	for _, scene := range scenes {
		if scene.ImagePrompt == "" {
			missing++
		}
	}
	if missing == 0 {
		logger.Info("image prompts already present, skipping")
		return nil
	}

	fallback := promptbuild.Build(scenes, st.settings.ImageStyle, st.project.Niche)

	var refined []string
	if r.providers.Refiner != nil && r.providers.Refiner.Configured() {
		var err error
		refined, err = r.providers.Refiner.RefinePrompts(ctx, scenes, st.settings.ImageStyle, st.project.Niche)
		if err != nil {
			return err
		}
		if len(refined) != len(scenes) {
			logger.Warn("refiner returned wrong prompt count, backfilling by index",
				logging.Int("got", len(refined)),
				logging.Int("want", len(scenes)))
		}
	} else {
		logger.Info("no prompt refiner configured, using built prompts")
	}

	for i := range scenes {
		if scenes[i].ImagePrompt != "" {
			continue
		}
		if i < len(refined) && refined[i] != "" {
			scenes[i].ImagePrompt = refined[i]
		} else {
			scenes[i].ImagePrompt = fallback[i]
		}
	}
	return r.store.UpdateVideo(ctx, st.video)
}
