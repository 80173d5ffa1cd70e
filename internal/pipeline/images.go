package pipeline

import (
	"context"
	"fmt"

	"contentgen/internal/logging"
	"contentgen/internal/services"
	"contentgen/internal/storage"
	"contentgen/internal/store"
)

// runImages renders one still per scene on every run; a retry regenerates
// all of them. Individual scene failures are tolerated and logged; the stage
// only fails when not a single scene image was produced.
func (r *Runner) runImages(ctx context.Context, st *runState) error {
	logger := logging.WithContext(ctx, r.logger)
	scenes := st.video.SceneData.Scenes
	if len(scenes) == 0 {
		return services.Wrap(services.ErrValidation, "images", "generate", "video has no scenes", nil)
	}

	gen := resolveImages(st.settings.ImageProvider, r.providers)
	if gen == nil || !gen.Configured() {
		return services.Wrap(services.ErrConfiguration, "images", "generate", "no image provider configured", nil)
	}

	if err := r.setVideoStatus(ctx, st, store.VideoImagesGenerating); err != nil {
		return err
	}

	width, height := st.video.ContentType.Dimensions()
	logger.Info("generating scene images",
		logging.String(logging.FieldProvider, gen.Name()),
		logging.Int("scenes", len(scenes)),
		logging.String("dimensions", fmt.Sprintf("%dx%d", width, height)))

	successes := 0
	for _, scene := range scenes {
		name := storage.SceneImageName(scene.SceneNumber)
		data, err := gen.GenerateImage(ctx, scene.ImagePrompt, width, height)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("scene image failed",
				logging.Int("scene", scene.SceneNumber),
				logging.Error(err))
			continue
		}
		saved, err := r.layout.SaveFile(st.video.ID, storage.SubdirImages, name, data)
		if err != nil {
			return err
		}
		if _, err := r.recordAsset(ctx, st.video.ID, store.AssetImage, saved, "image/png", scene.SceneNumber, nil,
			map[string]any{"prompt": scene.ImagePrompt}); err != nil {
			return err
		}
		successes++
	}

	if successes == 0 {
		return services.Wrap(services.ErrProvider, "images", "generate",
			fmt.Sprintf("all %d scene images failed", len(scenes)), nil)
	}
	if successes < len(scenes) {
		logger.Warn("continuing with partial scene images",
			logging.Int("generated", successes),
			logging.Int("scenes", len(scenes)))
	}
	return r.setVideoStatus(ctx, st, store.VideoImagesDone)
}

// sceneImagePaths lists the scene images present on disk, in scene order.
func (r *Runner) sceneImagePaths(st *runState) []string {
	var paths []string
	for _, scene := range st.video.SceneData.Scenes {
		path := r.layout.AssetPath(st.video.ID, storage.SubdirImages, storage.SceneImageName(scene.SceneNumber))
		if fileExists(path) {
			paths = append(paths, path)
		}
	}
	return paths
}
