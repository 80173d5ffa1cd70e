package pipeline

import (
	"context"
	"fmt"
	"os"

	"contentgen/internal/logging"
	"contentgen/internal/media/ffmpeg"
	"contentgen/internal/services"
	"contentgen/internal/storage"
	"contentgen/internal/store"
)

// runAssembly turns the scene images and narration into the raw video. When
// the project prefers MiniMax and it is configured, scene stills are animated
// into clips and concatenated; otherwise the local Ken Burns slideshow is
// rendered. Both paths produce video/raw.mp4 and re-render it on every run.
func (r *Runner) runAssembly(ctx context.Context, st *runState) error {
	rawPath := r.layout.AssetPath(st.video.ID, storage.SubdirVideo, storage.RawVideoFile)
	images := r.sceneImagePaths(st)
	if len(images) == 0 {
		return services.Wrap(services.ErrValidation, "assembly", "render", "no scene images on disk", nil)
	}
	if st.audioDuration <= 0 {
		duration, err := r.providers.Assembler.Duration(ctx, st.audioPath)
		if err != nil {
			return err
		}
		st.audioDuration = duration
	}

	if clipGen := resolveVideo(st.settings.VideoProvider, r.providers); clipGen != nil {
		if err := r.assembleFromClips(ctx, st, clipGen, images, rawPath); err != nil {
			return err
		}
	} else {
		if err := r.assembleSlideshow(ctx, st, images, rawPath); err != nil {
			return err
		}
	}

	duration := st.audioDuration
	if _, err := r.recordAsset(ctx, st.video.ID, store.AssetVideo, rawPath, "video/mp4", 0, &duration, nil); err != nil {
		return err
	}
	st.rawPath = rawPath
	return nil
}

func (r *Runner) assembleSlideshow(ctx context.Context, st *runState, images []string, rawPath string) error {
	logger := logging.WithContext(ctx, r.logger)
	if err := r.setVideoStatus(ctx, st, store.VideoAssembling); err != nil {
		return err
	}
	width, height := st.video.ContentType.Dimensions()
	logger.Info("rendering slideshow",
		logging.String(logging.FieldProvider, r.providers.Assembler.Name()),
		logging.Int("images", len(images)),
		logging.Float64("duration", st.audioDuration))
	return r.providers.Assembler.Slideshow(ctx, ffmpeg.SlideshowSpec{
		ImagePaths:    images,
		AudioPath:     st.audioPath,
		OutputPath:    rawPath,
		Width:         width,
		Height:        height,
		AudioDuration: st.audioDuration,
	})
}

// assembleFromClips animates every scene still into a motion clip, joins the
// clips losslessly, and lays the narration over the result; -shortest on the
// audio replacement trims the tail.
func (r *Runner) assembleFromClips(ctx context.Context, st *runState, clipGen ClipGenerator, images []string, rawPath string) error {
	logger := logging.WithContext(ctx, r.logger)
	if err := r.setVideoStatus(ctx, st, store.VideoGenerating); err != nil {
		return err
	}

	logger.Info("generating motion clips",
		logging.String(logging.FieldProvider, clipGen.Name()),
		logging.Int("clips", len(images)))

	var clips []string
	for i := range images {
		name := storage.ClipName(i + 1)
		imageData, err := os.ReadFile(images[i])
		if err != nil {
			return fmt.Errorf("read scene image: %w", err)
		}
		clip, err := clipGen.GenerateClip(ctx, imageData, clipMotionPrompt(st, i))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("clip generation failed",
				logging.Int("clip", i+1),
				logging.Error(err))
			continue
		}
		saved, err := r.layout.SaveFile(st.video.ID, storage.SubdirVideo, name, clip)
		if err != nil {
			return err
		}
		clips = append(clips, saved)
	}
	if len(clips) == 0 {
		return services.Wrap(services.ErrProvider, "assembly", "generate_clips",
			fmt.Sprintf("all %d clips failed", len(images)), nil)
	}

	if err := r.setVideoStatus(ctx, st, store.VideoAssembling); err != nil {
		return err
	}
	listPath := r.layout.AssetPath(st.video.ID, storage.SubdirVideo, storage.ConcatListFile)
	concatPath := r.layout.AssetPath(st.video.ID, storage.SubdirVideo, storage.ConcatFile)
	if err := r.providers.Assembler.ConcatClips(ctx, clips, listPath, concatPath); err != nil {
		return err
	}
	return r.providers.Assembler.ReplaceAudio(ctx, concatPath, st.audioPath, rawPath)
}

// clipMotionPrompt gives the image-to-video model a gentle camera direction
// based on the scene's visual description.
func clipMotionPrompt(st *runState, index int) string {
	scenes := st.video.SceneData.Scenes
	if index < len(scenes) && scenes[index].VisualDescription != "" {
		return scenes[index].VisualDescription + ". [Slow push in]"
	}
	return "[Slow push in]"
}
