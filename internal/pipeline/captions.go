package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"contentgen/internal/logging"
	"contentgen/internal/media/ffmpeg"
	"contentgen/internal/services"
	"contentgen/internal/storage"
	"contentgen/internal/store"
)

// runCaptions burns the captions into the raw video, extracts the thumbnail,
// and marks the video done. A failed thumbnail is logged and skipped; it
// never fails an otherwise finished video.
func (r *Runner) runCaptions(ctx context.Context, st *runState) error {
	logger := logging.WithContext(ctx, r.logger)
	if st.rawPath == "" {
		st.rawPath = r.layout.AssetPath(st.video.ID, storage.SubdirVideo, storage.RawVideoFile)
	}
	if !fileExists(st.rawPath) {
		return services.Wrap(services.ErrValidation, "captions", "burn", "raw video missing", nil)
	}
	if st.srtPath == "" {
		st.srtPath = r.layout.AssetPath(st.video.ID, storage.SubdirSubtitles, storage.CaptionsFile)
	}

	finalPath := r.layout.AssetPath(st.video.ID, storage.SubdirVideo, storage.FinalVideoFile)
	if fileExists(st.srtPath) {
		style := ffmpeg.CaptionStyle{
			Color:    st.settings.CaptionColor,
			BgColor:  st.settings.CaptionBgColor,
			Position: st.settings.CaptionPosition,
		}
		if err := r.providers.Assembler.BurnSubtitles(ctx, st.rawPath, st.srtPath, finalPath, style); err != nil {
			return err
		}
	} else {
		logger.Warn("no captions file, publishing raw video unchanged")
		if err := copyFile(st.rawPath, finalPath); err != nil {
			return err
		}
	}

	duration := st.audioDuration
	var durationPtr *float64
	if duration > 0 {
		durationPtr = &duration
	}
	if _, err := r.recordAsset(ctx, st.video.ID, store.AssetVideo, finalPath, "video/mp4", 0, durationPtr, nil); err != nil {
		return err
	}

	thumbPath := r.layout.AssetPath(st.video.ID, storage.SubdirThumbnails, storage.ThumbnailFile)
	if err := r.providers.Assembler.Thumbnail(ctx, finalPath, thumbPath, r.thumbnailOffset); err != nil {
		logger.Warn("thumbnail extraction failed", logging.Error(err))
	} else if _, err := r.recordAsset(ctx, st.video.ID, store.AssetThumbnail, thumbPath, "image/jpeg", 0, nil, nil); err != nil {
		return err
	} else if rel, err := r.layout.RelativePath(thumbPath); err == nil {
		st.video.ThumbnailURL = rel
	}

	videoURL, err := r.layout.RelativePath(finalPath)
	if err != nil {
		return err
	}
	st.video.VideoURL = videoURL
	return r.setVideoStatus(ctx, st, store.VideoDone)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %q: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %q: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %q: %w", dst, err)
	}
	return out.Close()
}
