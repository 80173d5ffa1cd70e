// Package storage maps video identifiers to their deterministic on-disk
// asset tree: {storage_root}/videos/{videoId}/{audio|images|video|subtitles|thumbnails}.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Fixed subdirectory names under each video directory.
const (
	SubdirAudio      = "audio"
	SubdirImages     = "images"
	SubdirVideo      = "video"
	SubdirSubtitles  = "subtitles"
	SubdirThumbnails = "thumbnails"
)

// Fixed asset filenames produced by the pipeline.
const (
	NarrationFile  = "narration.mp3"
	TranscriptFile = "transcript.json"
	CaptionsFile   = "captions.srt"
	RawVideoFile   = "raw.mp4"
	FinalVideoFile = "final.mp4"
	ThumbnailFile  = "thumb.jpg"
	ConcatListFile = "concat_list.txt"
	ConcatFile     = "concat.mp4"
)

var subdirs = []string{SubdirAudio, SubdirImages, SubdirVideo, SubdirSubtitles, SubdirThumbnails}

// Subdirs returns the fixed per-video subdirectory names.
func Subdirs() []string {
	cp := make([]string, len(subdirs))
	copy(cp, subdirs)
	return cp
}

// SceneImageName returns the fixed scene image filename for a 1-based scene
// number: scene_001.png, scene_002.png, ...
func SceneImageName(sceneNumber int) string {
	return fmt.Sprintf("scene_%03d.png", sceneNumber)
}

// ClipName returns the intermediate clip filename for a 1-based scene number.
func ClipName(sceneNumber int) string {
	return fmt.Sprintf("clip_%03d.mp4", sceneNumber)
}

// Layout computes paths inside the per-video asset tree.
type Layout struct {
	videosDir string
}

// NewLayout builds a layout rooted at the given videos directory
// ({storage_root}/videos).
func NewLayout(videosDir string) *Layout {
	return &Layout{videosDir: videosDir}
}

// VideosDir returns the root directory holding all per-video trees.
func (l *Layout) VideosDir() string {
	return l.videosDir
}

// VideoDir returns the base directory for one video without touching the
// filesystem.
func (l *Layout) VideoDir(videoID int64) string {
	return filepath.Join(l.videosDir, strconv.FormatInt(videoID, 10))
}

// EnsureVideoDirs idempotently creates the video base directory and its five
// fixed subdirectories.
func (l *Layout) EnsureVideoDirs(videoID int64) error {
	base := l.VideoDir(videoID)
	for _, subdir := range subdirs {
		if err := os.MkdirAll(filepath.Join(base, subdir), 0o755); err != nil {
			return fmt.Errorf("create video directory %q: %w", filepath.Join(base, subdir), err)
		}
	}
	return nil
}

// AssetPath returns the deterministic absolute path of an asset without
// touching the filesystem.
func (l *Layout) AssetPath(videoID int64, subdir, filename string) string {
	return filepath.Join(l.VideoDir(videoID), subdir, filename)
}

// SaveFile writes data to the asset path, creating the subdirectory lazily,
// and returns the absolute path written.
func (l *Layout) SaveFile(videoID int64, subdir, filename string, data []byte) (string, error) {
	path := l.AssetPath(videoID, subdir, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create asset directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write asset %q: %w", path, err)
	}
	return path, nil
}

// FileSize returns the size of a file on disk.
func (l *Layout) FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %q: %w", path, err)
	}
	return info.Size(), nil
}

// RelativePath converts an absolute asset path into the storage-relative URL
// form used for Video.videoUrl, e.g. /videos/7/video/final.mp4.
func (l *Layout) RelativePath(path string) (string, error) {
	storageRoot := filepath.Dir(l.videosDir)
	rel, err := filepath.Rel(storageRoot, path)
	if err != nil {
		return "", fmt.Errorf("relative path for %q: %w", path, err)
	}
	return "/" + filepath.ToSlash(rel), nil
}
