package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"contentgen/internal/storage"
)

func TestEnsureVideoDirsIdempotent(t *testing.T) {
	root := t.TempDir()
	layout := storage.NewLayout(filepath.Join(root, "videos"))

	for i := 0; i < 2; i++ {
		if err := layout.EnsureVideoDirs(12); err != nil {
			t.Fatalf("EnsureVideoDirs pass %d: %v", i+1, err)
		}
	}
	for _, subdir := range storage.Subdirs() {
		path := filepath.Join(root, "videos", "12", subdir)
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			t.Fatalf("missing subdir %s: %v", path, err)
		}
	}
}

func TestAssetPathIsPure(t *testing.T) {
	layout := storage.NewLayout("/srv/contentgen/videos")
	got := layout.AssetPath(3, storage.SubdirAudio, storage.NarrationFile)
	want := filepath.Join("/srv/contentgen/videos", "3", "audio", "narration.mp3")
	if got != want {
		t.Fatalf("AssetPath = %q, want %q", got, want)
	}
}

func TestSaveFileCreatesSubdirLazily(t *testing.T) {
	root := t.TempDir()
	layout := storage.NewLayout(filepath.Join(root, "videos"))

	path, err := layout.SaveFile(5, storage.SubdirImages, storage.SceneImageName(1), []byte{0x89, 'P', 'N', 'G'})
	if err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if len(data) != 4 {
		t.Fatalf("saved file size = %d", len(data))
	}

	size, err := layout.FileSize(path)
	if err != nil || size != 4 {
		t.Fatalf("FileSize = %d, err %v", size, err)
	}
}

func TestRelativePathForms(t *testing.T) {
	root := t.TempDir()
	layout := storage.NewLayout(filepath.Join(root, "videos"))

	abs := layout.AssetPath(7, storage.SubdirVideo, storage.FinalVideoFile)
	rel, err := layout.RelativePath(abs)
	if err != nil {
		t.Fatalf("RelativePath: %v", err)
	}
	if rel != "/videos/7/video/final.mp4" {
		t.Fatalf("RelativePath = %q", rel)
	}
}

func TestSceneNamesZeroPadded(t *testing.T) {
	if got := storage.SceneImageName(1); got != "scene_001.png" {
		t.Fatalf("SceneImageName(1) = %q", got)
	}
	if got := storage.SceneImageName(42); got != "scene_042.png" {
		t.Fatalf("SceneImageName(42) = %q", got)
	}
	if got := storage.ClipName(7); got != "clip_007.mp4" {
		t.Fatalf("ClipName(7) = %q", got)
	}
}
