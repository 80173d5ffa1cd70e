package testsupport

import (
	"context"
	"testing"

	"contentgen/internal/config"
	"contentgen/internal/store"
)

// MustOpenStore opens a store for the supplied config and registers cleanup.
func MustOpenStore(t *testing.T, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}

// SeedVideo creates a project with default settings and one video attached
// to it, returning both records.
func SeedVideo(t *testing.T, st *store.Store, title string, contentType store.ContentType) (*store.Project, *store.Video) {
	t.Helper()

	ctx := context.Background()
	project, err := st.CreateProject(ctx, &store.Project{
		Name:           "Test Project",
		Niche:          "fitness",
		TargetPlatform: "tiktok",
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := st.SettingsForProject(ctx, project.ID); err != nil {
		t.Fatalf("create settings: %v", err)
	}
	video, err := st.CreateVideo(ctx, &store.Video{
		ProjectID:   project.ID,
		Title:       title,
		ContentType: contentType,
	})
	if err != nil {
		t.Fatalf("create video: %v", err)
	}
	return project, video
}
