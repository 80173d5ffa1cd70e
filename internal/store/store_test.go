package store_test

import (
	"context"
	"testing"

	"contentgen/internal/store"
	"contentgen/internal/testsupport"
)

func TestVideoRoundTripWithSceneData(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	_, video := testsupport.SeedVideo(t, st, "5 Tips", store.ContentShort)
	ctx := context.Background()

	if video.Status != store.VideoPending {
		t.Fatalf("new video status = %s, want pending", video.Status)
	}

	video.Script = "full script text"
	video.SceneData = &store.SceneData{
		Title: "5 Tips",
		Scenes: []store.Scene{
			{SceneNumber: 1, Narration: "first", VisualDescription: "gym"},
			{SceneNumber: 2, Narration: "second", VisualDescription: "track"},
		},
	}
	video.Status = store.VideoScriptGenerated
	if err := st.UpdateVideo(ctx, video); err != nil {
		t.Fatalf("update video: %v", err)
	}

	loaded, err := st.GetVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("get video: %v", err)
	}
	if !loaded.HasScenes() || len(loaded.SceneData.Scenes) != 2 {
		t.Fatalf("scene data did not round trip: %+v", loaded.SceneData)
	}
	if loaded.SceneData.Scenes[1].SceneNumber != 2 {
		t.Fatalf("scene ordering lost: %+v", loaded.SceneData.Scenes)
	}
	if loaded.Status != store.VideoScriptGenerated {
		t.Fatalf("status = %s, want script_generated", loaded.Status)
	}
}

func TestGetVideoMissingReturnsNil(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	video, err := st.GetVideo(context.Background(), 9999)
	if err != nil {
		t.Fatalf("get video: %v", err)
	}
	if video != nil {
		t.Fatalf("expected nil for missing video, got %+v", video)
	}
}

func TestSettingsForProjectCreatesDefaults(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	project, err := st.CreateProject(ctx, &store.Project{Name: "Defaults"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	settings, err := st.SettingsForProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("settings for project: %v", err)
	}
	if settings.TTSProvider != "elevenlabs" || settings.ImageProvider != "replicate" || settings.VideoProvider != "ffmpeg" {
		t.Fatalf("unexpected default providers: %+v", settings)
	}

	again, err := st.SettingsForProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("settings second lookup: %v", err)
	}
	if again.ID != settings.ID {
		t.Fatalf("defaults recreated: first id=%d second id=%d", settings.ID, again.ID)
	}

	again.TTSProvider = "minimax"
	again.TTSVoiceID = "voice-1"
	if err := st.UpdateSettings(ctx, again); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	reloaded, err := st.SettingsForProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("settings reload: %v", err)
	}
	if reloaded.TTSProvider != "minimax" || reloaded.TTSVoiceID != "voice-1" {
		t.Fatalf("settings update lost: %+v", reloaded)
	}
}

func TestJobLifecycleStampsCompletion(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	_, video := testsupport.SeedVideo(t, st, "Job Video", store.ContentShort)
	ctx := context.Background()

	job, err := st.CreateJob(ctx, video.ID)
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	if job.Status != store.JobProcessing || job.CurrentStep != store.StepScript {
		t.Fatalf("new job state = %s/%s", job.Status, job.CurrentStep)
	}
	if job.Progress != store.ProgressForStep(store.StepScript) {
		t.Fatalf("new job progress = %d", job.Progress)
	}
	if job.CompletedAt != nil {
		t.Fatal("new job should not be completed")
	}

	step := store.StepAudio
	progress := store.ProgressForStep(step)
	job, err = st.UpdateJob(ctx, job.ID, store.JobUpdate{
		CurrentStep: &step,
		Progress:    &progress,
		Metadata:    map[string]any{"audioDuration": 12.5, "wordCount": float64(42)},
	})
	if err != nil {
		t.Fatalf("update job: %v", err)
	}
	if job.CurrentStep != store.StepAudio || job.Progress != 25 {
		t.Fatalf("partial update not applied: %+v", job)
	}
	if job.Metadata["wordCount"] != float64(42) {
		t.Fatalf("metadata lost: %+v", job.Metadata)
	}
	if job.CompletedAt != nil {
		t.Fatal("non-terminal update must not stamp completed_at")
	}

	failed := store.JobFailed
	msg := "script provider unavailable"
	job, err = st.UpdateJob(ctx, job.ID, store.JobUpdate{Status: &failed, ErrorMessage: &msg})
	if err != nil {
		t.Fatalf("fail job: %v", err)
	}
	if job.CompletedAt == nil {
		t.Fatal("terminal status must stamp completed_at")
	}
	if job.ErrorMessage != msg {
		t.Fatalf("error message = %q", job.ErrorMessage)
	}
}

func TestLatestJobAndHistoryOrdering(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	_, video := testsupport.SeedVideo(t, st, "History", store.ContentShort)
	ctx := context.Background()

	first, err := st.CreateJob(ctx, video.ID)
	if err != nil {
		t.Fatalf("create first job: %v", err)
	}
	second, err := st.CreateJob(ctx, video.ID)
	if err != nil {
		t.Fatalf("create second job: %v", err)
	}

	latest, err := st.LatestJobByVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("latest job: %v", err)
	}
	if latest == nil || latest.ID != second.ID {
		t.Fatalf("latest job = %+v, want id %d", latest, second.ID)
	}

	history, err := st.JobsByVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("job history: %v", err)
	}
	if len(history) != 2 || history[0].ID != second.ID || history[1].ID != first.ID {
		t.Fatalf("history order wrong: %+v", history)
	}
}

func TestAssetLedgerAppendOnlyOrdering(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	_, video := testsupport.SeedVideo(t, st, "Assets", store.ContentShort)
	ctx := context.Background()

	duration := 12.5
	for i, spec := range []struct {
		assetType store.AssetType
		name      string
		sortOrder int
	}{
		{store.AssetImage, "scene_002.png", 2},
		{store.AssetImage, "scene_001.png", 1},
		{store.AssetVideo, "raw.mp4", 0},
		{store.AssetVideo, "final.mp4", 1},
		{store.AssetAudio, "narration.mp3", 0},
	} {
		asset := &store.VideoAsset{
			VideoID:   video.ID,
			AssetType: spec.assetType,
			FilePath:  "/tmp/" + spec.name,
			FileName:  spec.name,
			FileSize:  int64(100 + i),
			SortOrder: spec.sortOrder,
		}
		if spec.assetType == store.AssetAudio {
			asset.DurationSeconds = &duration
		}
		if _, err := st.CreateAsset(ctx, asset); err != nil {
			t.Fatalf("create asset %s: %v", spec.name, err)
		}
	}

	images, err := st.AssetsByVideo(ctx, video.ID, store.AssetImage)
	if err != nil {
		t.Fatalf("query images: %v", err)
	}
	if len(images) != 2 || images[0].FileName != "scene_001.png" || images[1].FileName != "scene_002.png" {
		t.Fatalf("image ordering wrong: %+v", images)
	}

	latest, err := st.LatestAssetByType(ctx, video.ID, store.AssetVideo)
	if err != nil {
		t.Fatalf("latest video asset: %v", err)
	}
	if latest == nil || latest.FileName != "final.mp4" {
		t.Fatalf("latest video asset = %+v, want final.mp4", latest)
	}

	audio, err := st.AssetsByVideo(ctx, video.ID, store.AssetAudio)
	if err != nil {
		t.Fatalf("query audio: %v", err)
	}
	if len(audio) != 1 || audio[0].DurationSeconds == nil || *audio[0].DurationSeconds != duration {
		t.Fatalf("audio duration lost: %+v", audio)
	}

	count, err := st.CountAssets(ctx, video.ID)
	if err != nil {
		t.Fatalf("count assets: %v", err)
	}
	if count != 5 {
		t.Fatalf("asset count = %d, want 5", count)
	}
}

func TestProgressTableContract(t *testing.T) {
	want := map[store.Step]int{
		store.StepQueued:       0,
		store.StepScript:       10,
		store.StepAudio:        25,
		store.StepImagePrompts: 40,
		store.StepImages:       55,
		store.StepTimestamps:   70,
		store.StepAssembly:     85,
		store.StepCaptions:     95,
		store.StepDone:         100,
	}
	for step, progress := range want {
		if got := store.ProgressForStep(step); got != progress {
			t.Fatalf("ProgressForStep(%s) = %d, want %d", step, got, progress)
		}
	}

	order := store.StepOrder()
	last := -1
	for _, step := range order {
		progress := store.ProgressForStep(step)
		if progress < last {
			t.Fatalf("progress regressed at step %s: %d < %d", step, progress, last)
		}
		last = progress
	}
	if last != 100 {
		t.Fatalf("final step progress = %d, want 100", last)
	}
}

func TestContentTypeDimensions(t *testing.T) {
	if w, h := store.ContentShort.Dimensions(); w != 720 || h != 1280 {
		t.Fatalf("short dimensions = %dx%d", w, h)
	}
	if w, h := store.ContentLong.Dimensions(); w != 1280 || h != 720 {
		t.Fatalf("long dimensions = %dx%d", w, h)
	}
}
