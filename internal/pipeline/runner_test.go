package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contentgen/internal/config"
	"contentgen/internal/media/ffmpeg"
	"contentgen/internal/pipeline"
	"contentgen/internal/services"
	"contentgen/internal/services/openai"
	"contentgen/internal/storage"
	"contentgen/internal/store"
	"contentgen/internal/subtitles"
	"contentgen/internal/testsupport"
)

type fakeScript struct {
	calls  int
	scenes []store.Scene
	err    error
}

func (f *fakeScript) Configured() bool { return true }

func (f *fakeScript) GenerateScript(ctx context.Context, req openai.ScriptRequest) (*openai.ScriptResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var narration []string
	for _, scene := range f.scenes {
		narration = append(narration, scene.Narration)
	}
	return &openai.ScriptResult{
		SceneData:  store.SceneData{Title: req.Title, Scenes: f.scenes},
		FullScript: strings.Join(narration, "\n\n"),
		TokensUsed: 42,
	}, nil
}

type fakeRefiner struct {
	prompts []string
	err     error
}

func (f *fakeRefiner) Configured() bool { return true }

func (f *fakeRefiner) RefinePrompts(ctx context.Context, scenes []store.Scene, style, niche string) ([]string, error) {
	return f.prompts, f.err
}

type fakeTranscriber struct {
	configured bool
	transcript *subtitles.Transcript
	err        error
}

func (f *fakeTranscriber) Configured() bool { return f.configured }

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath, lang string) (*subtitles.Transcript, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.transcript, f.err
}

type fakeTTS struct {
	name       string
	configured bool
	calls      int
	err        error
}

func (f *fakeTTS) Name() string     { return f.name }
func (f *fakeTTS) Configured() bool { return f.configured }

func (f *fakeTTS) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp3-bytes"), nil
}

type fakeImages struct {
	name       string
	configured bool
	calls      int
	failAll    bool
	failScenes map[int]bool
}

func (f *fakeImages) Name() string     { return f.name }
func (f *fakeImages) Configured() bool { return f.configured }

func (f *fakeImages) GenerateImage(ctx context.Context, prompt string, width, height int) ([]byte, error) {
	f.calls++
	if f.failAll || f.failScenes[f.calls] {
		return nil, services.NewProviderError(f.name, 500, "generation failed")
	}
	return []byte("png-bytes"), nil
}

type fakeClips struct {
	name       string
	configured bool
	calls      int
	err        error
}

func (f *fakeClips) Name() string     { return f.name }
func (f *fakeClips) Configured() bool { return f.configured }

func (f *fakeClips) GenerateClip(ctx context.Context, imageData []byte, prompt string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp4-bytes"), nil
}

// fakeAssembler writes marker files where ffmpeg would render output.
type fakeAssembler struct {
	duration   float64
	slideshows int
	burns      int
	concats    int
	replaces   int
	thumbErr   error
}

func (f *fakeAssembler) Name() string { return "ffmpeg" }

func (f *fakeAssembler) Slideshow(ctx context.Context, spec ffmpeg.SlideshowSpec) error {
	f.slideshows++
	return os.WriteFile(spec.OutputPath, []byte("raw-video"), 0o644)
}

func (f *fakeAssembler) BurnSubtitles(ctx context.Context, videoPath, srtPath, outputPath string, style ffmpeg.CaptionStyle) error {
	f.burns++
	return os.WriteFile(outputPath, []byte("final-video"), 0o644)
}

func (f *fakeAssembler) Thumbnail(ctx context.Context, videoPath, outputPath string, offsetSeconds float64) error {
	if f.thumbErr != nil {
		return f.thumbErr
	}
	return os.WriteFile(outputPath, []byte("jpg"), 0o644)
}

func (f *fakeAssembler) ConcatClips(ctx context.Context, clipPaths []string, listPath, outputPath string) error {
	f.concats++
	if err := os.WriteFile(listPath, []byte("list"), 0o644); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte("concat-video"), 0o644)
}

func (f *fakeAssembler) ReplaceAudio(ctx context.Context, videoPath, audioPath, outputPath string) error {
	f.replaces++
	return os.WriteFile(outputPath, []byte("raw-video"), 0o644)
}

func (f *fakeAssembler) Duration(ctx context.Context, mediaPath string) (float64, error) {
	return f.duration, nil
}

type fixture struct {
	cfg       *config.Config
	store     *store.Store
	layout    *storage.Layout
	runner    *pipeline.Runner
	script    *fakeScript
	tts       *fakeTTS
	images    *fakeImages
	assembler *fakeAssembler
	providers pipeline.Providers
}

func defaultScenes() []store.Scene {
	return []store.Scene{
		{SceneNumber: 1, Narration: "Wake up early every day.", VisualDescription: "a sunrise over a city"},
		{SceneNumber: 2, Narration: "Drink a glass of water.", VisualDescription: "a glass of water on a table"},
		{SceneNumber: 3, Narration: "Stretch for five minutes.", VisualDescription: "a person stretching"},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	layout := storage.NewLayout(cfg.VideosDir())

	f := &fixture{
		cfg:       cfg,
		store:     st,
		layout:    layout,
		script:    &fakeScript{scenes: defaultScenes()},
		tts:       &fakeTTS{name: "elevenlabs", configured: true},
		images:    &fakeImages{name: "replicate", configured: true},
		assembler: &fakeAssembler{duration: 8},
	}
	f.providers = pipeline.Providers{
		Script:          f.script,
		ElevenLabsTTS:   f.tts,
		ReplicateImages: f.images,
		Assembler:       f.assembler,
	}
	f.rebuild(t)
	return f
}

func (f *fixture) rebuild(t *testing.T) {
	t.Helper()
	f.runner = pipeline.NewRunner(f.store, f.layout, f.providers, nil, pipeline.Options{
		CaptionWordsPerLine:    4,
		ThumbnailOffsetSeconds: 2,
	})
}

func TestRunEndToEndSlideshow(t *testing.T) {
	f := newFixture(t)
	_, video := testsupport.SeedVideo(t, f.store, "Morning Routine", store.ContentShort)

	result := f.runner.Run(context.Background(), video.ID)
	if result.Err != nil {
		t.Fatalf("Run: %v", result.Err)
	}
	if !result.Success {
		t.Fatal("result not successful")
	}

	ctx := context.Background()
	updated, err := f.store.GetVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("get video: %v", err)
	}
	if updated.Status != store.VideoDone {
		t.Fatalf("status = %s, want done", updated.Status)
	}
	wantURL := fmt.Sprintf("/videos/%d/video/final.mp4", video.ID)
	if updated.VideoURL != wantURL {
		t.Fatalf("video url = %q, want %q", updated.VideoURL, wantURL)
	}
	if updated.ThumbnailURL == "" {
		t.Fatal("thumbnail url not set")
	}
	if !updated.HasScenes() || len(updated.SceneData.Scenes) != 3 {
		t.Fatalf("scene data = %+v", updated.SceneData)
	}
	for _, scene := range updated.SceneData.Scenes {
		if scene.ImagePrompt == "" {
			t.Fatalf("scene %d has no image prompt", scene.SceneNumber)
		}
	}

	job, err := f.store.GetJob(ctx, result.JobID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if job.Status != store.JobCompleted || job.Progress != 100 || job.CurrentStep != store.StepDone {
		t.Fatalf("job = %+v", job)
	}
	if job.CompletedAt == nil {
		t.Fatal("completedAt not stamped")
	}
	if job.Metadata["wordCount"] == nil || job.Metadata["audioDuration"] == nil {
		t.Fatalf("metadata = %+v", job.Metadata)
	}

	for _, rel := range []string{
		filepath.Join("audio", "narration.mp3"),
		filepath.Join("images", "scene_001.png"),
		filepath.Join("images", "scene_002.png"),
		filepath.Join("images", "scene_003.png"),
		filepath.Join("subtitles", "transcript.json"),
		filepath.Join("subtitles", "captions.srt"),
		filepath.Join("video", "raw.mp4"),
		filepath.Join("video", "final.mp4"),
		filepath.Join("thumbnails", "thumb.jpg"),
	} {
		path := filepath.Join(f.layout.VideoDir(video.ID), rel)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing asset file %s: %v", rel, err)
		}
	}

	report, err := f.runner.Status(ctx, video.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(report.Assets[store.AssetImage]) != 3 {
		t.Fatalf("image assets = %d", len(report.Assets[store.AssetImage]))
	}
	for _, asset := range report.Assets[store.AssetImage] {
		prompt, _ := asset.Metadata["prompt"].(string)
		if prompt == "" {
			t.Fatalf("image asset %s has no prompt metadata: %+v", asset.FileName, asset.Metadata)
		}
	}
	if len(report.Assets[store.AssetVideo]) != 2 {
		t.Fatalf("video assets = %d (want raw + final)", len(report.Assets[store.AssetVideo]))
	}
	if report.TotalAssets != 8 {
		t.Fatalf("total assets = %d", report.TotalAssets)
	}
	if f.assembler.slideshows != 1 || f.assembler.burns != 1 {
		t.Fatalf("assembler calls = %+v", f.assembler)
	}
}

func TestRunRerunRegeneratesAndAppends(t *testing.T) {
	f := newFixture(t)
	_, video := testsupport.SeedVideo(t, f.store, "Rerun", store.ContentShort)
	ctx := context.Background()

	if result := f.runner.Run(ctx, video.ID); result.Err != nil {
		t.Fatalf("first run: %v", result.Err)
	}
	firstAssets, err := f.store.AssetsByVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("assets: %v", err)
	}

	if result := f.runner.Run(ctx, video.ID); result.Err != nil {
		t.Fatalf("second run: %v", result.Err)
	}

	// Scene data survives, so only the script stage is skipped; everything
	// downstream regenerates from scratch.
	if f.script.calls != 1 {
		t.Fatalf("script calls = %d, want 1 (scene data persisted)", f.script.calls)
	}
	if f.tts.calls != 2 {
		t.Fatalf("tts calls = %d, want 2", f.tts.calls)
	}
	if f.images.calls != 6 {
		t.Fatalf("image calls = %d, want 6", f.images.calls)
	}
	if f.assembler.slideshows != 2 || f.assembler.burns != 2 {
		t.Fatalf("assembler calls = %+v", f.assembler)
	}

	// The ledger is append-only: first-run rows survive and each rerun
	// appends new rows for every regenerated file.
	secondAssets, err := f.store.AssetsByVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("assets: %v", err)
	}
	surviving := make(map[int64]bool, len(secondAssets))
	byName := make(map[string]int, len(secondAssets))
	for _, asset := range secondAssets {
		surviving[asset.ID] = true
		byName[asset.FileName]++
	}
	for _, asset := range firstAssets {
		if !surviving[asset.ID] {
			t.Fatalf("asset %d removed by rerun", asset.ID)
		}
	}
	for _, name := range []string{"narration.mp3", "raw.mp4", "final.mp4", "captions.srt"} {
		if byName[name] != 2 {
			t.Fatalf("%s rows = %d, want 2 after two runs", name, byName[name])
		}
	}
	if byName["scene_001.png"] != 2 {
		t.Fatalf("scene_001.png rows = %d, want 2", byName["scene_001.png"])
	}

	jobs, err := f.store.JobsByVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("job history = %d, want 2", len(jobs))
	}
}

func TestRunPartialImageFailureTolerated(t *testing.T) {
	f := newFixture(t)
	f.images.failScenes = map[int]bool{2: true}
	_, video := testsupport.SeedVideo(t, f.store, "Partial", store.ContentShort)

	result := f.runner.Run(context.Background(), video.ID)
	if result.Err != nil {
		t.Fatalf("Run: %v", result.Err)
	}
	report, err := f.runner.Status(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(report.Assets[store.AssetImage]) != 2 {
		t.Fatalf("image assets = %d, want 2", len(report.Assets[store.AssetImage]))
	}
	if report.Video.Status != store.VideoDone {
		t.Fatalf("status = %s", report.Video.Status)
	}
}

func TestRunAllImagesFailFatal(t *testing.T) {
	f := newFixture(t)
	f.images.failAll = true
	_, video := testsupport.SeedVideo(t, f.store, "Doomed", store.ContentShort)

	result := f.runner.Run(context.Background(), video.ID)
	if result.Err == nil {
		t.Fatal("expected failure")
	}
	if !errors.Is(result.Err, services.ErrProvider) {
		t.Fatalf("err = %v, want ErrProvider", result.Err)
	}

	ctx := context.Background()
	video2, err := f.store.GetVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("get video: %v", err)
	}
	if video2.Status != store.VideoError || video2.ErrorMessage == "" {
		t.Fatalf("video = %+v", video2)
	}

	job, err := f.store.GetJob(ctx, result.JobID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if job.Status != store.JobFailed || job.ErrorMessage == "" {
		t.Fatalf("job = %+v", job)
	}
	if job.CurrentStep != store.StepImages || job.Progress != store.ProgressForStep(store.StepImages) {
		t.Fatalf("failure position = %s/%d", job.CurrentStep, job.Progress)
	}
	if job.CompletedAt == nil {
		t.Fatal("failed job should stamp completedAt")
	}
}

func TestRunTTSFallbackToElevenLabs(t *testing.T) {
	f := newFixture(t)
	unconfigured := &fakeTTS{name: "minimax", configured: false}
	f.providers.MiniMaxTTS = unconfigured
	f.rebuild(t)

	_, video := testsupport.SeedVideo(t, f.store, "Fallback", store.ContentShort)
	ctx := context.Background()
	settings, err := f.store.SettingsForProject(ctx, video.ProjectID)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	settings.TTSProvider = "minimax"
	if err := f.store.UpdateSettings(ctx, settings); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	if result := f.runner.Run(ctx, video.ID); result.Err != nil {
		t.Fatalf("Run: %v", result.Err)
	}
	if unconfigured.calls != 0 {
		t.Fatalf("unconfigured minimax called %d times", unconfigured.calls)
	}
	if f.tts.calls != 1 {
		t.Fatalf("elevenlabs calls = %d, want 1", f.tts.calls)
	}
}

func TestRunMiniMaxClipPath(t *testing.T) {
	f := newFixture(t)
	clips := &fakeClips{name: "minimax", configured: true}
	f.providers.MiniMaxVideo = clips
	f.rebuild(t)

	_, video := testsupport.SeedVideo(t, f.store, "Clips", store.ContentShort)
	ctx := context.Background()
	settings, err := f.store.SettingsForProject(ctx, video.ProjectID)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	settings.VideoProvider = "minimax"
	if err := f.store.UpdateSettings(ctx, settings); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	if result := f.runner.Run(ctx, video.ID); result.Err != nil {
		t.Fatalf("Run: %v", result.Err)
	}
	// One clip per scene image; -shortest trims the video to the narration.
	if clips.calls != 3 {
		t.Fatalf("clip calls = %d, want 3", clips.calls)
	}
	if f.assembler.concats != 1 || f.assembler.replaces != 1 {
		t.Fatalf("assembler calls = %+v", f.assembler)
	}
	if f.assembler.slideshows != 0 {
		t.Fatal("slideshow should not run on the clip path")
	}
	for _, name := range []string{"clip_001.mp4", "clip_002.mp4", "clip_003.mp4", "concat.mp4", "raw.mp4"} {
		path := f.layout.AssetPath(video.ID, storage.SubdirVideo, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestRunUnconfiguredTranscriberFallsBackToEstimator(t *testing.T) {
	f := newFixture(t)
	f.providers.Transcriber = &fakeTranscriber{configured: false}
	f.rebuild(t)

	_, video := testsupport.SeedVideo(t, f.store, "Estimated", store.ContentShort)
	result := f.runner.Run(context.Background(), video.ID)
	if result.Err != nil {
		t.Fatalf("Run: %v", result.Err)
	}

	data, err := os.ReadFile(f.layout.AssetPath(video.ID, storage.SubdirSubtitles, storage.TranscriptFile))
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	if !strings.Contains(string(data), `"estimated": true`) {
		t.Fatalf("transcript not marked estimated: %s", data)
	}
}

func TestRunTranscriberErrorFailsTimestampsStage(t *testing.T) {
	f := newFixture(t)
	f.providers.Transcriber = &fakeTranscriber{configured: true, err: errors.New("whisper unavailable")}
	f.rebuild(t)

	_, video := testsupport.SeedVideo(t, f.store, "BadWhisper", store.ContentShort)
	result := f.runner.Run(context.Background(), video.ID)
	if result.Err == nil {
		t.Fatal("expected transcription failure to fail the run")
	}

	job, err := f.store.GetJob(context.Background(), result.JobID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if job.Status != store.JobFailed || job.CurrentStep != store.StepTimestamps {
		t.Fatalf("job = %+v", job)
	}
}

func TestRunRefinerBackfillsByIndex(t *testing.T) {
	f := newFixture(t)
	// Refiner returns two prompts for three scenes; the third is backfilled.
	f.providers.Refiner = &fakeRefiner{prompts: []string{"refined one", "refined two"}}
	f.rebuild(t)

	_, video := testsupport.SeedVideo(t, f.store, "Backfill", store.ContentShort)
	if result := f.runner.Run(context.Background(), video.ID); result.Err != nil {
		t.Fatalf("Run: %v", result.Err)
	}

	updated, err := f.store.GetVideo(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("get video: %v", err)
	}
	scenes := updated.SceneData.Scenes
	if scenes[0].ImagePrompt != "refined one" || scenes[1].ImagePrompt != "refined two" {
		t.Fatalf("refined prompts = %q, %q", scenes[0].ImagePrompt, scenes[1].ImagePrompt)
	}
	if scenes[2].ImagePrompt == "" || !strings.Contains(scenes[2].ImagePrompt, "a person stretching") {
		t.Fatalf("backfilled prompt = %q", scenes[2].ImagePrompt)
	}
}

func TestRunThumbnailFailureSwallowed(t *testing.T) {
	f := newFixture(t)
	f.assembler.thumbErr = errors.New("no keyframe")
	_, video := testsupport.SeedVideo(t, f.store, "NoThumb", store.ContentShort)

	result := f.runner.Run(context.Background(), video.ID)
	if result.Err != nil {
		t.Fatalf("Run: %v", result.Err)
	}
	report, err := f.runner.Status(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(report.Assets[store.AssetThumbnail]) != 0 {
		t.Fatal("thumbnail asset recorded despite failure")
	}
	if report.Video.Status != store.VideoDone {
		t.Fatalf("status = %s", report.Video.Status)
	}
}

func TestRunVideoNotFound(t *testing.T) {
	f := newFixture(t)
	result := f.runner.Run(context.Background(), 9999)
	if !errors.Is(result.Err, services.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", result.Err)
	}
}

func TestStatusBeforeAnyRun(t *testing.T) {
	f := newFixture(t)
	_, video := testsupport.SeedVideo(t, f.store, "Fresh", store.ContentShort)

	report, err := f.runner.Status(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if report.Job != nil {
		t.Fatalf("job = %+v, want nil", report.Job)
	}
	if report.TotalAssets != 0 {
		t.Fatalf("total assets = %d", report.TotalAssets)
	}
	if report.Video.Status != store.VideoPending {
		t.Fatalf("status = %s", report.Video.Status)
	}
}
