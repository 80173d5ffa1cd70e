package store

import (
	"strings"
	"time"
)

// VideoStatus represents the coarse lifecycle of a video record.
type VideoStatus string

const (
	VideoPending          VideoStatus = "pending"
	VideoScriptGenerated  VideoStatus = "script_generated"
	VideoAudioGenerating  VideoStatus = "audio_generating"
	VideoImagesGenerating VideoStatus = "images_generating"
	VideoImagesDone       VideoStatus = "images_done"
	VideoGenerating       VideoStatus = "video_generating"
	VideoAssembling       VideoStatus = "video_assembling"
	VideoDone             VideoStatus = "done"
	VideoError            VideoStatus = "error"
)

var allVideoStatuses = []VideoStatus{
	VideoPending,
	VideoScriptGenerated,
	VideoAudioGenerating,
	VideoImagesGenerating,
	VideoImagesDone,
	VideoGenerating,
	VideoAssembling,
	VideoDone,
	VideoError,
}

// AllVideoStatuses returns the ordered list of known video statuses.
func AllVideoStatuses() []VideoStatus {
	cp := make([]VideoStatus, len(allVideoStatuses))
	copy(cp, allVideoStatuses)
	return cp
}

// ParseVideoStatus converts a string into a known VideoStatus.
func ParseVideoStatus(value string) (VideoStatus, bool) {
	normalized := VideoStatus(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allVideoStatuses {
		if status == normalized {
			return status, true
		}
	}
	return "", false
}

// JobStatus represents the lifecycle of a generation job.
type JobStatus string

const (
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Terminal reports whether a job status is final.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// Step identifies one state of the generation pipeline state machine.
type Step string

const (
	StepQueued       Step = "queued"
	StepScript       Step = "script"
	StepAudio        Step = "audio"
	StepImagePrompts Step = "image_prompts"
	StepImages       Step = "images"
	StepTimestamps   Step = "timestamps"
	StepAssembly     Step = "assembly"
	StepCaptions     Step = "captions"
	StepDone         Step = "done"
)

// stepProgress is the fixed step to percentage table. Polling clients rely
// on these exact values.
var stepProgress = map[Step]int{
	StepQueued:       0,
	StepScript:       10,
	StepAudio:        25,
	StepImagePrompts: 40,
	StepImages:       55,
	StepTimestamps:   70,
	StepAssembly:     85,
	StepCaptions:     95,
	StepDone:         100,
}

// ProgressForStep returns the fixed progress percentage for a pipeline step.
// Unknown steps map to 0.
func ProgressForStep(step Step) int {
	return stepProgress[step]
}

// StepOrder returns the pipeline steps in execution order, queued first and
// done last.
func StepOrder() []Step {
	return []Step{
		StepQueued,
		StepScript,
		StepAudio,
		StepImagePrompts,
		StepImages,
		StepTimestamps,
		StepAssembly,
		StepCaptions,
		StepDone,
	}
}

// AssetType categorizes generated files in the asset ledger.
type AssetType string

const (
	AssetAudio     AssetType = "audio"
	AssetImage     AssetType = "image"
	AssetVideo     AssetType = "video"
	AssetSubtitle  AssetType = "subtitle"
	AssetThumbnail AssetType = "thumbnail"
)

// ContentType selects output orientation: short-form portrait or
// long-form landscape.
type ContentType string

const (
	ContentShort ContentType = "short"
	ContentLong  ContentType = "long"
)

// Dimensions returns the output width and height for the content type.
func (c ContentType) Dimensions() (width, height int) {
	if c == ContentLong {
		return 1280, 720
	}
	return 720, 1280
}

// Scene is one narrated beat of a video. SceneNumber is 1-based and stable:
// scenes are never reordered once persisted, and asset sort order matches it.
type Scene struct {
	SceneNumber       int    `json:"sceneNumber"`
	Narration         string `json:"narration"`
	VisualDescription string `json:"visualDescription"`
	ImagePrompt       string `json:"imagePrompt,omitempty"`
}

// SceneData is the structured script attached to a video.
type SceneData struct {
	Title  string  `json:"title"`
	Scenes []Scene `json:"scenes"`
}

// Video is a single piece of content moving through the pipeline.
type Video struct {
	ID           int64
	ProjectID    int64
	Title        string
	Description  string
	Script       string
	ContentType  ContentType
	SceneData    *SceneData
	Status       VideoStatus
	VideoURL     string
	ThumbnailURL string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasScenes reports whether scene data with at least one scene is present.
func (v *Video) HasScenes() bool {
	return v != nil && v.SceneData != nil && len(v.SceneData.Scenes) > 0
}

// Project groups videos under a shared niche and platform.
type Project struct {
	ID             int64
	Name           string
	Niche          string
	Description    string
	TargetPlatform string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProjectSettings selects providers and styling per project. Settings are
// loaded once at pipeline start and treated as immutable for that run.
type ProjectSettings struct {
	ID              int64
	ProjectID       int64
	TTSProvider     string
	TTSVoiceID      string
	ImageProvider   string
	ImageModel      string
	ImageStyle      string
	VideoProvider   string
	VideoModel      string
	CaptionColor    string
	CaptionBgColor  string
	CaptionPosition string
	ContentLanguage string
	CreativeContext string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GenerationJob records one pipeline run for a video. A video accumulates a
// job history across retries; the most recently created row is the current one.
type GenerationJob struct {
	ID           int64
	VideoID      int64
	Status       JobStatus
	CurrentStep  Step
	Progress     int
	ErrorMessage string
	Metadata     map[string]any
	StartedAt    time.Time
	CompletedAt  *time.Time
	CreatedAt    time.Time
}

// JobUpdate is a partial update applied to a generation job. Nil fields are
// left untouched.
type JobUpdate struct {
	Status       *JobStatus
	CurrentStep  *Step
	Progress     *int
	ErrorMessage *string
	Metadata     map[string]any
}

// VideoAsset is one persisted output file. Asset rows are append-only: stages
// create new rows and never mutate or delete existing ones.
type VideoAsset struct {
	ID              int64
	VideoID         int64
	AssetType       AssetType
	FilePath        string
	FileName        string
	FileSize        int64
	MimeType        string
	DurationSeconds *float64
	SortOrder       int
	Metadata        map[string]any
	CreatedAt       time.Time
}
