package pipeline

import (
	"context"

	"contentgen/internal/media/ffmpeg"
	"contentgen/internal/services/openai"
	"contentgen/internal/store"
	"contentgen/internal/subtitles"
)

// ScriptGenerator produces a scene-structured script from a video brief.
type ScriptGenerator interface {
	Configured() bool
	GenerateScript(ctx context.Context, req openai.ScriptRequest) (*openai.ScriptResult, error)
}

// PromptRefiner turns scene descriptions into image-generation prompts.
type PromptRefiner interface {
	Configured() bool
	RefinePrompts(ctx context.Context, scenes []store.Scene, style, niche string) ([]string, error)
}

// Transcriber returns word-level timestamps for a narration file.
type Transcriber interface {
	Configured() bool
	Transcribe(ctx context.Context, audioPath, lang string) (*subtitles.Transcript, error)
}

// SpeechSynthesizer renders narration text to MP3 audio.
type SpeechSynthesizer interface {
	Name() string
	Configured() bool
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// ImageGenerator renders one image per prompt.
type ImageGenerator interface {
	Name() string
	Configured() bool
	GenerateImage(ctx context.Context, prompt string, width, height int) ([]byte, error)
}

// ClipGenerator animates a still image into a short video clip.
type ClipGenerator interface {
	Name() string
	Configured() bool
	GenerateClip(ctx context.Context, imageData []byte, prompt string) ([]byte, error)
}

// Assembler renders the final video locally.
type Assembler interface {
	Name() string
	Slideshow(ctx context.Context, spec ffmpeg.SlideshowSpec) error
	BurnSubtitles(ctx context.Context, videoPath, srtPath, outputPath string, style ffmpeg.CaptionStyle) error
	Thumbnail(ctx context.Context, videoPath, outputPath string, offsetSeconds float64) error
	ConcatClips(ctx context.Context, clipPaths []string, listPath, outputPath string) error
	ReplaceAudio(ctx context.Context, videoPath, audioPath, outputPath string) error
	Duration(ctx context.Context, mediaPath string) (float64, error)
}

// Providers bundles every external service the pipeline can call. Optional
// entries may be nil; resolution falls back to whatever is configured.
type Providers struct {
	Script      ScriptGenerator
	Refiner     PromptRefiner
	Transcriber Transcriber

	MiniMaxTTS    SpeechSynthesizer
	ElevenLabsTTS SpeechSynthesizer

	MiniMaxImages   ImageGenerator
	ReplicateImages ImageGenerator

	MiniMaxVideo ClipGenerator
	Assembler    Assembler
}

const providerMiniMax = "minimax"

// resolveTTS picks the speech provider: the project's preference when it is
// minimax and configured, otherwise ElevenLabs.
func resolveTTS(preferred string, p Providers) SpeechSynthesizer {
	if preferred == providerMiniMax && p.MiniMaxTTS != nil && p.MiniMaxTTS.Configured() {
		return p.MiniMaxTTS
	}
	return p.ElevenLabsTTS
}

// resolveImages picks the image provider: minimax when preferred and
// configured, otherwise Replicate.
func resolveImages(preferred string, p Providers) ImageGenerator {
	if preferred == providerMiniMax && p.MiniMaxImages != nil && p.MiniMaxImages.Configured() {
		return p.MiniMaxImages
	}
	return p.ReplicateImages
}

// resolveVideo picks the clip generator when the project prefers minimax and
// it is configured; a nil result means the local slideshow assembler is used.
func resolveVideo(preferred string, p Providers) ClipGenerator {
	if preferred == providerMiniMax && p.MiniMaxVideo != nil && p.MiniMaxVideo.Configured() {
		return p.MiniMaxVideo
	}
	return nil
}
