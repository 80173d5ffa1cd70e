// Package ffmpeg assembles slideshow videos, burns captions, concatenates
// clips, and probes media durations by shelling out to ffmpeg and ffprobe.
package ffmpeg

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"contentgen/internal/services"
)

const providerName = "ffmpeg"

// CommandRunner executes an external command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) (string, error)

func defaultRunner(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// Assembler renders videos with a local ffmpeg installation.
type Assembler struct {
	ffmpegBinary  string
	ffprobeBinary string
	fps           int
	run           CommandRunner
}

// Option customizes the assembler.
type Option func(*Assembler)

// WithRunner overrides command execution (useful for tests).
func WithRunner(run CommandRunner) Option {
	return func(a *Assembler) {
		if run != nil {
			a.run = run
		}
	}
}

// Config holds the external binary names and render settings.
type Config struct {
	FFmpegBinary  string
	FFprobeBinary string
	FPS           int
}

// NewAssembler constructs an assembler using the supplied configuration.
func NewAssembler(cfg Config, opts ...Option) *Assembler {
	a := &Assembler{
		ffmpegBinary:  strings.TrimSpace(cfg.FFmpegBinary),
		ffprobeBinary: strings.TrimSpace(cfg.FFprobeBinary),
		fps:           cfg.FPS,
		run:           defaultRunner,
	}
	if a.ffmpegBinary == "" {
		a.ffmpegBinary = "ffmpeg"
	}
	if a.ffprobeBinary == "" {
		a.ffprobeBinary = "ffprobe"
	}
	if a.fps <= 0 {
		a.fps = 30
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the provider identifier used in settings and logs.
func (a *Assembler) Name() string { return providerName }

// Configured always reports true: ffmpeg availability is checked at run time
// when the first command executes.
func (a *Assembler) Configured() bool { return a != nil }

// SlideshowSpec describes a Ken Burns slideshow render.
type SlideshowSpec struct {
	ImagePaths []string
	AudioPath  string
	OutputPath string
	Width      int
	Height     int
	// AudioDuration is the narration length in seconds; each image is held
	// for an equal share of it.
	AudioDuration float64
}

// Slideshow renders still images into a video with a slow Ken Burns zoom,
// paced to cover the narration audio, and muxes the narration in.
func (a *Assembler) Slideshow(ctx context.Context, spec SlideshowSpec) error {
	const op = "slideshow"
	if len(spec.ImagePaths) == 0 {
		return services.Wrap(services.ErrValidation, "", op, "at least one image required", nil)
	}
	if spec.AudioDuration <= 0 {
		return services.Wrap(services.ErrValidation, "", op, "audio duration must be positive", nil)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return services.Wrap(services.ErrValidation, "", op, "output dimensions required", nil)
	}

	perImage := spec.AudioDuration / float64(len(spec.ImagePaths))
	frames := int(math.Ceil(perImage * float64(a.fps)))
	if frames < 1 {
		frames = 1
	}

	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	for _, image := range spec.ImagePaths {
		args = append(args, "-loop", "1", "-t", formatSeconds(perImage), "-i", image)
	}
	args = append(args, "-i", spec.AudioPath)

	var filter strings.Builder
	for i := range spec.ImagePaths {
		// Upscale before zoompan so the pan has pixels to work with.
		fmt.Fprintf(&filter,
			"[%d:v]scale=%d:%d,zoompan=z='min(zoom+0.0005,1.1)':d=%d:s=%dx%d:fps=%d[v%d];",
			i, spec.Width*2, spec.Height*2, frames, spec.Width, spec.Height, a.fps, i)
	}
	for i := range spec.ImagePaths {
		fmt.Fprintf(&filter, "[v%d]", i)
	}
	fmt.Fprintf(&filter, "concat=n=%d:v=1:a=0[outv]", len(spec.ImagePaths))

	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "[outv]",
		"-map", fmt.Sprintf("%d:a", len(spec.ImagePaths)),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-shortest",
		spec.OutputPath,
	)
	return a.exec(ctx, op, args)
}

// BurnSubtitles renders the SRT captions into the video stream using the
// given style.
func (a *Assembler) BurnSubtitles(ctx context.Context, videoPath, srtPath, outputPath string, style CaptionStyle) error {
	const op = "burn_subtitles"
	filter := fmt.Sprintf("subtitles=%s:force_style='%s'", escapeFilterPath(srtPath), style.forceStyle())
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-vf", filter,
		"-c:a", "copy",
		outputPath,
	}
	return a.exec(ctx, op, args)
}

// Thumbnail extracts a single frame as a JPEG.
func (a *Assembler) Thumbnail(ctx context.Context, videoPath, outputPath string, offsetSeconds float64) error {
	const op = "thumbnail"
	if offsetSeconds < 0 {
		offsetSeconds = 0
	}
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-ss", formatSeconds(offsetSeconds),
		"-i", videoPath,
		"-vframes", "1",
		"-q:v", "2",
		outputPath,
	}
	return a.exec(ctx, op, args)
}

// ConcatClips joins clips losslessly using the concat demuxer. The list file
// is written next to the output and left on disk for inspection.
func (a *Assembler) ConcatClips(ctx context.Context, clipPaths []string, listPath, outputPath string) error {
	const op = "concat_clips"
	if len(clipPaths) == 0 {
		return services.Wrap(services.ErrValidation, "", op, "at least one clip required", nil)
	}

	var list strings.Builder
	for _, clip := range clipPaths {
		abs, err := filepath.Abs(clip)
		if err != nil {
			return fmt.Errorf("%s: resolve clip path: %w", op, err)
		}
		fmt.Fprintf(&list, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return fmt.Errorf("%s: write list file: %w", op, err)
	}

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outputPath,
	}
	return a.exec(ctx, op, args)
}

// ReplaceAudio swaps the audio track of a video for the narration without
// re-encoding the video stream.
func (a *Assembler) ReplaceAudio(ctx context.Context, videoPath, audioPath, outputPath string) error {
	const op = "replace_audio"
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v",
		"-map", "1:a",
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		outputPath,
	}
	return a.exec(ctx, op, args)
}

// Duration probes a media file and returns its duration in seconds.
func (a *Assembler) Duration(ctx context.Context, mediaPath string) (float64, error) {
	const op = "duration"
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		mediaPath,
	}
	output, err := a.run(ctx, a.ffprobeBinary, args...)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "", op,
			fmt.Sprintf("ffprobe failed: %s", strings.TrimSpace(output)), err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(output), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: parse ffprobe output %q: %w", op, strings.TrimSpace(output), err)
	}
	return duration, nil
}

func (a *Assembler) exec(ctx context.Context, op string, args []string) error {
	output, err := a.run(ctx, a.ffmpegBinary, args...)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "", op,
			fmt.Sprintf("ffmpeg failed: %s", strings.TrimSpace(output)), err)
	}
	return nil
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64)
}

// escapeFilterPath quotes characters that ffmpeg's filter parser treats
// specially inside the subtitles filter argument.
func escapeFilterPath(path string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`:`, `\:`,
		`'`, `\'`,
	)
	return replacer.Replace(path)
}
