package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StorageRoot string `toml:"storage_root"`
	LogDir      string `toml:"log_dir"`
}

// OpenAI contains configuration for script generation, prompt refinement,
// and word-level transcription.
type OpenAI struct {
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url"`
	Model           string `toml:"model"`
	TranscribeModel string `toml:"transcribe_model"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// ElevenLabs contains configuration for the default text-to-speech provider.
type ElevenLabs struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	ModelID        string `toml:"model_id"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// MiniMax contains configuration for the MiniMax TTS, image, and
// image-to-video APIs.
type MiniMax struct {
	APIKey              string `toml:"api_key"`
	GroupID             string `toml:"group_id"`
	BaseURL             string `toml:"base_url"`
	TTSModel            string `toml:"tts_model"`
	ImageModel          string `toml:"image_model"`
	VideoModel          string `toml:"video_model"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	PollMaxAttempts     int    `toml:"poll_max_attempts"`
	TimeoutSeconds      int    `toml:"timeout_seconds"`
}

// Replicate contains configuration for FLUX image generation.
type Replicate struct {
	APIToken            string `toml:"api_token"`
	BaseURL             string `toml:"base_url"`
	ImageVersion        string `toml:"image_version"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	PollMaxAttempts     int    `toml:"poll_max_attempts"`
	TimeoutSeconds      int    `toml:"timeout_seconds"`
}

// FFmpeg contains configuration for local media assembly.
type FFmpeg struct {
	FFmpegBinary   string `toml:"ffmpeg_binary"`
	FFprobeBinary  string `toml:"ffprobe_binary"`
	FPS            int    `toml:"fps"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Pipeline contains tuning knobs for the generation pipeline itself.
type Pipeline struct {
	CaptionWordsPerLine    int     `toml:"caption_words_per_line"`
	ThumbnailOffsetSeconds float64 `toml:"thumbnail_offset_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for contentgen.
//
// Configuration sections by subsystem:
//   - Paths: storage root (assets + database) and log directory
//   - OpenAI: script generation, image-prompt refinement, transcription
//   - ElevenLabs: default text-to-speech provider
//   - MiniMax: alternate TTS, image generation, image-to-video generation
//   - Replicate: default image generation provider
//   - FFmpeg: local slideshow assembly, subtitle burn-in, thumbnails
//   - Pipeline: caption grouping and thumbnail tuning
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	OpenAI     OpenAI     `toml:"openai"`
	ElevenLabs ElevenLabs `toml:"elevenlabs"`
	MiniMax    MiniMax    `toml:"minimax"`
	Replicate  Replicate  `toml:"replicate"`
	FFmpeg     FFmpeg     `toml:"ffmpeg"`
	Pipeline   Pipeline   `toml:"pipeline"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/contentgen/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("contentgen.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for pipeline operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StorageRoot, c.VideosDir(), c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// VideosDir returns the directory holding per-video asset trees.
func (c *Config) VideosDir() string {
	return filepath.Join(c.Paths.StorageRoot, "videos")
}

// DatabasePath returns the SQLite database location under the storage root.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.StorageRoot, "contentgen.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
