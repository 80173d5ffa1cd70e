package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOpenAI()
	c.normalizeElevenLabs()
	c.normalizeMiniMax()
	c.normalizeReplicate()
	c.normalizeFFmpeg()
	c.normalizePipeline()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StorageRoot) == "" {
		c.Paths.StorageRoot = defaultStorageRoot
	}
	if c.Paths.StorageRoot, err = expandPath(c.Paths.StorageRoot); err != nil {
		return fmt.Errorf("paths.storage_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOpenAI() {
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	if c.OpenAI.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.OpenAI.APIKey = strings.TrimSpace(value)
		}
	}
	c.OpenAI.BaseURL = strings.TrimRight(strings.TrimSpace(c.OpenAI.BaseURL), "/")
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = defaultOpenAIBaseURL
	}
	c.OpenAI.Model = strings.TrimSpace(c.OpenAI.Model)
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = defaultOpenAIModel
	}
	c.OpenAI.TranscribeModel = strings.TrimSpace(c.OpenAI.TranscribeModel)
	if c.OpenAI.TranscribeModel == "" {
		c.OpenAI.TranscribeModel = defaultOpenAITranscribeModel
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = defaultOpenAITimeoutSeconds
	}
}

func (c *Config) normalizeElevenLabs() {
	c.ElevenLabs.APIKey = strings.TrimSpace(c.ElevenLabs.APIKey)
	if c.ElevenLabs.APIKey == "" {
		if value, ok := os.LookupEnv("ELEVENLABS_API_KEY"); ok {
			c.ElevenLabs.APIKey = strings.TrimSpace(value)
		}
	}
	c.ElevenLabs.BaseURL = strings.TrimRight(strings.TrimSpace(c.ElevenLabs.BaseURL), "/")
	if c.ElevenLabs.BaseURL == "" {
		c.ElevenLabs.BaseURL = defaultElevenLabsBaseURL
	}
	c.ElevenLabs.ModelID = strings.TrimSpace(c.ElevenLabs.ModelID)
	if c.ElevenLabs.ModelID == "" {
		c.ElevenLabs.ModelID = defaultElevenLabsModelID
	}
	if c.ElevenLabs.TimeoutSeconds <= 0 {
		c.ElevenLabs.TimeoutSeconds = defaultElevenLabsTimeoutSeconds
	}
}

func (c *Config) normalizeMiniMax() {
	c.MiniMax.APIKey = strings.TrimSpace(c.MiniMax.APIKey)
	if c.MiniMax.APIKey == "" {
		if value, ok := os.LookupEnv("MINIMAX_API_KEY"); ok {
			c.MiniMax.APIKey = strings.TrimSpace(value)
		}
	}
	c.MiniMax.GroupID = strings.TrimSpace(c.MiniMax.GroupID)
	if c.MiniMax.GroupID == "" {
		if value, ok := os.LookupEnv("MINIMAX_GROUP_ID"); ok {
			c.MiniMax.GroupID = strings.TrimSpace(value)
		}
	}
	c.MiniMax.BaseURL = strings.TrimRight(strings.TrimSpace(c.MiniMax.BaseURL), "/")
	if c.MiniMax.BaseURL == "" {
		c.MiniMax.BaseURL = defaultMiniMaxBaseURL
	}
	c.MiniMax.TTSModel = strings.TrimSpace(c.MiniMax.TTSModel)
	if c.MiniMax.TTSModel == "" {
		c.MiniMax.TTSModel = defaultMiniMaxTTSModel
	}
	c.MiniMax.ImageModel = strings.TrimSpace(c.MiniMax.ImageModel)
	if c.MiniMax.ImageModel == "" {
		c.MiniMax.ImageModel = defaultMiniMaxImageModel
	}
	c.MiniMax.VideoModel = strings.TrimSpace(c.MiniMax.VideoModel)
	if c.MiniMax.VideoModel == "" {
		c.MiniMax.VideoModel = defaultMiniMaxVideoModel
	}
	if c.MiniMax.PollIntervalSeconds <= 0 {
		c.MiniMax.PollIntervalSeconds = defaultMiniMaxPollIntervalSeconds
	}
	if c.MiniMax.PollMaxAttempts <= 0 {
		c.MiniMax.PollMaxAttempts = defaultMiniMaxPollMaxAttempts
	}
	if c.MiniMax.TimeoutSeconds <= 0 {
		c.MiniMax.TimeoutSeconds = defaultMiniMaxTimeoutSeconds
	}
}

func (c *Config) normalizeReplicate() {
	c.Replicate.APIToken = strings.TrimSpace(c.Replicate.APIToken)
	if c.Replicate.APIToken == "" {
		if value, ok := os.LookupEnv("REPLICATE_API_TOKEN"); ok {
			c.Replicate.APIToken = strings.TrimSpace(value)
		}
	}
	c.Replicate.BaseURL = strings.TrimRight(strings.TrimSpace(c.Replicate.BaseURL), "/")
	if c.Replicate.BaseURL == "" {
		c.Replicate.BaseURL = defaultReplicateBaseURL
	}
	c.Replicate.ImageVersion = strings.TrimSpace(c.Replicate.ImageVersion)
	if c.Replicate.ImageVersion == "" {
		c.Replicate.ImageVersion = defaultReplicateImageVersion
	}
	if c.Replicate.PollIntervalSeconds <= 0 {
		c.Replicate.PollIntervalSeconds = defaultReplicatePollIntervalSeconds
	}
	if c.Replicate.PollMaxAttempts <= 0 {
		c.Replicate.PollMaxAttempts = defaultReplicatePollMaxAttempts
	}
	if c.Replicate.TimeoutSeconds <= 0 {
		c.Replicate.TimeoutSeconds = defaultReplicateTimeoutSeconds
	}
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.FFmpegBinary = strings.TrimSpace(c.FFmpeg.FFmpegBinary)
	if c.FFmpeg.FFmpegBinary == "" {
		c.FFmpeg.FFmpegBinary = defaultFFmpegBinary
	}
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	if c.FFmpeg.FFprobeBinary == "" {
		c.FFmpeg.FFprobeBinary = defaultFFprobeBinary
	}
	if c.FFmpeg.FPS <= 0 {
		c.FFmpeg.FPS = defaultFFmpegFPS
	}
	if c.FFmpeg.TimeoutSeconds <= 0 {
		c.FFmpeg.TimeoutSeconds = defaultFFmpegTimeoutSeconds
	}
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.CaptionWordsPerLine <= 0 {
		c.Pipeline.CaptionWordsPerLine = defaultCaptionWordsPerLine
	}
	if c.Pipeline.ThumbnailOffsetSeconds < 0 {
		c.Pipeline.ThumbnailOffsetSeconds = defaultThumbnailOffsetSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
