package config

import (
	"errors"
	"strings"
)

// Validate ensures the configuration is usable. Provider credentials are
// optional here: each provider reports its own configured state and the
// pipeline resolves fallbacks at stage start.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMiniMax(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	return c.validatePipeline()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StorageRoot) == "" {
		return errors.New("paths.storage_root must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateMiniMax() error {
	if c.MiniMax.APIKey != "" && c.MiniMax.GroupID == "" {
		return errors.New("minimax.group_id must be set when minimax.api_key is set (or set MINIMAX_GROUP_ID)")
	}
	if c.MiniMax.PollIntervalSeconds <= 0 {
		return errors.New("minimax.poll_interval_seconds must be positive")
	}
	if c.MiniMax.PollMaxAttempts <= 0 {
		return errors.New("minimax.poll_max_attempts must be positive")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if strings.TrimSpace(c.FFmpeg.FFmpegBinary) == "" {
		return errors.New("ffmpeg.ffmpeg_binary must be set")
	}
	if strings.TrimSpace(c.FFmpeg.FFprobeBinary) == "" {
		return errors.New("ffmpeg.ffprobe_binary must be set")
	}
	if c.FFmpeg.FPS <= 0 {
		return errors.New("ffmpeg.fps must be positive")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.CaptionWordsPerLine <= 0 {
		return errors.New("pipeline.caption_words_per_line must be positive")
	}
	return nil
}
