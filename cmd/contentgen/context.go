package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"contentgen/internal/config"
	"contentgen/internal/logging"
	"contentgen/internal/media/ffmpeg"
	"contentgen/internal/pipeline"
	"contentgen/internal/services/elevenlabs"
	"contentgen/internal/services/minimax"
	"contentgen/internal/services/openai"
	"contentgen/internal/services/replicate"
	"contentgen/internal/storage"
	"contentgen/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// openStore opens the SQLite store; callers own the Close.
func (c *commandContext) openStore() (*store.Store, *config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return st, cfg, nil
}

// buildRunner wires every provider client from config. Unconfigured
// providers are constructed anyway; resolution skips them at run time.
func buildRunner(cfg *config.Config, st *store.Store, logger *slog.Logger) *pipeline.Runner {
	openaiClient := openai.NewClient(openai.Config{
		APIKey:          cfg.OpenAI.APIKey,
		BaseURL:         cfg.OpenAI.BaseURL,
		Model:           cfg.OpenAI.Model,
		TranscribeModel: cfg.OpenAI.TranscribeModel,
		TimeoutSeconds:  cfg.OpenAI.TimeoutSeconds,
	})
	elevenClient := elevenlabs.NewClient(elevenlabs.Config{
		APIKey:         cfg.ElevenLabs.APIKey,
		BaseURL:        cfg.ElevenLabs.BaseURL,
		ModelID:        cfg.ElevenLabs.ModelID,
		TimeoutSeconds: cfg.ElevenLabs.TimeoutSeconds,
	})
	minimaxClient := minimax.NewClient(minimax.Config{
		APIKey:              cfg.MiniMax.APIKey,
		GroupID:             cfg.MiniMax.GroupID,
		BaseURL:             cfg.MiniMax.BaseURL,
		TTSModel:            cfg.MiniMax.TTSModel,
		ImageModel:          cfg.MiniMax.ImageModel,
		VideoModel:          cfg.MiniMax.VideoModel,
		PollIntervalSeconds: cfg.MiniMax.PollIntervalSeconds,
		PollMaxAttempts:     cfg.MiniMax.PollMaxAttempts,
		TimeoutSeconds:      cfg.MiniMax.TimeoutSeconds,
	})
	replicateClient := replicate.NewClient(replicate.Config{
		APIToken:            cfg.Replicate.APIToken,
		BaseURL:             cfg.Replicate.BaseURL,
		ImageVersion:        cfg.Replicate.ImageVersion,
		PollIntervalSeconds: cfg.Replicate.PollIntervalSeconds,
		PollMaxAttempts:     cfg.Replicate.PollMaxAttempts,
		TimeoutSeconds:      cfg.Replicate.TimeoutSeconds,
	})
	assembler := ffmpeg.NewAssembler(ffmpeg.Config{
		FFmpegBinary:  cfg.FFmpeg.FFmpegBinary,
		FFprobeBinary: cfg.FFmpeg.FFprobeBinary,
		FPS:           cfg.FFmpeg.FPS,
	})

	providers := pipeline.Providers{
		Script:          openaiClient,
		Refiner:         openaiClient,
		Transcriber:     openaiClient,
		MiniMaxTTS:      minimaxClient,
		ElevenLabsTTS:   elevenClient,
		MiniMaxImages:   minimaxClient,
		ReplicateImages: replicateClient,
		MiniMaxVideo:    minimaxClient,
		Assembler:       assembler,
	}
	layout := storage.NewLayout(cfg.VideosDir())
	return pipeline.NewRunner(st, layout, providers, logger, pipeline.Options{
		CaptionWordsPerLine:    cfg.Pipeline.CaptionWordsPerLine,
		ThumbnailOffsetSeconds: cfg.Pipeline.ThumbnailOffsetSeconds,
	})
}

func newLogger(cfg *config.Config) *slog.Logger {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return logging.NewNop()
	}
	return logger
}
