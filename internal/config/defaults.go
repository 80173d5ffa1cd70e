package config

const (
	defaultStorageRoot = "~/.local/share/contentgen/storage"
	defaultLogDir      = "~/.local/share/contentgen/logs"

	defaultOpenAIBaseURL         = "https://api.openai.com/v1"
	defaultOpenAIModel           = "gpt-4o-mini"
	defaultOpenAITranscribeModel = "whisper-1"
	defaultOpenAITimeoutSeconds  = 120

	defaultElevenLabsBaseURL        = "https://api.elevenlabs.io"
	defaultElevenLabsModelID        = "eleven_multilingual_v2"
	defaultElevenLabsTimeoutSeconds = 120

	defaultMiniMaxBaseURL             = "https://api.minimax.io/v1"
	defaultMiniMaxTTSModel            = "speech-02-hd"
	defaultMiniMaxImageModel          = "image-01"
	defaultMiniMaxVideoModel          = "I2V-01-Director"
	defaultMiniMaxPollIntervalSeconds = 5
	defaultMiniMaxPollMaxAttempts     = 120
	defaultMiniMaxTimeoutSeconds      = 120

	defaultReplicateBaseURL             = "https://api.replicate.com/v1"
	defaultReplicateImageVersion        = "black-forest-labs/flux-schnell"
	defaultReplicatePollIntervalSeconds = 2
	defaultReplicatePollMaxAttempts     = 60
	defaultReplicateTimeoutSeconds      = 120

	defaultFFmpegBinary         = "ffmpeg"
	defaultFFprobeBinary        = "ffprobe"
	defaultFFmpegFPS            = 30
	defaultFFmpegTimeoutSeconds = 1800

	defaultCaptionWordsPerLine    = 4
	defaultThumbnailOffsetSeconds = 2.0

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StorageRoot: defaultStorageRoot,
			LogDir:      defaultLogDir,
		},
		OpenAI: OpenAI{
			BaseURL:         defaultOpenAIBaseURL,
			Model:           defaultOpenAIModel,
			TranscribeModel: defaultOpenAITranscribeModel,
			TimeoutSeconds:  defaultOpenAITimeoutSeconds,
		},
		ElevenLabs: ElevenLabs{
			BaseURL:        defaultElevenLabsBaseURL,
			ModelID:        defaultElevenLabsModelID,
			TimeoutSeconds: defaultElevenLabsTimeoutSeconds,
		},
		MiniMax: MiniMax{
			BaseURL:             defaultMiniMaxBaseURL,
			TTSModel:            defaultMiniMaxTTSModel,
			ImageModel:          defaultMiniMaxImageModel,
			VideoModel:          defaultMiniMaxVideoModel,
			PollIntervalSeconds: defaultMiniMaxPollIntervalSeconds,
			PollMaxAttempts:     defaultMiniMaxPollMaxAttempts,
			TimeoutSeconds:      defaultMiniMaxTimeoutSeconds,
		},
		Replicate: Replicate{
			BaseURL:             defaultReplicateBaseURL,
			ImageVersion:        defaultReplicateImageVersion,
			PollIntervalSeconds: defaultReplicatePollIntervalSeconds,
			PollMaxAttempts:     defaultReplicatePollMaxAttempts,
			TimeoutSeconds:      defaultReplicateTimeoutSeconds,
		},
		FFmpeg: FFmpeg{
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
			FPS:            defaultFFmpegFPS,
			TimeoutSeconds: defaultFFmpegTimeoutSeconds,
		},
		Pipeline: Pipeline{
			CaptionWordsPerLine:    defaultCaptionWordsPerLine,
			ThumbnailOffsetSeconds: defaultThumbnailOffsetSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
