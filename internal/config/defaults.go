package config

const (
	defaultStagingDir            = "~/.local/share/shortform/staging"
	defaultOutputDir             = "~/videos/shortform"
	defaultLogDir                = "~/.local/share/shortform/logs"
	defaultCacheDir              = "~/.cache/shortform"
	defaultPiperBinary           = "piper"
	defaultPiperModel            = "en_US-lessac-medium"
	defaultTTSMaxAttempts        = 3
	defaultTTSRetryBackoff       = 1
	defaultTTSTimeoutSeconds     = 120
	defaultSpeakingRate          = 2.5
	defaultMinPlaceholderSeconds = 1.0
	defaultMaxPlaceholderSeconds = 10.0
	defaultWhisperModel          = "small"
	defaultTranscribeTimeout     = 300
	defaultPexelsBaseURL         = "https://api.pexels.com/videos"
	defaultMaxCutSeconds         = 5.0
	defaultQueryConcurrency      = 3
	defaultPerQueryLimit         = 3
	defaultFootageTimeout        = 30
	defaultRenderStyle           = "bold"
	defaultFrameRate             = 30
	defaultFrameWidth            = 1080
	defaultFrameHeight           = 1920
	defaultRenderTimeout         = 600
	defaultFFmpegBinary          = "ffmpeg"
	defaultFFprobeBinary         = "ffprobe"
	defaultUVXBinary             = "uvx"
	defaultTargetChunkSeconds    = 7.0
	defaultQueuePollInterval     = 5
	defaultErrorRetryInterval    = 10
	defaultHeartbeatInterval     = 15
	defaultHeartbeatTimeout      = 120
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultNotifyRequestTimeout  = 10
	defaultAPIBind               = "127.0.0.1:7733"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
			CacheDir:   defaultCacheDir,
		},
		TTS: TTS{
			PiperBinary:           defaultPiperBinary,
			PiperModel:            defaultPiperModel,
			BatchEnabled:          true,
			MaxAttempts:           defaultTTSMaxAttempts,
			RetryBackoffSeconds:   defaultTTSRetryBackoff,
			TimeoutSeconds:        defaultTTSTimeoutSeconds,
			SpeakingRate:          defaultSpeakingRate,
			MinPlaceholderSeconds: defaultMinPlaceholderSeconds,
			MaxPlaceholderSeconds: defaultMaxPlaceholderSeconds,
		},
		Transcription: Transcription{
			Enabled:        true,
			Model:          defaultWhisperModel,
			TimeoutSeconds: defaultTranscribeTimeout,
		},
		Footage: Footage{
			PexelsBaseURL:         defaultPexelsBaseURL,
			MaxCutSeconds:         defaultMaxCutSeconds,
			QueryConcurrency:      defaultQueryConcurrency,
			PerQueryLimit:         defaultPerQueryLimit,
			RequestTimeoutSeconds: defaultFootageTimeout,
		},
		Render: Render{
			Style:          defaultRenderStyle,
			FrameRate:      defaultFrameRate,
			Width:          defaultFrameWidth,
			Height:         defaultFrameHeight,
			TimeoutSeconds: defaultRenderTimeout,
		},
		Tools: Tools{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			UVXBinary:     defaultUVXBinary,
		},
		Script: Script{
			TargetChunkSeconds: defaultTargetChunkSeconds,
			SpeakingRate:       defaultSpeakingRate,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
			HeartbeatInterval:  defaultHeartbeatInterval,
			HeartbeatTimeout:   defaultHeartbeatTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		API: API{
			Bind: defaultAPIBind,
		},
	}
}
