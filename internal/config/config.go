package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains storage root configuration. Every stage derives its working
// directories from these roots; nothing in the pipeline hardcodes a path.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	OutputDir  string `toml:"output_dir"`
	LogDir     string `toml:"log_dir"`
	CacheDir   string `toml:"cache_dir"`
}

// TTS contains configuration for the speech synthesis engine.
type TTS struct {
	PiperBinary           string  `toml:"piper_binary"`
	PiperModel            string  `toml:"piper_model" env:"SHORTFORM_PIPER_MODEL"`
	Voice                 string  `toml:"voice"`
	BatchEnabled          bool    `toml:"batch_enabled"`
	MaxAttempts           int     `toml:"max_attempts"`
	RetryBackoffSeconds   int     `toml:"retry_backoff_seconds"`
	TimeoutSeconds        int     `toml:"timeout_seconds"`
	SpeakingRate          float64 `toml:"speaking_rate"`
	MinPlaceholderSeconds float64 `toml:"min_placeholder_seconds"`
	MaxPlaceholderSeconds float64 `toml:"max_placeholder_seconds"`
}

// Transcription contains configuration for word-level alignment via WhisperX.
type Transcription struct {
	Enabled        bool   `toml:"enabled"`
	Model          string `toml:"model"`
	CUDAEnabled    bool   `toml:"cuda_enabled"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Footage contains configuration for stock footage providers.
type Footage struct {
	PexelsAPIKey          string  `toml:"pexels_api_key" env:"SHORTFORM_PEXELS_API_KEY"`
	PexelsBaseURL         string  `toml:"pexels_base_url"`
	MaxCutSeconds         float64 `toml:"max_cut_seconds"`
	QueryConcurrency      int     `toml:"query_concurrency"`
	PerQueryLimit         int     `toml:"per_query_limit"`
	RequestTimeoutSeconds int     `toml:"request_timeout_seconds"`
}

// Render contains configuration for the external silent-video renderer and mux.
type Render struct {
	Command           string `toml:"command"`
	Style             string `toml:"style"`
	FrameRate         int    `toml:"frame_rate"`
	Width             int    `toml:"width"`
	Height            int    `toml:"height"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
	KeepIntermediates bool   `toml:"keep_intermediates"`
}

// Tools names the external binaries invoked by the pipeline.
type Tools struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	UVXBinary     string `toml:"uvx_binary"`
}

// Script contains segmentation tuning.
type Script struct {
	TargetChunkSeconds float64 `toml:"target_chunk_seconds"`
	SpeakingRate       float64 `toml:"speaking_rate"`
}

// Workflow contains configuration for queue processing intervals.
type Workflow struct {
	QueuePollInterval  int `toml:"queue_poll_interval"`
	ErrorRetryInterval int `toml:"error_retry_interval"`
	HeartbeatInterval  int `toml:"heartbeat_interval"`
	HeartbeatTimeout   int `toml:"heartbeat_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic" env:"SHORTFORM_NTFY_TOPIC"`
	RequestTimeout int    `toml:"request_timeout"`
}

// API contains configuration for the local HTTP status API.
type API struct {
	Bind  string `toml:"bind"`
	Token string `toml:"token" env:"SHORTFORM_API_TOKEN"`
}

// Config is the root configuration document.
type Config struct {
	Paths         Paths         `toml:"paths"`
	TTS           TTS           `toml:"tts"`
	Transcription Transcription `toml:"transcription"`
	Footage       Footage       `toml:"footage"`
	Render        Render        `toml:"render"`
	Tools         Tools         `toml:"tools"`
	Script        Script        `toml:"script"`
	Workflow      Workflow      `toml:"workflow"`
	Logging       Logging       `toml:"logging"`
	Notifications Notifications `toml:"notifications"`
	API           API           `toml:"api"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/shortform/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized, with environment
// variable overrides applied on top of the file contents.
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

	if err := env.Parse(&cfg); err != nil {
		return nil, "", false, fmt.Errorf("apply env overrides: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// EnsureDirectories creates the storage roots if they do not exist.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.OutputDir, c.Paths.LogDir, c.Paths.CacheDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(expanded); statErr == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return statErr
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, statErr := os.Stat(expanded)
		if statErr == nil {
			return expanded, true, nil
		}
		if errors.Is(statErr, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, statErr
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if _, statErr := os.Stat(defaultPath); statErr == nil {
		return defaultPath, true, nil
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return "", false, statErr
	}
	return defaultPath, false, nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		trimmed = filepath.Join(home, trimmed[2:])
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", trimmed, err)
	}
	return abs, nil
}
