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
	c.normalizeTTS()
	c.normalizeTranscription()
	c.normalizeFootage()
	c.normalizeRender()
	c.normalizeTools()
	c.normalizeScript()
	c.normalizeLogging()
	c.normalizeAPI()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTTS() {
	c.TTS.PiperBinary = strings.TrimSpace(c.TTS.PiperBinary)
	if c.TTS.PiperBinary == "" {
		c.TTS.PiperBinary = defaultPiperBinary
	}
	c.TTS.PiperModel = strings.TrimSpace(c.TTS.PiperModel)
	c.TTS.Voice = strings.TrimSpace(c.TTS.Voice)
	if c.TTS.MaxAttempts <= 0 {
		c.TTS.MaxAttempts = defaultTTSMaxAttempts
	}
	if c.TTS.RetryBackoffSeconds <= 0 {
		c.TTS.RetryBackoffSeconds = defaultTTSRetryBackoff
	}
	if c.TTS.TimeoutSeconds <= 0 {
		c.TTS.TimeoutSeconds = defaultTTSTimeoutSeconds
	}
	if c.TTS.SpeakingRate <= 0 {
		c.TTS.SpeakingRate = defaultSpeakingRate
	}
	if c.TTS.MinPlaceholderSeconds <= 0 {
		c.TTS.MinPlaceholderSeconds = defaultMinPlaceholderSeconds
	}
	if c.TTS.MaxPlaceholderSeconds <= 0 {
		c.TTS.MaxPlaceholderSeconds = defaultMaxPlaceholderSeconds
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultWhisperModel
	}
	if c.Transcription.TimeoutSeconds <= 0 {
		c.Transcription.TimeoutSeconds = defaultTranscribeTimeout
	}
}

func (c *Config) normalizeFootage() {
	c.Footage.PexelsAPIKey = strings.TrimSpace(c.Footage.PexelsAPIKey)
	if c.Footage.PexelsAPIKey == "" {
		if value, ok := os.LookupEnv("PEXELS_API_KEY"); ok {
			c.Footage.PexelsAPIKey = strings.TrimSpace(value)
		}
	}
	c.Footage.PexelsBaseURL = strings.TrimSpace(c.Footage.PexelsBaseURL)
	if c.Footage.PexelsBaseURL == "" {
		c.Footage.PexelsBaseURL = defaultPexelsBaseURL
	}
	if c.Footage.MaxCutSeconds <= 0 {
		c.Footage.MaxCutSeconds = defaultMaxCutSeconds
	}
	if c.Footage.QueryConcurrency <= 0 {
		c.Footage.QueryConcurrency = defaultQueryConcurrency
	}
	if c.Footage.PerQueryLimit <= 0 {
		c.Footage.PerQueryLimit = defaultPerQueryLimit
	}
	if c.Footage.RequestTimeoutSeconds <= 0 {
		c.Footage.RequestTimeoutSeconds = defaultFootageTimeout
	}
}

func (c *Config) normalizeRender() {
	c.Render.Command = strings.TrimSpace(c.Render.Command)
	c.Render.Style = strings.TrimSpace(c.Render.Style)
	if c.Render.Style == "" {
		c.Render.Style = defaultRenderStyle
	}
	if c.Render.FrameRate <= 0 {
		c.Render.FrameRate = defaultFrameRate
	}
	if c.Render.Width <= 0 {
		c.Render.Width = defaultFrameWidth
	}
	if c.Render.Height <= 0 {
		c.Render.Height = defaultFrameHeight
	}
	if c.Render.TimeoutSeconds <= 0 {
		c.Render.TimeoutSeconds = defaultRenderTimeout
	}
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpegBinary = strings.TrimSpace(c.Tools.FFmpegBinary)
	if c.Tools.FFmpegBinary == "" {
		c.Tools.FFmpegBinary = defaultFFmpegBinary
	}
	c.Tools.FFprobeBinary = strings.TrimSpace(c.Tools.FFprobeBinary)
	if c.Tools.FFprobeBinary == "" {
		c.Tools.FFprobeBinary = defaultFFprobeBinary
	}
	c.Tools.UVXBinary = strings.TrimSpace(c.Tools.UVXBinary)
	if c.Tools.UVXBinary == "" {
		c.Tools.UVXBinary = defaultUVXBinary
	}
}

func (c *Config) normalizeScript() {
	if c.Script.TargetChunkSeconds <= 0 {
		c.Script.TargetChunkSeconds = defaultTargetChunkSeconds
	}
	if c.Script.SpeakingRate <= 0 {
		c.Script.SpeakingRate = defaultSpeakingRate
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	c.API.Token = strings.TrimSpace(c.API.Token)
}
