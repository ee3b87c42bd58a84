package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	if err := c.validateFootage(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StagingDir == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateTTS() error {
	if c.TTS.MaxAttempts < 1 {
		return errors.New("tts.max_attempts must be at least 1")
	}
	if c.TTS.MinPlaceholderSeconds > c.TTS.MaxPlaceholderSeconds {
		return fmt.Errorf("tts.min_placeholder_seconds (%v) must not exceed tts.max_placeholder_seconds (%v)",
			c.TTS.MinPlaceholderSeconds, c.TTS.MaxPlaceholderSeconds)
	}
	return nil
}

func (c *Config) validateFootage() error {
	if c.Footage.MaxCutSeconds <= 0 {
		return errors.New("footage.max_cut_seconds must be positive")
	}
	if c.Footage.QueryConcurrency < 1 {
		return errors.New("footage.query_concurrency must be at least 1")
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.FrameRate < 1 {
		return errors.New("render.frame_rate must be at least 1")
	}
	if c.Render.Width < 2 || c.Render.Height < 2 {
		return errors.New("render.width and render.height must be at least 2")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.QueuePollInterval < 1 {
		return errors.New("workflow.queue_poll_interval must be at least 1 second")
	}
	if c.Workflow.HeartbeatTimeout <= c.Workflow.HeartbeatInterval {
		return errors.New("workflow.heartbeat_timeout must exceed workflow.heartbeat_interval")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
	return nil
}
