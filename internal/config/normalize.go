package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeServer(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGeneration()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeServer() error {
	if value, ok := os.LookupEnv("REEL_SERVER_URL"); ok && strings.TrimSpace(value) != "" {
		c.Server.BaseURL = value
	}
	c.Server.BaseURL = strings.TrimRight(strings.TrimSpace(c.Server.BaseURL), "/")
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = defaultBaseURL
	}
	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = defaultRequestTimeout
	}
	if c.Server.IdleTimeout < 0 {
		c.Server.IdleTimeout = 0
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(valueOr(c.Paths.DataDir, defaultDataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.DownloadDir, err = expandPath(valueOr(c.Paths.DownloadDir, defaultDownloadDir)); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(valueOr(c.Paths.LogDir, defaultLogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeGeneration() {
	gen := &c.Generation
	gen.Quality = strings.ToLower(strings.TrimSpace(gen.Quality))
	gen.Voice = strings.ToLower(strings.TrimSpace(gen.Voice))
	gen.Theme = strings.ToLower(strings.TrimSpace(gen.Theme))
	gen.Model = strings.ToLower(strings.TrimSpace(gen.Model))
	if gen.Quality == "" {
		gen.Quality = defaultQuality
	}
	if gen.Voice == "" {
		gen.Voice = defaultVoice
	}
	if gen.Theme == "" {
		gen.Theme = defaultTheme
	}
	if gen.Model == "" {
		gen.Model = defaultModel
	}
	if len(gen.Qualities) == 0 {
		gen.Qualities = defaultQualities()
	}
	if len(gen.Voices) == 0 {
		gen.Voices = defaultVoices()
	}
	if len(gen.Themes) == 0 {
		gen.Themes = defaultThemes()
	}
	if len(gen.Models) == 0 {
		gen.Models = defaultModels()
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
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

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
