package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateGeneration(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	parsed, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("server.base_url: %w", err)
	}
	switch parsed.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("server.base_url must use http, https, ws, or wss (got %q)", c.Server.BaseURL)
	}
	if parsed.Host == "" {
		return errors.New("server.base_url must include a host")
	}
	return nil
}

func (c *Config) validateGeneration() error {
	gen := c.Generation
	if err := validateChoice("generation.quality", gen.Quality, gen.Qualities); err != nil {
		return err
	}
	if err := validateChoice("generation.voice", gen.Voice, gen.Voices); err != nil {
		return err
	}
	if err := validateChoice("generation.theme", gen.Theme, gen.Themes); err != nil {
		return err
	}
	return validateChoice("generation.model", gen.Model, gen.Models)
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}

func validateChoice(key, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%s: %q is not one of %v", key, value, allowed)
}
