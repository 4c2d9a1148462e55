package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains connection settings for the animation generation service.
type Server struct {
	BaseURL        string `toml:"base_url"`
	RequestTimeout int    `toml:"request_timeout"`
	IdleTimeout    int    `toml:"idle_timeout"`
}

// Generation contains default request values and the closed sets of values
// the service accepts for each of them.
type Generation struct {
	Quality string `toml:"quality"`
	Voice   string `toml:"voice"`
	Theme   string `toml:"theme"`
	Model   string `toml:"model"`

	Qualities []string `toml:"qualities"`
	Voices    []string `toml:"voices"`
	Themes    []string `toml:"themes"`
	Models    []string `toml:"models"`
}

// Paths contains local directory configuration.
type Paths struct {
	DataDir     string `toml:"data_dir"`
	DownloadDir string `toml:"download_dir"`
	LogDir      string `toml:"log_dir"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reel.
//
// Configuration sections by subsystem:
//   - Server: generation service endpoint and timeouts
//   - Generation: default quality/voice/theme/model and allowed values
//   - Paths: session history, download, and log directories
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Server        Server        `toml:"server"`
	Generation    Generation    `toml:"generation"`
	Paths         Paths         `toml:"paths"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
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

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the tool writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.DownloadDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// WebSocketURL returns the generation session endpoint derived from the
// configured base URL.
func (c *Config) WebSocketURL() (string, error) {
	parsed, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse server.base_url: %w", err)
	}
	switch parsed.Scheme {
	case "http", "ws":
		parsed.Scheme = "ws"
	case "https", "wss":
		parsed.Scheme = "wss"
	default:
		return "", fmt.Errorf("server.base_url: unsupported scheme %q", parsed.Scheme)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/ws/generate-full-animation"
	return parsed.String(), nil
}

// RequestTimeout returns the HTTP request timeout for upload and download calls.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeout) * time.Second
}

// IdleTimeout returns the session idle timeout. Zero disables the timeout.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeout) * time.Second
}

// ExpandPath expands ~ references and returns an absolute path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
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
		return "", fmt.Errorf("resolve path %q: %w", trimmed, err)
	}
	return abs, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
