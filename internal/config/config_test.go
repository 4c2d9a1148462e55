package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reel/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.DownloadDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[server]
base_url = "https://render.example.com"
idle_timeout = 30

[generation]
quality = "high_quality"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Server.BaseURL != "https://render.example.com" {
		t.Fatalf("base url = %q", cfg.Server.BaseURL)
	}
	if cfg.Generation.Quality != "high_quality" {
		t.Fatalf("quality = %q", cfg.Generation.Quality)
	}
	// Unset sections keep defaults.
	if cfg.Generation.Voice != "achernar" {
		t.Fatalf("voice = %q", cfg.Generation.Voice)
	}
}

func TestLoadRejectsUnknownQuality(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[generation]\nquality = \"ultra\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for quality outside the allowed set")
	}
}

func TestServerURLEnvOverride(t *testing.T) {
	t.Setenv("REEL_SERVER_URL", "https://override.example.com/")
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.BaseURL != "https://override.example.com" {
		t.Fatalf("base url = %q, want env override without trailing slash", cfg.Server.BaseURL)
	}
}

func TestWebSocketURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:8000", "ws://localhost:8000/ws/generate-full-animation"},
		{"https://render.example.com", "wss://render.example.com/ws/generate-full-animation"},
		{"https://render.example.com/manim", "wss://render.example.com/manim/ws/generate-full-animation"},
	}
	for _, tc := range tests {
		cfg := config.Default()
		cfg.Server.BaseURL = tc.base
		got, err := cfg.WebSocketURL()
		if err != nil {
			t.Fatalf("WebSocketURL(%q): %v", tc.base, err)
		}
		if got != tc.want {
			t.Fatalf("WebSocketURL(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}

func TestCreateSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[server]") {
		t.Fatal("sample config missing [server] section")
	}
}
