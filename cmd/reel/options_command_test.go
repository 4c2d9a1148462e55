package main

import (
	"encoding/json"
	"testing"
)

func TestOptionsCommand(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	out, _, err := runCLI(t, env.configPath, "options")
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	requireContains(t, out, "low_quality")
	requireContains(t, out, "achernar")
	requireContains(t, out, "3blue1brown")
	requireContains(t, out, "gemini-2.5-pro")
}

func TestOptionsCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	out, _, err := runCLI(t, env.configPath, "options", "--json")
	if err != nil {
		t.Fatalf("options --json: %v", err)
	}
	var payload struct {
		Qualities []string          `json:"qualities"`
		Defaults  map[string]string `json:"defaults"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode options JSON: %v", err)
	}
	if len(payload.Qualities) != 4 {
		t.Fatalf("expected four qualities, got %v", payload.Qualities)
	}
	if payload.Defaults["voice"] != "achernar" {
		t.Fatalf("unexpected default voice: %v", payload.Defaults)
	}
}
