package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDownloadCommand(t *testing.T) {
	env := setupCLITestEnv(t, nil)
	dest := t.TempDir()

	out, _, err := runCLI(t, env.configPath, "download", "/media/out.mp4", "--dest", dest)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	requireContains(t, out, "Saved ")

	data, err := os.ReadFile(filepath.Join(dest, "out.mp4"))
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "artifact-data" {
		t.Fatalf("unexpected payload: %q", data)
	}
}
