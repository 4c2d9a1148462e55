package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

type cliTestEnv struct {
	server     *fakeGenerationServer
	configPath string
	baseDir    string
}

// fakeGenerationServer speaks the service's HTTP and WebSocket surface:
// a PDF upload endpoint, the generation channel, and static artifact files.
type fakeGenerationServer struct {
	t        *testing.T
	events   []map[string]any
	upgrader websocket.Upgrader

	mu     sync.Mutex
	starts []map[string]any
}

func (f *fakeGenerationServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/generate-full-animation", func(w http.ResponseWriter, r *http.Request) {
		conn, err := f.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var start map[string]any
		if err := conn.ReadJSON(&start); err != nil {
			return
		}
		f.mu.Lock()
		f.starts = append(f.starts, start)
		f.mu.Unlock()

		for _, event := range f.events {
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	})
	mux.HandleFunc("/upload-pdf", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": "bad upload"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "success", "path": "/uploads/paper.pdf"})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "artifact-data")
	})
	return mux
}

func (f *fakeGenerationServer) lastStart(t *testing.T) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.starts) == 0 {
		t.Fatal("no start message received")
	}
	return f.starts[len(f.starts)-1]
}

func setupCLITestEnv(t *testing.T, events []map[string]any) *cliTestEnv {
	t.Helper()

	fake := &fakeGenerationServer{t: t, events: events}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[server]
base_url = %q

[paths]
data_dir = %q
download_dir = %q
log_dir = %q
`, srv.URL, filepath.Join(base, "data"), filepath.Join(base, "downloads"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{server: fake, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got %q", want, output)
	}
}

func completedEvents() []map[string]any {
	return []map[string]any{
		{"status": "progress", "stage": "Script", "message": "Writing script"},
		{"status": "progress", "stage": "Render", "message": "Rendering scenes", "script": "scene one"},
		{
			"status":        "completed",
			"message":       "Animation ready",
			"script":        "scene one",
			"narration":     "narration text",
			"tts_audio_url": "/media/narration.wav",
			"output_file":   "/media/out.mp4",
			"image_components": []map[string]string{
				{"path": "/media/img1.png", "description": "figure"},
			},
		},
	}
}

func TestGenerateRunsSessionToCompletion(t *testing.T) {
	env := setupCLITestEnv(t, completedEvents())

	out, _, err := runCLI(t, env.configPath, "generate", "pythagorean", "theorem")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	requireContains(t, out, "Writing script")
	requireContains(t, out, "Animation ready")
	requireContains(t, out, "Video: /media/out.mp4")
	requireContains(t, out, "Narration audio: /media/narration.wav")

	start := env.server.lastStart(t)
	if start["type"] != "start" {
		t.Fatalf("expected start message, got %v", start)
	}
	if start["topic"] != "pythagorean theorem" {
		t.Fatalf("unexpected topic: %v", start["topic"])
	}
	if start["quality"] != "low_quality" {
		t.Fatalf("expected configured default quality, got %v", start["quality"])
	}

	out, _, err = runCLI(t, env.configPath, "sessions", "list")
	if err != nil {
		t.Fatalf("sessions list: %v", err)
	}
	requireContains(t, out, "pythagorean theorem")
	requireContains(t, out, "completed")
}

func TestGenerateReportsServerError(t *testing.T) {
	env := setupCLITestEnv(t, []map[string]any{
		{"status": "progress", "stage": "Script", "message": "Writing script"},
		{"status": "error", "message": "model quota exhausted"},
	})

	_, _, err := runCLI(t, env.configPath, "generate", "entropy")
	if err == nil {
		t.Fatal("expected generate to fail")
	}
	if !strings.Contains(err.Error(), "model quota exhausted") {
		t.Fatalf("expected server failure message, got %v", err)
	}

	out, _, listErr := runCLI(t, env.configPath, "sessions", "list")
	if listErr != nil {
		t.Fatalf("sessions list: %v", listErr)
	}
	requireContains(t, out, "errored")
}

func TestGenerateJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t, completedEvents())

	out, _, err := runCLI(t, env.configPath, "generate", "--json", "derivatives")
	if err != nil {
		t.Fatalf("generate --json: %v", err)
	}
	var view struct {
		Status    string
		OutputURL string
	}
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode JSON output: %v\noutput: %q", err, out)
	}
	if view.Status != "completed" {
		t.Fatalf("expected completed status, got %q", view.Status)
	}
	if view.OutputURL != "/media/out.mp4" {
		t.Fatalf("unexpected output url: %q", view.OutputURL)
	}
}

func TestGenerateUploadsPDFBeforeStart(t *testing.T) {
	env := setupCLITestEnv(t, completedEvents())

	pdfPath := filepath.Join(env.baseDir, "paper.pdf")
	if err := os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}

	_, _, err := runCLI(t, env.configPath, "generate", "--pdf", pdfPath)
	if err != nil {
		t.Fatalf("generate --pdf: %v", err)
	}

	start := env.server.lastStart(t)
	if start["pdf_path"] != "/uploads/paper.pdf" {
		t.Fatalf("expected uploaded server path in start message, got %v", start["pdf_path"])
	}
}

func TestGenerateRejectsMissingInput(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	_, _, err := runCLI(t, env.configPath, "generate")
	if err == nil {
		t.Fatal("expected generate without input to fail")
	}
}

func TestGenerateRejectsUnknownQuality(t *testing.T) {
	env := setupCLITestEnv(t, nil)

	_, _, err := runCLI(t, env.configPath, "generate", "--quality", "ultra", "entropy")
	if err == nil {
		t.Fatal("expected unknown quality to fail")
	}
	if !strings.Contains(err.Error(), "quality") {
		t.Fatalf("expected quality in error, got %v", err)
	}
}

func TestGenerateDownloadsArtifacts(t *testing.T) {
	env := setupCLITestEnv(t, completedEvents())

	out, _, err := runCLI(t, env.configPath, "generate", "--download", "fourier", "series")
	if err != nil {
		t.Fatalf("generate --download: %v", err)
	}
	requireContains(t, out, "Saved ")

	saved := filepath.Join(env.baseDir, "downloads", "FourierSeries", "out.mp4")
	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("read downloaded artifact: %v", err)
	}
	if string(data) != "artifact-data" {
		t.Fatalf("unexpected artifact payload: %q", data)
	}
}
