package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reel/internal/config"
	"reel/internal/notifications"
)

func TestNoopWithoutTopic(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyGenerationCompleted(context.Background(), "derivatives", "/output/x.mp4"); err != nil {
		t.Fatalf("noop service returned error: %v", err)
	}
}

func TestCompletedNotification(t *testing.T) {
	var gotTitle, gotBody, gotTags string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
		gotTags = r.Header.Get("Tags")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	if err := svc.NotifyGenerationCompleted(context.Background(), "derivatives", "/output/x.mp4"); err != nil {
		t.Fatalf("NotifyGenerationCompleted: %v", err)
	}
	if gotTitle != "Reel - Completed" {
		t.Fatalf("title = %q", gotTitle)
	}
	if !strings.Contains(gotBody, "derivatives") || !strings.Contains(gotBody, "/output/x.mp4") {
		t.Fatalf("body = %q", gotBody)
	}
	if !strings.Contains(gotTags, "completed") {
		t.Fatalf("tags = %q", gotTags)
	}
}

func TestFailedNotificationUsesHighPriority(t *testing.T) {
	var gotPriority string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPriority = r.Header.Get("Priority")
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	if err := svc.NotifyGenerationFailed(context.Background(), "derivatives", "render failed"); err != nil {
		t.Fatalf("NotifyGenerationFailed: %v", err)
	}
	if gotPriority != "high" {
		t.Fatalf("priority = %q", gotPriority)
	}
}

func TestSendReportsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
