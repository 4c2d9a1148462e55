package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reel/internal/config"
)

const userAgent = "reel/0.1.0"

// Service defines the notification surface for session outcomes.
type Service interface {
	NotifyGenerationCompleted(ctx context.Context, title, outputFile string) error
	NotifyGenerationFailed(ctx context.Context, title, reason string) error
	NotifyGenerationCancelled(ctx context.Context, title string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyGenerationCompleted(ctx context.Context, title, outputFile string) error {
	title = strings.TrimSpace(title)
	message := fmt.Sprintf("Animation ready: %s", title)
	if outputFile = strings.TrimSpace(outputFile); outputFile != "" {
		message = fmt.Sprintf("Animation ready: %s (%s)", title, outputFile)
	}
	data := payload{
		title:   "Reel - Completed",
		message: message,
		tags:    []string{"reel", "generation", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyGenerationFailed(ctx context.Context, title, reason string) error {
	title = strings.TrimSpace(title)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unknown error"
	}
	data := payload{
		title:    "Reel - Failed",
		message:  fmt.Sprintf("Generation failed: %s (%s)", title, reason),
		tags:     []string{"reel", "generation", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyGenerationCancelled(ctx context.Context, title string) error {
	data := payload{
		title:   "Reel - Cancelled",
		message: fmt.Sprintf("Generation cancelled: %s", strings.TrimSpace(title)),
		tags:    []string{"reel", "generation", "cancelled"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:   "Reel - Test",
		message: "Test notification from reel",
		tags:    []string{"reel", "test"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyGenerationCompleted(context.Context, string, string) error { return nil }
func (noopService) NotifyGenerationFailed(context.Context, string, string) error    { return nil }
func (noopService) NotifyGenerationCancelled(context.Context, string) error         { return nil }
func (noopService) TestNotification(context.Context) error                          { return nil }
