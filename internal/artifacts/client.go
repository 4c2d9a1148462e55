package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const userAgent = "reel/0.1.0"

// Client fetches artifact URIs the generation service reports: the final
// video, the narration audio, and generated images. URIs are opaque; the
// client resolves relative ones against the service base URL and streams the
// content to disk without validating it.
type Client struct {
	base       *url.URL
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates an artifact client for the service at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errors.New("artifact base url required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse artifact base url: %w", err)
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := &Client{
		base:       parsed,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Resolve returns the absolute URL for an artifact URI.
func (c *Client) Resolve(uri string) (string, error) {
	trimmed := strings.TrimSpace(uri)
	if trimmed == "" {
		return "", errors.New("artifact uri required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse artifact uri %q: %w", uri, err)
	}
	return c.base.ResolveReference(parsed).String(), nil
}

// Fetch downloads an artifact into destDir and returns the local file path.
// The file lands under its server-side base name; a partial download never
// replaces an existing file.
func (c *Client) Fetch(ctx context.Context, uri, destDir string) (string, error) {
	resolved, err := c.Resolve(uri)
	if err != nil {
		return "", err
	}

	name := path.Base(strings.TrimRight(uri, "/"))
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("artifact uri %q has no file name", uri)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
	if err != nil {
		return "", fmt.Errorf("build artifact request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch artifact: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("artifact fetch returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	tmp, err := os.CreateTemp(destDir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("create download file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close artifact file: %w", err)
	}

	finalPath := filepath.Join(destDir, name)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("finalize artifact file: %w", err)
	}
	return finalPath, nil
}
