package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const userAgent = "reel/0.1.0"

// Client transfers source material to the generation service ahead of a
// session. One shot, no retry policy: the caller decides whether to retry.
type Client struct {
	baseURL    string
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

// New creates an upload client for the service at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("upload base url required")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type uploadResponse struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// UploadPDF posts the file at path and returns the server-assigned reference
// path. A rejection surfaces the server's detail message verbatim.
func (c *Client) UploadPDF(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-pdf", &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload pdf: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.New(rejectionDetail(resp.StatusCode, payload))
	}

	var result uploadResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if strings.TrimSpace(result.Path) == "" {
		return "", errors.New("upload response missing path")
	}
	return result.Path, nil
}

// rejectionDetail prefers the server's human-readable detail field so the
// failure reason reaches the user unaltered.
func rejectionDetail(status int, payload []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(payload, &parsed); err == nil {
		if detail := strings.TrimSpace(parsed.Detail); detail != "" {
			return detail
		}
	}
	if text := strings.TrimSpace(string(payload)); text != "" {
		return text
	}
	return fmt.Sprintf("upload returned %d", status)
}
