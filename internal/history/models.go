package history

import (
	"strings"
	"time"

	"reel/internal/session"
)

// Record is one stored generation attempt.
type Record struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	Topic     string
	SourceURL string
	PDFPath   string
	Quality   string
	Voice     string
	Theme     string
	Model     string

	Status      session.Status
	Failure     string
	OutputFile  string
	TTSAudioURL string
	ImageCount  int
}

// Title returns the best short label for the record: the topic, the source
// URL, or the uploaded file reference.
func (r Record) Title() string {
	if topic := strings.TrimSpace(r.Topic); topic != "" {
		return topic
	}
	if url := strings.TrimSpace(r.SourceURL); url != "" {
		return url
	}
	if pdf := strings.TrimSpace(r.PDFPath); pdf != "" {
		return pdf
	}
	return "(no input)"
}

// ShortID returns the leading segment of the session UUID for display.
func (r Record) ShortID() string {
	if idx := strings.IndexByte(r.ID, '-'); idx > 0 {
		return r.ID[:idx]
	}
	return r.ID
}
