package session

import (
	"encoding/json"
	"fmt"
)

// EventStatus classifies a server-pushed event.
type EventStatus string

const (
	EventProgress  EventStatus = "progress"
	EventCompleted EventStatus = "completed"
	EventError     EventStatus = "error"
)

// Terminal reports whether the event ends the session.
func (s EventStatus) Terminal() bool {
	return s == EventCompleted || s == EventError
}

// ImageComponent describes one generated image referenced by the animation.
type ImageComponent struct {
	Path        string `json:"path"`
	Description string `json:"description"`
}

// ProgressEvent is a server-pushed session update. Any event may carry partial
// results alongside its status: a progress event can still deliver a script
// update, and a completed event usually carries the final output file. Result
// fields update independent display slots; ImageComponents replaces the whole
// previously displayed set whenever it is present.
type ProgressEvent struct {
	Status          EventStatus      `json:"status"`
	Stage           string           `json:"stage,omitempty"`
	Message         string           `json:"message,omitempty"`
	Script          string           `json:"script,omitempty"`
	Narration       string           `json:"narration,omitempty"`
	TTSAudioURL     string           `json:"tts_audio_url,omitempty"`
	OutputFile      string           `json:"output_file,omitempty"`
	ImageComponents []ImageComponent `json:"image_components,omitempty"`
}

// ParseEvent decodes and structurally validates a raw server message.
func ParseEvent(raw []byte) (*ProgressEvent, error) {
	var event ProgressEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	switch event.Status {
	case EventProgress, EventCompleted, EventError:
	default:
		return nil, fmt.Errorf("event status %q is not one of progress, completed, error", event.Status)
	}
	return &event, nil
}

// startMessage is the single control message that begins a generation session.
type startMessage struct {
	Type    string `json:"type"`
	Topic   string `json:"topic"`
	URL     string `json:"url"`
	PDFPath string `json:"pdf_path"`
	Quality string `json:"quality"`
	Voice   string `json:"voice"`
	Theme   string `json:"theme"`
	Model   string `json:"model"`
}

// stopMessage asks the server to abandon the in-flight generation.
type stopMessage struct {
	Type string `json:"type"`
}
