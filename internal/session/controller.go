package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// Status represents the lifecycle of one generation session.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusConnecting Status = "connecting"
	StatusRunning    Status = "running"
	StatusCompleted  Status = "completed"
	StatusErrored    Status = "errored"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether the status accepts no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusErrored, StatusCancelled:
		return true
	}
	return false
}

// Request describes one generation attempt. At least one of Topic, SourceURL,
// or PDFPath must be set.
type Request struct {
	Topic     string
	SourceURL string
	PDFPath   string
	Quality   string
	Voice     string
	Theme     string
	Model     string
}

// Choices holds the closed value sets the service accepts. Empty lists skip
// the corresponding check.
type Choices struct {
	Qualities []string
	Voices    []string
	Themes    []string
	Models    []string
}

// State is the controller's view of the in-flight session. Result fields fill
// in incrementally as the server pushes events.
type State struct {
	Status      Status
	Stage       string
	Message     string
	Script      string
	Narration   string
	TTSAudioURL string
	OutputFile  string
	Images      []ImageComponent
	Failure     string
	Request     Request
}

// Channel is the bidirectional message channel a session owns exclusively.
type Channel interface {
	Send(v any) error
	Close() error
}

// DialFunc opens a channel and begins delivering inbound frames to onMessage
// and exactly one close-or-error notification to onClosed, both in arrival
// order.
type DialFunc func(ctx context.Context, onMessage func([]byte), onClosed func(error)) (Channel, error)

// Uploader transfers a local asset and returns its server-side path.
type Uploader interface {
	UploadPDF(ctx context.Context, path string) (string, error)
}

// Observer receives controller notifications. Callbacks run outside the
// controller's lock, one at a time, in event order.
type Observer struct {
	// StateChanged delivers a view snapshot after every state transition.
	StateChanged func(View)
	// ProtocolError reports a skipped malformed server message.
	ProtocolError func(error)
}

// Options configures a Controller.
type Options struct {
	Dial        DialFunc
	Uploader    Uploader
	Allowed     Choices
	IdleTimeout time.Duration
	Logger      *slog.Logger
	Observer    Observer
}

// Controller owns the lifecycle of one generation session at a time: input
// validation, optional asset upload, channel lifecycle, event dispatch, and
// cancellation. It is re-armable: after any terminal status a new Start opens
// a fresh session.
type Controller struct {
	dial        DialFunc
	uploader    Uploader
	allowed     Choices
	idleTimeout time.Duration
	logger      *slog.Logger
	observer    Observer

	mu        sync.Mutex
	state     State
	channel   Channel
	epoch     int
	idleTimer *time.Timer
}

// New constructs a session controller.
func New(opts Options) (*Controller, error) {
	if opts.Dial == nil {
		return nil, errors.New("session controller requires a dial function")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		dial:        opts.Dial,
		uploader:    opts.Uploader,
		allowed:     opts.Allowed,
		idleTimeout: opts.IdleTimeout,
		logger:      logger,
		observer:    opts.Observer,
		state:       State{Status: StatusIdle},
	}, nil
}

// Snapshot returns a copy of the current session state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateCopyLocked()
}

// Start validates the request, uploads the PDF when present, closes any prior
// channel, opens a fresh one, and sends the start control message. On a
// validation or upload failure no channel is opened and the controller keeps
// its previous state.
func (c *Controller) Start(ctx context.Context, req Request) error {
	req = normalizeRequest(req)
	if err := c.validate(req); err != nil {
		return err
	}

	resolved := req
	if req.PDFPath != "" {
		if c.uploader == nil {
			return fmt.Errorf("%w: no upload endpoint configured", ErrUpload)
		}
		serverPath, err := c.uploader.UploadPDF(ctx, req.PDFPath)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUpload, err)
		}
		resolved.PDFPath = serverPath
	}

	c.mu.Lock()
	c.closeChannelLocked()
	c.epoch++
	epoch := c.epoch
	c.state = State{Status: StatusConnecting, Request: resolved}
	view := c.viewLocked()
	c.mu.Unlock()
	c.notifyState(view)

	channel, err := c.dial(ctx,
		func(raw []byte) { c.handleMessage(epoch, raw) },
		func(cause error) { c.handleClosed(epoch, cause) },
	)
	if err != nil {
		c.failConnectivity(epoch, err)
		return fmt.Errorf("%w: open channel: %v", ErrConnectivity, err)
	}

	c.mu.Lock()
	if c.epoch != epoch || c.state.Status.Terminal() {
		// A racing Start or an immediate terminal event beat us here; the
		// channel must not outlive its session.
		c.mu.Unlock()
		_ = channel.Close()
		return nil
	}
	c.channel = channel
	c.resetIdleTimerLocked(epoch)
	c.mu.Unlock()

	start := startMessage{
		Type:    "start",
		Topic:   resolved.Topic,
		URL:     resolved.SourceURL,
		PDFPath: resolved.PDFPath,
		Quality: resolved.Quality,
		Voice:   resolved.Voice,
		Theme:   resolved.Theme,
		Model:   resolved.Model,
	}
	if err := channel.Send(start); err != nil {
		c.failConnectivity(epoch, err)
		return fmt.Errorf("%w: send start: %v", ErrConnectivity, err)
	}
	return nil
}

// Cancel sends a best-effort stop message and closes the channel. It is
// idempotent and a no-op once a terminal event has already been processed:
// the first terminal signal wins.
func (c *Controller) Cancel() {
	c.mu.Lock()
	if c.channel == nil || c.state.Status.Terminal() {
		c.mu.Unlock()
		return
	}
	_ = c.channel.Send(stopMessage{Type: "stop"})
	c.state.Status = StatusCancelled
	c.closeChannelLocked()
	view := c.viewLocked()
	c.mu.Unlock()

	c.logger.Info("session cancelled")
	c.notifyState(view)
}

// HandleMessage applies one raw inbound event. Exposed for transports and
// tests; ordinary callers never invoke it directly.
func (c *Controller) HandleMessage(raw []byte) {
	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()
	c.handleMessage(epoch, raw)
}

func (c *Controller) handleMessage(epoch int, raw []byte) {
	c.mu.Lock()
	if epoch != c.epoch || c.state.Status.Terminal() {
		c.mu.Unlock()
		return
	}

	event, err := ParseEvent(raw)
	if err != nil {
		cb := c.observer.ProtocolError
		c.mu.Unlock()
		c.logger.Warn("skipping malformed server message", "error", err)
		if cb != nil {
			cb(fmt.Errorf("%w: %v", ErrProtocol, err))
		}
		return
	}

	c.resetIdleTimerLocked(epoch)
	c.applyEventLocked(event)
	view := c.viewLocked()
	c.mu.Unlock()
	c.notifyState(view)
}

func (c *Controller) applyEventLocked(event *ProgressEvent) {
	st := &c.state
	if st.Status == StatusConnecting {
		st.Status = StatusRunning
	}
	if event.Stage != "" {
		st.Stage = event.Stage
	}
	if event.Message != "" {
		st.Message = event.Message
	}
	if event.Script != "" {
		st.Script = event.Script
	}
	if event.Narration != "" {
		st.Narration = event.Narration
	}
	if event.TTSAudioURL != "" {
		st.TTSAudioURL = event.TTSAudioURL
	}
	if event.OutputFile != "" {
		st.OutputFile = event.OutputFile
	}
	if event.ImageComponents != nil {
		st.Images = slices.Clone(event.ImageComponents)
	}

	switch event.Status {
	case EventCompleted:
		st.Status = StatusCompleted
		c.closeChannelLocked()
	case EventError:
		st.Status = StatusErrored
		st.Failure = event.Message
		if st.Failure == "" {
			st.Failure = "generation failed"
		}
		c.closeChannelLocked()
	}
}

func (c *Controller) handleClosed(epoch int, cause error) {
	c.mu.Lock()
	if epoch != c.epoch || c.state.Status.Terminal() {
		// Late transport faults after a terminal event carry no information.
		c.mu.Unlock()
		return
	}
	c.state.Status = StatusErrored
	c.state.Failure = connectivityMessage
	c.closeChannelLocked()
	view := c.viewLocked()
	c.mu.Unlock()

	c.logger.Error("session channel failed", "error", cause)
	c.notifyState(view)
}

// failConnectivity is handleClosed for faults detected by the controller
// itself (dial or send failures, idle timeout).
func (c *Controller) failConnectivity(epoch int, cause error) {
	c.handleClosed(epoch, cause)
}

func (c *Controller) handleIdle(epoch int) {
	c.logger.Warn("session idle timeout reached", "timeout", c.idleTimeout)
	c.handleClosed(epoch, fmt.Errorf("no server event within %s", c.idleTimeout))
}

func (c *Controller) resetIdleTimerLocked(epoch int) {
	if c.idleTimeout <= 0 {
		return
	}
	if c.idleTimer != nil {
		c.idleTimer.Stop()
	}
	c.idleTimer = time.AfterFunc(c.idleTimeout, func() { c.handleIdle(epoch) })
}

// closeChannelLocked releases the transport on every exit path. Safe to call
// repeatedly; a second close attempt is a no-op.
func (c *Controller) closeChannelLocked() {
	if c.idleTimer != nil {
		c.idleTimer.Stop()
		c.idleTimer = nil
	}
	if c.channel != nil {
		_ = c.channel.Close()
		c.channel = nil
	}
}

func (c *Controller) validate(req Request) error {
	if req.Topic == "" && req.SourceURL == "" && req.PDFPath == "" {
		return fmt.Errorf("%w: a topic, source URL, or PDF file is required", ErrValidation)
	}
	checks := []struct {
		name    string
		value   string
		allowed []string
	}{
		{"quality", req.Quality, c.allowed.Qualities},
		{"voice", req.Voice, c.allowed.Voices},
		{"theme", req.Theme, c.allowed.Themes},
		{"model", req.Model, c.allowed.Models},
	}
	for _, check := range checks {
		if len(check.allowed) == 0 || check.value == "" {
			continue
		}
		if !slices.Contains(check.allowed, check.value) {
			return fmt.Errorf("%w: %s %q is not one of %v", ErrValidation, check.name, check.value, check.allowed)
		}
	}
	return nil
}

func (c *Controller) stateCopyLocked() State {
	st := c.state
	st.Images = slices.Clone(st.Images)
	return st
}

func (c *Controller) viewLocked() View {
	return Project(c.stateCopyLocked())
}

func (c *Controller) notifyState(view View) {
	if c.observer.StateChanged != nil {
		c.observer.StateChanged(view)
	}
}

func normalizeRequest(req Request) Request {
	req.Topic = strings.TrimSpace(req.Topic)
	req.SourceURL = strings.TrimSpace(req.SourceURL)
	req.PDFPath = strings.TrimSpace(req.PDFPath)
	req.Quality = strings.TrimSpace(req.Quality)
	req.Voice = strings.TrimSpace(req.Voice)
	req.Theme = strings.TrimSpace(req.Theme)
	req.Model = strings.TrimSpace(req.Model)
	return req
}
