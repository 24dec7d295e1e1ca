// Package controller drives one record → transcribe → deliver cycle per
// pair of toggle presses. It is the only component with mutable session
// state; everything it coordinates hides behind a small interface.
package controller

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the session state. Exactly one session is ever non-Idle.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateTranscribing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateTranscribing:
		return "transcribing"
	default:
		return "unknown"
	}
}

// Recorder owns the capture stream.
type Recorder interface {
	Start() error
	Stop() ([]int16, error)
}

// Transcriber converts captured samples into text.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []int16) (string, error)
}

// Deliverer pushes the final text to the foreground window.
type Deliverer interface {
	Deliver(text string) error
}

// DelivererFunc adapts a function to the Deliverer interface.
type DelivererFunc func(text string) error

func (f DelivererFunc) Deliver(text string) error { return f(text) }

// Notifier shows user-facing status messages. May be nil.
type Notifier func(title, message string)

// Controller is the toggle state machine. Toggle is invoked from the hotkey
// thread and never blocks beyond starting or stopping the capture stream;
// transcription and delivery run on a background goroutine, and the state
// returns to Idle only once that goroutine finishes.
type Controller struct {
	rec    Recorder
	tr     Transcriber
	del    Deliverer
	log    *zap.Logger
	notify Notifier

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	state     State
	sessionID string
	startedAt time.Time
}

// New creates a controller in the Idle state. notify may be nil.
func New(rec Recorder, tr Transcriber, del Deliverer, log *zap.Logger, notify Notifier) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		rec:    rec,
		tr:     tr,
		del:    del,
		log:    log,
		notify: notify,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Toggle handles one hotkey press. Idle starts a recording, Recording stops
// it and hands the captured audio to the background pipeline, and presses
// during Transcribing are dropped so at most one transcription is ever in
// flight.
func (c *Controller) Toggle() {
	c.mu.Lock()

	switch c.state {
	case StateTranscribing:
		c.mu.Unlock()
		c.log.Debug("toggle ignored: transcription in flight")

	case StateIdle:
		if err := c.rec.Start(); err != nil {
			c.mu.Unlock()
			c.log.Error("recording failed to start", zap.Error(err))
			c.notifyUser("Whisper Voice", "Recording failed to start")
			return
		}
		c.sessionID = uuid.New().String()
		c.startedAt = time.Now()
		id := c.sessionID
		c.state = StateRecording
		c.mu.Unlock()

		c.log.Info("recording started", zap.String("session", id))
		c.notifyUser("Whisper Voice", "Recording started")

	case StateRecording:
		samples, err := c.rec.Stop()
		id := c.sessionID
		elapsed := time.Since(c.startedAt)
		if err != nil {
			// Only reachable if the recorder lost its stream out from
			// under us; reset so the next toggle can start over.
			c.state = StateIdle
			c.mu.Unlock()
			c.log.Error("recording failed to stop", zap.String("session", id), zap.Error(err))
			return
		}
		c.state = StateTranscribing
		c.wg.Add(1)
		c.mu.Unlock()

		c.log.Info("recording stopped",
			zap.String("session", id),
			zap.Duration("duration", elapsed),
			zap.Int("samples", len(samples)))
		go c.finish(id, samples)
	}
}

// finish runs transcription and delivery off the hotkey thread, then
// returns the controller to Idle whatever the outcome.
func (c *Controller) finish(id string, samples []int16) {
	defer c.wg.Done()
	defer func() {
		c.mu.Lock()
		c.state = StateIdle
		c.sessionID = ""
		c.mu.Unlock()
	}()

	if len(samples) == 0 {
		c.log.Warn("no audio captured", zap.String("session", id))
		c.notifyUser("Whisper Voice", "No audio captured")
		return
	}

	text, err := c.tr.Transcribe(c.ctx, samples)
	if err != nil {
		c.log.Error("transcription failed", zap.String("session", id), zap.Error(err))
		c.notifyUser("Whisper Voice", "Transcription failed")
		return
	}
	if text == "" {
		c.log.Warn("empty transcription result", zap.String("session", id))
		c.notifyUser("Whisper Voice", "Nothing recognized")
		return
	}

	if err := c.del.Deliver(text); err != nil {
		// The text is still on the clipboard; the session completed.
		c.log.Error("delivery failed", zap.String("session", id), zap.Error(err))
		c.notifyUser("Whisper Voice", "Paste failed (text is on the clipboard)")
		return
	}

	c.log.Info("text delivered", zap.String("session", id), zap.Int("chars", len(text)))
	c.notifyUser("Whisper Voice", "Pasted")
}

func (c *Controller) notifyUser(title, message string) {
	if c.notify != nil {
		c.notify(title, message)
	}
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Wait blocks until any in-flight transcription pipeline completes.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels the pipeline context, discards a live recording, and waits
// for the background goroutine to finish. Used on process shutdown.
func (c *Controller) Close() {
	c.cancel()

	c.mu.Lock()
	if c.state == StateRecording {
		if _, err := c.rec.Stop(); err != nil {
			c.log.Warn("failed to stop recording on shutdown", zap.Error(err))
		}
		c.state = StateIdle
	}
	c.mu.Unlock()

	c.wg.Wait()
}
