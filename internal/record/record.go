package record

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ylamidon/whisper-voice/internal/audio"
	"github.com/ylamidon/whisper-voice/internal/config"
)

var (
	// ErrInvalidState is returned on double-start or stop-while-idle.
	// Callers absorb it; it only arises when the toggle guard already
	// rejected the transition.
	ErrInvalidState = errors.New("recorder: invalid state")

	// ErrDeviceUnavailable wraps the driver error when no capture stream
	// can be opened.
	ErrDeviceUnavailable = errors.New("recorder: capture device unavailable")
)

// Status carries the driver flags reported alongside a chunk.
type Status struct {
	InputOverflow bool
}

// Stream is an open capture stream. *portaudio.Stream satisfies it.
type Stream interface {
	Start() error
	Stop() error
	Close() error
}

// StreamOpener opens a capture stream that feeds fixed-size chunks to
// onChunk from the driver thread. Injected so tests can substitute a fake.
type StreamOpener func(channels, sampleRate, framesPerChunk int, onChunk func([]int16, Status)) (Stream, error)

// Recorder owns at most one active capture session. The chunk callback
// writes into the session buffer only; it never takes the recorder mutex,
// so stopping the stream can safely wait for an in-flight callback.
type Recorder struct {
	cfg  config.Config
	log  *zap.Logger
	open StreamOpener

	mu        sync.Mutex
	recording bool
	stream    Stream
	buf       *audio.Buffer
}

// New creates a recorder using the default PortAudio stream opener.
func New(cfg config.Config, log *zap.Logger) *Recorder {
	return &Recorder{cfg: cfg, log: log, open: openPortAudioStream}
}

// NewWithOpener creates a recorder with a custom stream opener.
func NewWithOpener(cfg config.Config, log *zap.Logger, open StreamOpener) *Recorder {
	return &Recorder{cfg: cfg, log: log, open: open}
}

// Start opens the capture stream and begins accumulating chunks into a
// fresh buffer. A failed open leaves the recorder idle and retryable.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return ErrInvalidState
	}

	buf := audio.NewBuffer()
	log := r.log
	onChunk := func(in []int16, st Status) {
		if st.InputOverflow {
			log.Warn("input overflow reported by capture device")
		}
		buf.Append(in)
	}

	stream, err := r.open(r.cfg.Channels, r.cfg.SampleRate, r.cfg.FramesPerChunk, onChunk)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	r.stream = stream
	r.buf = buf
	r.recording = true
	r.log.Debug("capture stream started",
		zap.Int("sample_rate", r.cfg.SampleRate),
		zap.Int("channels", r.cfg.Channels),
		zap.Int("frames_per_chunk", r.cfg.FramesPerChunk))
	return nil
}

// Stop closes the capture stream, drains any chunk in flight, and returns
// the finalized contiguous sample stream. The session buffer is discarded
// with the session, so a subsequent Start never observes stale data.
func (r *Recorder) Stop() ([]int16, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return nil, ErrInvalidState
	}

	// Stop waits for the driver to finish delivering buffered chunks, Close
	// tears the stream down. Errors here are logged but do not lose the
	// audio already captured.
	if err := r.stream.Stop(); err != nil {
		r.log.Warn("capture stream stop failed", zap.Error(err))
	}
	if err := r.stream.Close(); err != nil {
		r.log.Warn("capture stream close failed", zap.Error(err))
	}

	samples := r.buf.Drain()
	r.stream = nil
	r.buf = nil
	r.recording = false

	r.log.Debug("capture stream stopped", zap.Int("samples", len(samples)))
	return samples, nil
}

// Recording reports whether a capture session is active.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}
