package transcribe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ylamidon/whisper-voice/internal/audio"
	"github.com/ylamidon/whisper-voice/internal/audio/ffmpeg"
	"github.com/ylamidon/whisper-voice/internal/config"
)

// Failure reasons reported to the user. One reason per backend error class;
// the wrapped error keeps the detail.
const (
	ReasonEmptyAudio     = "empty audio"
	ReasonEncodeFailed   = "encode failed"
	ReasonAuthFailed     = "authentication failed"
	ReasonRateLimited    = "rate limited"
	ReasonBackendError   = "backend error"
	ReasonNetworkFailure = "network failure"
)

// Error is a transcription failure with a human-readable reason.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("transcription failed: %s", e.Reason)
	}
	return fmt.Sprintf("transcription failed: %s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client converts captured PCM into text via the Whisper API.
type Client struct {
	cfg     config.Config
	api     *openai.Client
	log     *zap.Logger
	tempDir string
}

// New creates a transcription client. httpClient carries the shared
// transport (timeout, TLS and HTTP/2 settings); nil uses a default.
func New(cfg config.Config, httpClient *http.Client, log *zap.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIBaseURL != "" {
		apiCfg.BaseURL = cfg.APIBaseURL
	}
	if httpClient != nil {
		apiCfg.HTTPClient = httpClient
	}
	return &Client{
		cfg:     cfg,
		api:     openai.NewClientWithConfig(apiCfg),
		log:     log,
		tempDir: config.TempDir(&cfg),
	}
}

// Transcribe encodes samples to a temporary WAV, uploads it, and returns the
// recognized text. No automatic retries; a failure ends the session.
func (c *Client) Transcribe(ctx context.Context, samples []int16) (string, error) {
	if len(samples) == 0 {
		return "", &Error{Reason: ReasonEmptyAudio}
	}

	wavPath := c.tempPath("wav")
	if err := audio.WriteWAV(wavPath, samples, c.cfg.SampleRate, c.cfg.Channels); err != nil {
		return "", &Error{Reason: ReasonEncodeFailed, Err: err}
	}

	uploadPath := wavPath
	var oggPath string
	if c.cfg.Compress {
		oggPath = c.tempPath("ogg")
		if err := ffmpeg.ToOpusOGG(wavPath, oggPath, c.cfg.Channels, c.cfg.SampleRate, c.cfg.BitRate); err != nil {
			c.cleanup(wavPath, oggPath, "")
			return "", &Error{Reason: ReasonEncodeFailed, Err: err}
		}
		uploadPath = oggPath
	}

	text, err := c.upload(ctx, uploadPath)
	if err != nil {
		c.cleanup(wavPath, oggPath, "")
		return "", err
	}

	c.cleanup(wavPath, oggPath, text)
	return text, nil
}

// TranscribeFile uploads an existing audio file, compressing it first when
// configured. Used by file mode; the input file is never removed.
func (c *Client) TranscribeFile(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", &Error{Reason: ReasonEncodeFailed, Err: err}
	}

	uploadPath := path
	var oggPath string
	if c.cfg.Compress {
		oggPath = c.tempPath("ogg")
		if err := ffmpeg.ToOpusOGG(path, oggPath, c.cfg.Channels, c.cfg.SampleRate, c.cfg.BitRate); err != nil {
			c.cleanup("", oggPath, "")
			return "", &Error{Reason: ReasonEncodeFailed, Err: err}
		}
		uploadPath = oggPath
	}

	text, err := c.upload(ctx, uploadPath)
	c.cleanup("", oggPath, "")
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *Client) upload(ctx context.Context, path string) (string, error) {
	req := openai.AudioRequest{
		Model:    c.cfg.Model,
		FilePath: path,
		Language: c.cfg.Language,
		Prompt:   c.cfg.Prompt,
	}

	start := time.Now()
	resp, err := c.api.CreateTranscription(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	c.log.Debug("transcription request completed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("text_len", len(resp.Text)))

	return strings.TrimSpace(resp.Text), nil
}

// classify maps backend errors to a single reportable failure kind.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden:
			return &Error{Reason: ReasonAuthFailed, Err: err}
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return &Error{Reason: ReasonRateLimited, Err: err}
		case apiErr.HTTPStatusCode >= 500:
			return &Error{Reason: ReasonBackendError, Err: err}
		default:
			return &Error{Reason: ReasonBackendError, Err: err}
		}
	}
	return &Error{Reason: ReasonNetworkFailure, Err: err}
}

// cleanup removes session temp files, or archives them together with the
// transcript when the cache is enabled.
func (c *Client) cleanup(wavPath, oggPath, text string) {
	if c.cfg.KeepCache && c.cfg.CacheDir != "" {
		base := fmt.Sprintf("audio-%s", time.Now().Format("2006-01-02-15.04.05"))
		c.archive(wavPath, filepath.Join(c.cfg.CacheDir, base+".wav"))
		c.archive(oggPath, filepath.Join(c.cfg.CacheDir, base+".ogg"))
		if text != "" {
			txtPath := filepath.Join(c.cfg.CacheDir, base+".txt")
			if err := os.WriteFile(txtPath, []byte(text), 0644); err != nil {
				c.log.Warn("failed to write transcript to cache", zap.String("path", txtPath), zap.Error(err))
			}
		}
		return
	}
	if wavPath != "" {
		_ = os.Remove(wavPath)
	}
	if oggPath != "" {
		_ = os.Remove(oggPath)
	}
}

func (c *Client) archive(src, dst string) {
	if src == "" {
		return
	}
	if err := os.Rename(src, dst); err != nil {
		c.log.Warn("failed to move recording to cache", zap.String("path", dst), zap.Error(err))
		_ = os.Remove(src)
	}
}

func (c *Client) tempPath(ext string) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	return filepath.Join(c.tempDir, fmt.Sprintf("RecordTemp_%s.%s", id, ext))
}
