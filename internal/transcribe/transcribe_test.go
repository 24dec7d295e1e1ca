package transcribe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ylamidon/whisper-voice/internal/config"
)

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.APIBaseURL = baseURL
	cfg.CacheDir = t.TempDir()
	return cfg
}

func testSamples(n int) []int16 {
	s := make([]int16, n)
	for i := range s {
		s[i] = int16(i % 128)
	}
	return s
}

func TestTranscribeEmptyAudio(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1/v1") // must never be reached
	c := New(cfg, nil, zap.NewNop())

	_, err := c.Transcribe(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for empty audio")
	}
	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if te.Reason != ReasonEmptyAudio {
		t.Fatalf("expected reason %q, got %q", ReasonEmptyAudio, te.Reason)
	}
}

func TestTranscribeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse multipart failed: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("expected model whisper-1, got %s", got)
		}
		if got := r.FormValue("language"); got != "fr" {
			t.Errorf("expected language fr, got %s", got)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
		} else {
			file.Close()
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"text": "  bonjour  "}`))
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL+"/v1")
	c := New(cfg, nil, zap.NewNop())

	text, err := c.Transcribe(context.Background(), testSamples(3072))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "bonjour" {
		t.Fatalf("expected trimmed 'bonjour', got %q", text)
	}

	// No temp recordings may be left behind.
	entries, err := os.ReadDir(cfg.CacheDir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "RecordTemp_") {
			t.Fatalf("stale temp file left behind: %s", e.Name())
		}
	}
}

func TestTranscribeBackendErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantReason string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantReason: ReasonAuthFailed},
		{name: "forbidden", status: http.StatusForbidden, wantReason: ReasonAuthFailed},
		{name: "rate limited", status: http.StatusTooManyRequests, wantReason: ReasonRateLimited},
		{name: "server error", status: http.StatusInternalServerError, wantReason: ReasonBackendError},
		{name: "bad request", status: http.StatusBadRequest, wantReason: ReasonBackendError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error": {"message": "nope", "type": "test_error"}}`))
			}))
			defer server.Close()

			cfg := testConfig(t, server.URL+"/v1")
			c := New(cfg, nil, zap.NewNop())

			_, err := c.Transcribe(context.Background(), testSamples(1024))
			var te *Error
			if !errors.As(err, &te) {
				t.Fatalf("expected *Error, got %T: %v", err, err)
			}
			if te.Reason != tt.wantReason {
				t.Fatalf("expected reason %q, got %q (%v)", tt.wantReason, te.Reason, err)
			}
		})
	}
}

func TestTranscribeNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // nothing listening anymore

	cfg := testConfig(t, url+"/v1")
	c := New(cfg, nil, zap.NewNop())

	_, err := c.Transcribe(context.Background(), testSamples(1024))
	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if te.Reason != ReasonNetworkFailure {
		t.Fatalf("expected reason %q, got %q", ReasonNetworkFailure, te.Reason)
	}
}

func TestTranscribeKeepCacheArchivesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"text": "archived"}`))
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL+"/v1")
	cfg.KeepCache = true
	c := New(cfg, nil, zap.NewNop())

	text, err := c.Transcribe(context.Background(), testSamples(1024))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "archived" {
		t.Fatalf("unexpected text %q", text)
	}

	entries, err := os.ReadDir(cfg.CacheDir)
	if err != nil {
		t.Fatalf("read cache dir: %v", err)
	}
	var haveWav, haveTxt bool
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".wav":
			haveWav = true
		case ".txt":
			haveTxt = true
		}
	}
	if !haveWav || !haveTxt {
		t.Fatalf("expected archived wav and txt, got %v", entries)
	}
}

func TestTranscribeFileMissingInput(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1/v1")
	c := New(cfg, nil, zap.NewNop())

	_, err := c.TranscribeFile(context.Background(), filepath.Join(cfg.CacheDir, "missing.wav"))
	if err == nil {
		t.Fatal("expected error for missing input file")
	}
}
