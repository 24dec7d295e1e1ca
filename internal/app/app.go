package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"

	"github.com/ylamidon/whisper-voice/internal/clipboard"
	"github.com/ylamidon/whisper-voice/internal/config"
	"github.com/ylamidon/whisper-voice/internal/controller"
	"github.com/ylamidon/whisper-voice/internal/hotkey"
	"github.com/ylamidon/whisper-voice/internal/notify"
	"github.com/ylamidon/whisper-voice/internal/record"
	"github.com/ylamidon/whisper-voice/internal/transcribe"
)

// RunRecordMode wires the components, registers the toggle hotkey, and
// blocks until the process receives SIGINT/SIGTERM.
func RunRecordMode(cfg config.Config, log *zap.Logger) error {
	cleanupOldTempFiles(config.TempDir(&cfg), log)

	if err := record.Initialize(); err != nil {
		return fmt.Errorf("audio subsystem init failed: %w", err)
	}
	defer func() { _ = record.Terminate() }()

	trans := transcribe.New(cfg, newHTTPClient(cfg), log)
	rec := record.New(cfg, log)

	var notifier controller.Notifier
	if cfg.Notification {
		notifier = notify.Notify
	}
	ctrl := controller.New(rec, trans, controller.DelivererFunc(clipboard.PasteText), log, notifier)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("ready",
		zap.String("hotkey", cfg.Hotkey),
		zap.String("model", cfg.Model),
		zap.String("language", cfg.Language))

	err := hotkey.Listen(ctx, cfg.Hotkey, ctrl.Toggle, log)

	// Unblock a live recording and let an in-flight transcription finish
	// its error path before tearing down PortAudio.
	ctrl.Close()
	log.Info("shutting down")
	return err
}

// RunFileMode transcribes an existing audio file and writes the result to a
// .txt file next to it (or to outputPath when given).
func RunFileMode(cfg config.Config, log *zap.Logger, inputPath, outputPath string) error {
	cleanupOldTempFiles(config.TempDir(&cfg), log)

	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("file '%s' stat failed: %w", inputPath, err)
	}

	trans := transcribe.New(cfg, newHTTPClient(cfg), log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.RequestTimeout)*time.Second)
	defer cancel()

	text, err := trans.TranscribeFile(ctx, inputPath)
	if err != nil {
		return err
	}

	outPath := outputPath
	if outPath == "" {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		outPath = filepath.Join(".", base+".txt")
	}
	if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
		return err
	}

	log.Info("transcript written", zap.String("path", outPath), zap.Int("chars", len(text)))
	return nil
}

func newHTTPClient(cfg config.Config) *http.Client {
	tr := &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if !cfg.VerifySSL {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	if cfg.EnableHTTP2 {
		_ = http2.ConfigureTransport(tr)
	}
	return &http.Client{
		Transport: tr,
		Timeout:   time.Duration(cfg.RequestTimeout) * time.Second,
	}
}

// cleanupOldTempFiles removes recordings a previous run left behind.
func cleanupOldTempFiles(dir string, log *zap.Logger) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("temp dir cleanup failed", zap.String("dir", dir), zap.Error(err))
		return
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "RecordTemp_") {
			path := filepath.Join(dir, name)
			if err := os.Remove(path); err != nil {
				log.Warn("failed to remove stale temp file", zap.String("path", path), zap.Error(err))
			} else {
				log.Debug("removed stale temp file", zap.String("path", path))
			}
		}
	}
}
