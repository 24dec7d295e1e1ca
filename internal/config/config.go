package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds configurable parameters.
type Config struct {
	APIKey         string `json:"API_KEY"`
	APIBaseURL     string `json:"API_BASE_URL"`
	Model          string `json:"MODEL"`
	Language       string `json:"LANGUAGE"`
	Prompt         string `json:"PROMPT"`
	Hotkey         string `json:"HOTKEY"`
	Channels       int    `json:"CHANNELS"`
	SampleRate     int    `json:"SAMPLE_RATE"`
	FramesPerChunk int    `json:"FRAMES_PER_CHUNK"`
	RequestTimeout int    `json:"REQUEST_TIMEOUT"`
	EnableHTTP2    bool   `json:"ENABLE_HTTP2"`
	VerifySSL      bool   `json:"VERIFY_SSL"`
	Compress       bool   `json:"COMPRESS"`
	BitRate        int    `json:"BIT_RATE"`
	CacheDir       string `json:"CACHE_DIR"`
	KeepCache      bool   `json:"KEEP_CACHE"`
	Notification   bool   `json:"NOTIFICATION"`
	Debug          bool   `json:"DEBUG"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		APIKey:         "",
		APIBaseURL:     "",
		Model:          "whisper-1",
		Language:       "fr",
		Prompt:         "",
		Hotkey:         "ctrl+alt+space",
		Channels:       1,
		SampleRate:     16000,
		FramesPerChunk: 1024,
		RequestTimeout: 30,
		EnableHTTP2:    true,
		VerifySSL:      true,
		Compress:       false,
		BitRate:        32,
		CacheDir:       "",
		KeepCache:      false,
		Notification:   true,
		Debug:          false,
	}
}

// Load loads config from a JSON file if provided.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveDefault writes a default config JSON to the provided path.
func SaveDefault(path string) error {
	cfg := DefaultConfig()
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// ApplyEnv fills secrets from the environment when the config leaves them
// empty. A .env file, if present, is expected to be loaded by the caller
// before this runs.
func ApplyEnv(cfg *Config) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = os.Getenv("OPENAI_BASE_URL")
	}
}

// Validate verifies config fields and returns an error if any value is invalid.
func Validate(cfg *Config) error {
	if cfg.APIKey == "" {
		return fmt.Errorf("API key is empty (set API_KEY in config or OPENAI_API_KEY in the environment)")
	}
	if cfg.Model == "" {
		return fmt.Errorf("invalid MODEL: must not be empty")
	}
	if cfg.Hotkey == "" {
		return fmt.Errorf("invalid HOTKEY: must not be empty")
	}
	if cfg.Channels < 1 || cfg.Channels > 8 {
		return fmt.Errorf("invalid CHANNELS: %d (allowed 1..8)", cfg.Channels)
	}
	if cfg.SampleRate <= 0 {
		return fmt.Errorf("invalid SAMPLE_RATE: %d (must be > 0)", cfg.SampleRate)
	}
	if cfg.FramesPerChunk <= 0 {
		return fmt.Errorf("invalid FRAMES_PER_CHUNK: %d (must be > 0)", cfg.FramesPerChunk)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("invalid REQUEST_TIMEOUT: %d (must be > 0)", cfg.RequestTimeout)
	}
	if cfg.Compress && cfg.BitRate <= 0 {
		return fmt.Errorf("invalid BIT_RATE: %d (must be > 0 when COMPRESS is on)", cfg.BitRate)
	}
	return nil
}

// InitCacheDir validates/creates the configured cache directory.
// It mutates cfg.CacheDir to an absolute path or clears it on failure.
func InitCacheDir(cfg *Config) error {
	if cfg.CacheDir == "" {
		return nil
	}
	orig := cfg.CacheDir
	abs, err := filepath.Abs(orig)
	if err != nil {
		cfg.CacheDir = ""
		return fmt.Errorf("cache-dir path invalid '%s': %w", orig, err)
	}
	info, err := os.Stat(abs)
	switch {
	case err == nil:
		if !info.IsDir() {
			cfg.CacheDir = ""
			return fmt.Errorf("cache-dir '%s' exists but is not a directory", abs)
		}
		cfg.CacheDir = abs
		return nil
	case os.IsNotExist(err):
		if err := os.MkdirAll(abs, 0755); err != nil {
			cfg.CacheDir = ""
			return fmt.Errorf("cannot create cache-dir '%s': %w", abs, err)
		}
		cfg.CacheDir = abs
		return nil
	default:
		cfg.CacheDir = ""
		return fmt.Errorf("cannot access cache-dir '%s': %w", abs, err)
	}
}

// TempDir returns the directory to use for temporary recordings.
func TempDir(cfg *Config) string {
	if cfg.CacheDir != "" {
		return cfg.CacheDir
	}
	cwd, _ := os.Getwd()
	return cwd
}
