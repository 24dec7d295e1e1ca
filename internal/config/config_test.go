package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "whisper-1", cfg.Model)
	assert.Equal(t, "ctrl+alt+space", cfg.Hotkey)
	assert.Equal(t, 16000, cfg.SampleRate)
	assert.Equal(t, 1, cfg.Channels)
	assert.Equal(t, 1024, cfg.FramesPerChunk)
	assert.Equal(t, 30, cfg.RequestTimeout)
	assert.True(t, cfg.VerifySSL)
	assert.False(t, cfg.Compress)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"API_KEY": "sk-test",
		"HOTKEY": "ctrl+shift+f9",
		"SAMPLE_RATE": 48000,
		"LANGUAGE": "en"
	}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "ctrl+shift+f9", cfg.Hotkey)
	assert.Equal(t, 48000, cfg.SampleRate)
	assert.Equal(t, "en", cfg.Language)
	// untouched fields keep defaults
	assert.Equal(t, "whisper-1", cfg.Model)
	assert.Equal(t, 1, cfg.Channels)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestFlagsOverrideConfig(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fv := BindFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"-hotkey", "alt+f5",
		"-sample-rate", "44100",
		"-notification", "false",
	}))
	require.True(t, fv.AnySet())

	cfg := DefaultConfig()
	cfg.Hotkey = "ctrl+alt+space"
	cfg.Language = "de"
	ApplyFlags(&cfg, fv)

	assert.Equal(t, "alt+f5", cfg.Hotkey)
	assert.Equal(t, 44100, cfg.SampleRate)
	assert.False(t, cfg.Notification)
	// flags not passed must not clobber
	assert.Equal(t, "de", cfg.Language)
}

func TestApplyEnvFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	assert.Equal(t, "sk-from-env", cfg.APIKey)

	// An explicit key wins over the environment.
	cfg = DefaultConfig()
	cfg.APIKey = "sk-explicit"
	ApplyEnv(&cfg)
	assert.Equal(t, "sk-explicit", cfg.APIKey)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.APIKey = "sk-test"
		return cfg
	}

	cfg := valid()
	require.NoError(t, Validate(&cfg))

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api key", func(c *Config) { c.APIKey = "" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"empty hotkey", func(c *Config) { c.Hotkey = "" }},
		{"zero channels", func(c *Config) { c.Channels = 0 }},
		{"too many channels", func(c *Config) { c.Channels = 9 }},
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }},
		{"zero chunk size", func(c *Config) { c.FramesPerChunk = 0 }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"compress without bitrate", func(c *Config) { c.Compress = true; c.BitRate = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, Validate(&cfg))
		})
	}
}

func TestSaveDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, SaveDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestInitCacheDirCreatesDirectory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheDir = filepath.Join(t.TempDir(), "cache")
	require.NoError(t, InitCacheDir(&cfg))

	info, err := os.Stat(cfg.CacheDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInitCacheDirRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	cfg := DefaultConfig()
	cfg.CacheDir = path
	assert.Error(t, InitCacheDir(&cfg))
	assert.Empty(t, cfg.CacheDir)
}
