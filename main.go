// whisper-voice: global-hotkey voice typing.
//
// One press of the hotkey starts microphone capture, a second press stops
// it; the recording is transcribed by a Whisper-compatible backend and the
// text pasted into the focused window.
//
// Configuration comes from a JSON config file (-config, or ./config.json),
// overridden by flags; the API key may also come from OPENAI_API_KEY (a
// .env file is honored). With no config and no flags a default config.json
// is written for editing.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ylamidon/whisper-voice/internal/app"
	"github.com/ylamidon/whisper-voice/internal/config"
	"github.com/ylamidon/whisper-voice/internal/logger"
)

func main() {
	var configPath string
	var filePath string
	fs := flag.NewFlagSet("whisper-voice", flag.ExitOnError)
	fs.StringVar(&configPath, "config", "", "path to config JSON")
	fs.StringVar(&filePath, "file", "", "transcribe an existing audio file instead of recording")
	fv := config.BindFlags(fs)
	_ = fs.Parse(os.Args[1:])

	_ = godotenv.Load()

	cfg, err := loadConfig(configPath, fv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "whisper-voice: %v\n", err)
		os.Exit(1)
	}
	if cfg == nil {
		// Default config.json was just created; nothing else to do.
		return
	}

	config.ApplyFlags(cfg, fv)
	config.ApplyEnv(cfg)

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "whisper-voice: invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.MustNew(cfg.Debug)
	defer func() { _ = log.Sync() }()

	if err := config.InitCacheDir(cfg); err != nil {
		log.Warn("cache dir disabled", zap.Error(err))
	}

	if filePath != "" {
		if err := app.RunFileMode(*cfg, log, filePath, fv.OutputPath); err != nil {
			log.Error("file mode failed", zap.Error(err))
			os.Exit(2)
		}
		return
	}

	if err := app.RunRecordMode(*cfg, log); err != nil {
		log.Error("record mode failed", zap.Error(err))
		os.Exit(1)
	}
}

// loadConfig resolves the config source: an explicit -config path, a
// ./config.json if present, or defaults. With nothing configured at all it
// writes a default config.json and returns nil so the user can edit it.
func loadConfig(configPath string, fv *config.FlagValues) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config '%s': %w", configPath, err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat("config.json"); err == nil {
		cfg, err := config.Load("config.json")
		if err != nil {
			return nil, fmt.Errorf("failed to load config.json: %w", err)
		}
		return &cfg, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config.json: %w", err)
	}

	if !fv.AnySet() && os.Getenv("OPENAI_API_KEY") == "" {
		if err := config.SaveDefault("config.json"); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		fmt.Println("default config created at config.json. Please edit it and re-run.")
		return nil, nil
	}

	cfg := config.DefaultConfig()
	return &cfg, nil
}
