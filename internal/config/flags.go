package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// FlagValues holds parsed flags with explicit set tracking, so that only
// flags the user actually passed override the config file.
type FlagValues struct {
	APIKey            string
	APIKeySet         bool
	APIBaseURL        string
	APIBaseURLSet     bool
	Model             string
	ModelSet          bool
	Language          string
	LanguageSet       bool
	Prompt            string
	PromptSet         bool
	Hotkey            string
	HotkeySet         bool
	Channels          int
	ChannelsSet       bool
	SampleRate        int
	SampleRateSet     bool
	FramesPerChunk    int
	FramesPerChunkSet bool
	RequestTimeout    int
	RequestTimeoutSet bool
	EnableHTTP2       bool
	EnableHTTP2Set    bool
	VerifySSL         bool
	VerifySSLSet      bool
	Compress          bool
	CompressSet       bool
	BitRate           int
	BitRateSet        bool
	CacheDir          string
	CacheDirSet       bool
	KeepCache         bool
	KeepCacheSet      bool
	Notification      bool
	NotificationSet   bool
	Debug             bool
	DebugSet          bool

	OutputPath    string
	OutputPathSet bool
}

type stringFlag struct {
	target *string
	set    *bool
}

func (s *stringFlag) String() string {
	if s == nil || s.target == nil {
		return ""
	}
	return *s.target
}

func (s *stringFlag) Set(v string) error {
	if s.target != nil {
		*s.target = v
	}
	if s.set != nil {
		*s.set = true
	}
	return nil
}

type intFlag struct {
	target *int
	set    *bool
}

func (i *intFlag) String() string {
	if i == nil || i.target == nil {
		return ""
	}
	return fmt.Sprintf("%d", *i.target)
}

func (i *intFlag) Set(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	if i.target != nil {
		*i.target = n
	}
	if i.set != nil {
		*i.set = true
	}
	return nil
}

type boolFlag struct {
	target *bool
	set    *bool
}

func (b *boolFlag) String() string {
	if b == nil || b.target == nil {
		return ""
	}
	return fmt.Sprintf("%v", *b.target)
}

func parseBoolExt(v string) (bool, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "1", "true", "yes", "y":
		return true, nil
	case "0", "false", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean: %s", v)
}

func (b *boolFlag) Set(v string) error {
	n, err := parseBoolExt(v)
	if err != nil {
		return err
	}
	if b.target != nil {
		*b.target = n
	}
	if b.set != nil {
		*b.set = true
	}
	return nil
}

// BindFlags registers all flags and returns the populated FlagValues.
func BindFlags(fs *flag.FlagSet) *FlagValues {
	fv := &FlagValues{}

	fs.Var(&stringFlag{&fv.APIKey, &fv.APIKeySet}, "api-key", "OpenAI API key")
	fs.Var(&stringFlag{&fv.APIBaseURL, &fv.APIBaseURLSet}, "api-base-url", "API base URL (for compatible backends)")
	fs.Var(&stringFlag{&fv.Model, &fv.ModelSet}, "model", "transcription model")
	fs.Var(&stringFlag{&fv.Language, &fv.LanguageSet}, "language", "language code (empty = auto-detect)")
	fs.Var(&stringFlag{&fv.Prompt, &fv.PromptSet}, "prompt", "transcription prompt")
	fs.Var(&stringFlag{&fv.Hotkey, &fv.HotkeySet}, "hotkey", "toggle hotkey (e.g. ctrl+alt+space)")

	fs.Var(&intFlag{&fv.Channels, &fv.ChannelsSet}, "channels", "capture channels (int)")
	fs.Var(&intFlag{&fv.SampleRate, &fv.SampleRateSet}, "sample-rate", "capture sample rate (Hz)")
	fs.Var(&intFlag{&fv.FramesPerChunk, &fv.FramesPerChunkSet}, "frames-per-chunk", "frames per capture callback")

	fs.Var(&intFlag{&fv.RequestTimeout, &fv.RequestTimeoutSet}, "request-timeout", "request timeout seconds")
	fs.Var(&boolFlag{&fv.EnableHTTP2, &fv.EnableHTTP2Set}, "enable-http2", "enable HTTP/2 (true/false)")
	fs.Var(&boolFlag{&fv.VerifySSL, &fv.VerifySSLSet}, "verify-ssl", "verify TLS certificates (true/false)")

	fs.Var(&boolFlag{&fv.Compress, &fv.CompressSet}, "compress", "compress recordings to opus/ogg before upload (true/false)")
	fs.Var(&intFlag{&fv.BitRate, &fv.BitRateSet}, "bit-rate", "opus bit rate (kbps)")

	fs.Var(&stringFlag{&fv.CacheDir, &fv.CacheDirSet}, "cache-dir", "cache directory")
	fs.Var(&boolFlag{&fv.KeepCache, &fv.KeepCacheSet}, "keep-cache", "keep recordings and transcripts (true/false)")

	fs.Var(&boolFlag{&fv.Notification, &fv.NotificationSet}, "notification", "enable desktop notifications (true/false)")
	fs.Var(&boolFlag{&fv.Debug, &fv.DebugSet}, "debug", "enable debug logging (true/false)")

	fs.Var(&stringFlag{&fv.OutputPath, &fv.OutputPathSet}, "output", "output txt path for -file mode")

	return fv
}

// ApplyFlags applies present flags to the config.
func ApplyFlags(cfg *Config, fv *FlagValues) {
	if fv.APIKeySet {
		cfg.APIKey = fv.APIKey
	}
	if fv.APIBaseURLSet {
		cfg.APIBaseURL = fv.APIBaseURL
	}
	if fv.ModelSet {
		cfg.Model = fv.Model
	}
	if fv.LanguageSet {
		cfg.Language = fv.Language
	}
	if fv.PromptSet {
		cfg.Prompt = fv.Prompt
	}
	if fv.HotkeySet {
		cfg.Hotkey = fv.Hotkey
	}

	if fv.ChannelsSet {
		cfg.Channels = fv.Channels
	}
	if fv.SampleRateSet {
		cfg.SampleRate = fv.SampleRate
	}
	if fv.FramesPerChunkSet {
		cfg.FramesPerChunk = fv.FramesPerChunk
	}

	if fv.RequestTimeoutSet {
		cfg.RequestTimeout = fv.RequestTimeout
	}
	if fv.EnableHTTP2Set {
		cfg.EnableHTTP2 = fv.EnableHTTP2
	}
	if fv.VerifySSLSet {
		cfg.VerifySSL = fv.VerifySSL
	}

	if fv.CompressSet {
		cfg.Compress = fv.Compress
	}
	if fv.BitRateSet {
		cfg.BitRate = fv.BitRate
	}

	if fv.CacheDirSet {
		cfg.CacheDir = fv.CacheDir
	}
	if fv.KeepCacheSet {
		cfg.KeepCache = fv.KeepCache
	}

	if fv.NotificationSet {
		cfg.Notification = fv.Notification
	}
	if fv.DebugSet {
		cfg.Debug = fv.Debug
	}
}

// AnySet reports whether any flag was explicitly set by the user.
func (fv *FlagValues) AnySet() bool {
	return fv.APIKeySet ||
		fv.APIBaseURLSet ||
		fv.ModelSet ||
		fv.LanguageSet ||
		fv.PromptSet ||
		fv.HotkeySet ||
		fv.ChannelsSet ||
		fv.SampleRateSet ||
		fv.FramesPerChunkSet ||
		fv.RequestTimeoutSet ||
		fv.EnableHTTP2Set ||
		fv.VerifySSLSet ||
		fv.CompressSet ||
		fv.BitRateSet ||
		fv.CacheDirSet ||
		fv.KeepCacheSet ||
		fv.NotificationSet ||
		fv.DebugSet ||
		fv.OutputPathSet
}
