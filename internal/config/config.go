// Package config loads fsdash configuration with the precedence
// defaults → TOML file → dotenv → environment → CLI overrides.
package config

import "time"

type Config struct {
	Version int    `toml:"version"`
	Gemini  Gemini `toml:"gemini"`
	Upload  Upload `toml:"upload"`
}

type Gemini struct {
	// APIKey is never written back to disk; it normally arrives through
	// GEMINI_API_KEY or the masked prompt.
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

type Upload struct {
	PollIntervalSecs int `toml:"poll_interval_secs"`
	PollTimeoutSecs  int `toml:"poll_timeout_secs"`
}

func Default() Config {
	return Config{
		Version: 1,
		Gemini: Gemini{
			Model: "gemini-2.5-flash",
		},
		Upload: Upload{
			PollIntervalSecs: 2,
			PollTimeoutSecs:  600,
		},
	}
}

func (u Upload) PollInterval() time.Duration {
	return time.Duration(u.PollIntervalSecs) * time.Second
}

func (u Upload) PollTimeout() time.Duration {
	return time.Duration(u.PollTimeoutSecs) * time.Second
}

// Snapshot returns a copy safe for printing: the API key is redacted.
func Snapshot(cfg Config) Config {
	if cfg.Gemini.APIKey != "" {
		cfg.Gemini.APIKey = "<redacted>"
	}
	return cfg
}
