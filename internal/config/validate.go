package config

import (
	"errors"
	"fmt"
)

var supportedModels = map[string]bool{
	"gemini-2.5-flash": true,
	"gemini-2.5-pro":   true,
}

// ErrMissingAPIKey blocks startup when no credential is available and no
// interactive prompt can supply one.
var ErrMissingAPIKey = errors.New("CONFIG_INVALID: missing API key; set GEMINI_API_KEY or pass --api-key")

// Validate checks the effective config.
func Validate(cfg *Config) error {
	if cfg.Gemini.APIKey == "" {
		return ErrMissingAPIKey
	}
	if !supportedModels[cfg.Gemini.Model] {
		return fmt.Errorf("CONFIG_INVALID: unsupported model %q (supported: gemini-2.5-flash, gemini-2.5-pro)", cfg.Gemini.Model)
	}
	if cfg.Upload.PollIntervalSecs <= 0 {
		return fmt.Errorf("CONFIG_INVALID: upload.poll_interval_secs must be positive")
	}
	if cfg.Upload.PollTimeoutSecs <= 0 {
		return fmt.Errorf("CONFIG_INVALID: upload.poll_timeout_secs must be positive")
	}
	return nil
}
