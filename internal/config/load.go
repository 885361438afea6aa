package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Options for loading config.
type Options struct {
	// ConfigPath is an explicit file path. When empty, ./fsdash.toml and
	// ~/.config/fsdash/fsdash.toml are tried in that order.
	ConfigPath   string
	SkipValidate bool
	// Overrides apply last (flags > env > dotenv > file > defaults).
	Overrides *Overrides
}

// Overrides holds CLI flag values. Only non-nil fields are applied.
type Overrides struct {
	APIKey *string
	Model  *string
}

// Load builds the effective config. Returns an error suitable for a
// blocking startup failure when the result is invalid.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	// Local dotenv files for developer ergonomics. Existing environment
	// variables always win; .env.local wins over .env.
	if err := loadDotEnvFiles(".env.local", ".env"); err != nil {
		return nil, fmt.Errorf("CONFIG_INVALID: failed loading dotenv files: %w", err)
	}

	configPath, explicit := opts.ConfigPath, opts.ConfigPath != ""
	if !explicit {
		configPath = firstExisting("fsdash.toml", userConfigPath())
	}
	if configPath != "" {
		if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("CONFIG_INVALID: cannot read config file %s: %w", configPath, err)
			}
		}
	}

	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("FSDASH_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}

	if opts.Overrides != nil {
		applyOverrides(&cfg, opts.Overrides)
	}

	if !opts.SkipValidate {
		if err := Validate(&cfg); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func applyOverrides(cfg *Config, o *Overrides) {
	if o.APIKey != nil {
		cfg.Gemini.APIKey = *o.APIKey
	}
	if o.Model != nil {
		cfg.Gemini.Model = *o.Model
	}
}

func loadDotEnvFiles(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		// godotenv.Load never overwrites variables that are already set,
		// which preserves the env > dotenv precedence.
		if err := godotenv.Load(path); err != nil {
			return err
		}
	}
	return nil
}

func firstExisting(paths ...string) string {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "fsdash", "fsdash.toml")
}
