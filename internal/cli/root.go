// Package cli wires the cobra command tree: the interactive dashboard as the
// default command plus one-shot subcommands for scripting.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fsdash/internal/config"
	"fsdash/internal/gemini"
	"fsdash/internal/session"
)

// Exit codes.
const (
	ExitSuccess       = 0
	ExitGenericError  = 1
	ExitConfigInvalid = 2
)

// GlobalFlags holds flags shared across all commands.
type GlobalFlags struct {
	ConfigPath string
	APIKey     string
	Model      string
	JSON       bool
	Quiet      bool
}

var globalFlags GlobalFlags

var rootCmd = &cobra.Command{
	Use:          "fsdash",
	Short:        "Terminal dashboard for Gemini File Search stores",
	Long:         "fsdash manages Gemini File Search stores, uploads and imports documents, and asks questions grounded in the indexed files.",
	RunE:         runDash,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.ConfigPath, "config", "", "config file path (default: ./fsdash.toml, then ~/.config/fsdash/fsdash.toml)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.APIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.Model, "model", "", "chat model: gemini-2.5-flash or gemini-2.5-pro")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.JSON, "json", false, "emit JSON instead of human-readable output")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Quiet, "quiet", false, "reduce output")

	rootCmd.AddCommand(dashCmd)
	rootCmd.AddCommand(storesCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and returns an error; exit code is set by RunE.
func Execute() error {
	return rootCmd.Execute()
}

// exitWith prints message to stderr and exits with code.
func exitWith(code int, msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
}

func loadConfig(skipValidate bool) (*config.Config, error) {
	overrides := &config.Overrides{}
	if globalFlags.APIKey != "" {
		overrides.APIKey = &globalFlags.APIKey
	}
	if globalFlags.Model != "" {
		overrides.Model = &globalFlags.Model
	}
	return config.Load(config.Options{
		ConfigPath:   globalFlags.ConfigPath,
		SkipValidate: skipValidate,
		Overrides:    overrides,
	})
}

func newSession(cfg *config.Config) *session.Session {
	client := gemini.NewClient(cfg.Gemini.APIKey)
	if cfg.Gemini.BaseURL != "" {
		client.BaseURL = cfg.Gemini.BaseURL
	}
	return session.New(client, session.Options{
		PollInterval: cfg.Upload.PollInterval(),
		PollTimeout:  cfg.Upload.PollTimeout(),
	})
}
