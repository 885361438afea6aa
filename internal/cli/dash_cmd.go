package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fsdash/internal/config"
	"fsdash/internal/dash"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Launch the interactive dashboard (default command)",
	RunE:  runDash,
}

func runDash(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		exitWith(ExitConfigInvalid, "ERROR: "+err.Error())
	}

	// No credential anywhere in the chain: prompt once when interactive,
	// halt with a blocking error otherwise.
	if cfg.Gemini.APIKey == "" {
		if !IsTTY() {
			exitWith(ExitConfigInvalid, "ERROR: "+config.ErrMissingAPIKey.Error())
		}
		key, err := ReadSecret("Gemini API key (input is hidden): ")
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		cfg.Gemini.APIKey = key
	}
	if err := config.Validate(cfg); err != nil {
		exitWith(ExitConfigInvalid, "ERROR: "+err.Error())
	}

	ses := newSession(cfg)
	return dash.Run(cmd.Context(), ses, dash.Options{
		Model:            cfg.Gemini.Model,
		UseDefaultPrompt: true,
	})
}
