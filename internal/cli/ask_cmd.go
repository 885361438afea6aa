package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fsdash/internal/model"
	"fsdash/internal/session"
)

var askFlags struct {
	store           string
	noDefaultPrompt bool
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question grounded in one store's documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askFlags.store, "store", "", "store display name or resource name (required unless exactly one store exists)")
	askCmd.Flags().BoolVar(&askFlags.noDefaultPrompt, "no-default-prompt", false, "send the question without the verification system instruction")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		exitWith(ExitConfigInvalid, "ERROR: "+err.Error())
	}
	ses := newSession(cfg)
	ctx := cmd.Context()

	store, err := resolveStore(ctx, ses, askFlags.store)
	if err != nil {
		return err
	}
	if err := ses.Activate(ctx, store); err != nil {
		return fmt.Errorf("loading store %s: %w", store.DisplayName, err)
	}

	result, err := ses.Ask(ctx, args[0], session.AskOptions{
		Model:            cfg.Gemini.Model,
		UseDefaultPrompt: !askFlags.noDefaultPrompt,
	})
	if err != nil {
		return err
	}

	if globalFlags.JSON {
		fmt.Println(string(result.Raw))
		return nil
	}
	fmt.Println(result.Answer)
	return nil
}

// resolveStore matches the flag value against resource names first, then
// display names. An empty flag is accepted only when exactly one store exists.
func resolveStore(ctx context.Context, ses *session.Session, flag string) (model.Store, error) {
	if err := ses.RefreshStores(ctx); err != nil {
		return model.Store{}, fmt.Errorf("listing stores: %w", err)
	}
	stores := ses.Stores()

	if flag == "" {
		switch len(stores) {
		case 0:
			return model.Store{}, fmt.Errorf("no stores exist; create one with 'fsdash stores create'")
		case 1:
			return stores[0], nil
		default:
			return model.Store{}, fmt.Errorf("%d stores exist; pick one with --store", len(stores))
		}
	}

	for _, st := range stores {
		if st.Name == flag {
			return st, nil
		}
	}
	for _, st := range stores {
		if st.DisplayName == flag {
			return st, nil
		}
	}
	return model.Store{}, fmt.Errorf("no store named %q", flag)
}
