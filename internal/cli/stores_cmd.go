package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var storesCmd = &cobra.Command{
	Use:   "stores",
	Short: "Manage File Search stores",
}

var storesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stores",
	RunE:  runStoresList,
}

var storesCreateCmd = &cobra.Command{
	Use:   "create [display-name]",
	Short: "Create a store",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoresCreate,
}

var storesDeleteCmd = &cobra.Command{
	Use:   "delete [store]",
	Short: "Delete a store and all its documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoresDelete,
}

func init() {
	storesCmd.AddCommand(storesListCmd)
	storesCmd.AddCommand(storesCreateCmd)
	storesCmd.AddCommand(storesDeleteCmd)
}

func runStoresList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		exitWith(ExitConfigInvalid, "ERROR: "+err.Error())
	}
	ses := newSession(cfg)
	if err := ses.RefreshStores(cmd.Context()); err != nil {
		return fmt.Errorf("listing stores: %w", err)
	}

	stores := ses.Stores()
	if globalFlags.JSON {
		return json.NewEncoder(os.Stdout).Encode(stores)
	}
	if len(stores) == 0 {
		fmt.Println("No stores.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DISPLAY NAME\tRESOURCE NAME")
	for _, st := range stores {
		fmt.Fprintf(w, "%s\t%s\n", st.DisplayName, st.Name)
	}
	return w.Flush()
}

func runStoresCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		exitWith(ExitConfigInvalid, "ERROR: "+err.Error())
	}
	ses := newSession(cfg)
	store, err := ses.CreateStore(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if globalFlags.JSON {
		return json.NewEncoder(os.Stdout).Encode(store)
	}
	fmt.Println("Created", store.Name)
	return nil
}

func runStoresDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		exitWith(ExitConfigInvalid, "ERROR: "+err.Error())
	}
	ses := newSession(cfg)
	ctx := cmd.Context()

	store, err := resolveStore(ctx, ses, args[0])
	if err != nil {
		return err
	}
	if err := ses.DeleteStore(ctx, store.Name); err != nil {
		return err
	}
	if !globalFlags.Quiet {
		fmt.Println("Deleted", store.Name)
	}
	return nil
}
