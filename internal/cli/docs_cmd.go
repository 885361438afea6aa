package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fsdash/internal/session"
)

var docsStore string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage documents in a store",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in a store",
	RunE:  runDocsList,
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload files into a store and wait for the imports to finish",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocsUpload,
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete [document-names...]",
	Short: "Delete documents by resource name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocsDelete,
}

func init() {
	for _, cmd := range []*cobra.Command{docsListCmd, docsUploadCmd, docsDeleteCmd} {
		cmd.Flags().StringVar(&docsStore, "store", "", "store display name or resource name (required unless exactly one store exists)")
	}
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsUploadCmd)
	docsCmd.AddCommand(docsDeleteCmd)
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		exitWith(ExitConfigInvalid, "ERROR: "+err.Error())
	}
	ses := newSession(cfg)
	ctx := cmd.Context()

	store, err := resolveStore(ctx, ses, docsStore)
	if err != nil {
		return err
	}
	if err := ses.Activate(ctx, store); err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	docs := ses.Documents()
	if globalFlags.JSON {
		return json.NewEncoder(os.Stdout).Encode(docs)
	}
	if len(docs) == 0 {
		fmt.Println("No documents in", store.DisplayName)
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DISPLAY NAME\tRESOURCE NAME\tCREATED\tUPDATED")
	for _, d := range docs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.DisplayName, d.Name, d.CreateTime, d.UpdateTime)
	}
	return w.Flush()
}

func runDocsUpload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		exitWith(ExitConfigInvalid, "ERROR: "+err.Error())
	}
	ses := newSession(cfg)
	ctx := cmd.Context()

	store, err := resolveStore(ctx, ses, docsStore)
	if err != nil {
		return err
	}
	if err := ses.Activate(ctx, store); err != nil {
		return fmt.Errorf("loading store %s: %w", store.DisplayName, err)
	}

	files := make([]session.FileUpload, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		files = append(files, session.FileUpload{Name: path, Data: data})
	}

	results := ses.UploadAll(ctx, files)
	failed := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tMIME TYPE\tSTATUS")
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.File, r.MIMEType, r.Status())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed to import", failed, len(results))
	}
	return nil
}

func runDocsDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		exitWith(ExitConfigInvalid, "ERROR: "+err.Error())
	}
	ses := newSession(cfg)
	ctx := cmd.Context()

	results := ses.BatchDelete(ctx, args)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
		if !globalFlags.Quiet {
			fmt.Printf("%s\t%s\n", r.Document, r.Status())
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d document(s) failed to delete", failed, len(results))
	}
	return nil
}
