package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fsdash/internal/mimetype"
	"fsdash/internal/model"
	"fsdash/internal/pager"
)

// FileUpload is one file handed over by the operator, held in memory until
// it is bridged to a temp file for the remote upload call.
type FileUpload struct {
	Name string
	Data []byte
}

// RefreshDocuments re-fetches the document listing for the active store and
// replaces the cache, tagging it with the store's resource name.
func (s *Session) RefreshDocuments(ctx context.Context) error {
	s.mu.Lock()
	if !s.hasActive {
		s.mu.Unlock()
		return model.ErrNoStore
	}
	storeName := s.active.Name
	s.mu.Unlock()

	docs, err := pager.Drain(ctx, func(ctx context.Context, token string) ([]model.Document, string, error) {
		return s.api.ListDocuments(ctx, storeName, listPageSize, token)
	})
	s.mu.Lock()
	s.documents = docs
	s.docsFor = storeName
	s.mu.Unlock()
	return err
}

// EnsureDocuments reloads the document cache when it is missing or tagged
// for a different store than the active one.
func (s *Session) EnsureDocuments(ctx context.Context) error {
	s.mu.Lock()
	if !s.hasActive {
		s.mu.Unlock()
		return model.ErrNoStore
	}
	fresh := s.docsFor == s.active.Name
	s.mu.Unlock()
	if fresh {
		return nil
	}
	return s.RefreshDocuments(ctx)
}

// Upload runs one full upload+import cycle: temp-file bridge, remote upload,
// and polling until the import operation completes. The temp file is removed
// on every exit path. The result's display name is always populated, even
// when the failure happens before the upload call is issued.
func (s *Session) Upload(ctx context.Context, file FileUpload) model.UploadResult {
	result := model.UploadResult{
		File:        file.Name,
		DisplayName: baseName(file.Name),
		MIMEType:    mimetype.Guess(file.Name),
	}
	active, hasActive := s.ActiveStore()
	if !hasActive {
		result.Err = model.ErrNoStore
		return result
	}

	tmp, err := os.CreateTemp("", "fsdash-upload-*"+filepath.Ext(file.Name))
	if err != nil {
		result.Err = fmt.Errorf("temp file: %w", err)
		return result
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(file.Data); err != nil {
		_ = tmp.Close()
		result.Err = fmt.Errorf("write temp file: %w", err)
		return result
	}
	if err := tmp.Close(); err != nil {
		result.Err = fmt.Errorf("close temp file: %w", err)
		return result
	}

	op, err := s.api.UploadToStore(ctx, active.Name, tmpPath, result.DisplayName)
	if err != nil {
		result.Err = err
		return result
	}

	if err := s.pollOperation(ctx, op); err != nil {
		result.Err = err
	}
	return result
}

// UploadAll processes files strictly sequentially, in input order. One
// file's failure does not stop the remaining files.
func (s *Session) UploadAll(ctx context.Context, files []FileUpload) []model.UploadResult {
	results := make([]model.UploadResult, 0, len(files))
	for _, f := range files {
		results = append(results, s.Upload(ctx, f))
	}
	return results
}

// BatchDelete force-deletes each document independently and collects a
// per-item result. The document cache is refreshed exactly once afterward,
// regardless of per-item outcomes.
func (s *Session) BatchDelete(ctx context.Context, documentNames []string) []model.DeleteResult {
	results := make([]model.DeleteResult, 0, len(documentNames))
	for _, name := range documentNames {
		results = append(results, model.DeleteResult{
			Document: name,
			Err:      s.api.DeleteDocument(ctx, name),
		})
	}
	if _, ok := s.ActiveStore(); ok {
		_ = s.RefreshDocuments(ctx)
	}
	return results
}

// pollOperation re-fetches the operation at a fixed interval until it is
// done, the context is cancelled, or the poll timeout elapses.
func (s *Session) pollOperation(ctx context.Context, op model.Operation) error {
	ctx, cancel := context.WithTimeout(ctx, s.pollTimeout)
	defer cancel()

	for !op.Done {
		if err := s.sleep(ctx, s.pollInterval); err != nil {
			return fmt.Errorf("import interrupted: %w", err)
		}
		var err error
		op, err = s.api.GetOperation(ctx, op.Name)
		if err != nil {
			return err
		}
	}
	if op.Error != nil {
		return fmt.Errorf("import failed: %s", op.Error.Message)
	}
	return nil
}

// baseName strips the directory and extension from an uploaded filename.
func baseName(filename string) string {
	base := filepath.Base(filename)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
