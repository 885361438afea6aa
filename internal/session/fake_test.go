package session

import (
	"context"
	"time"

	"fsdash/internal/model"
)

// fakeAPI implements model.FileSearch for session tests.
type fakeAPI struct {
	stores      []model.Store
	docsByStore map[string][]model.Document

	createErr    error
	deleteStore  func(name string) error
	deleteDoc    func(name string) error
	uploadFn     func(storeName, filePath, displayName string) (model.Operation, error)
	operationFn  func(call int) (model.Operation, error)
	generateFn   func(req model.GenerateRequest) (model.GenerateResponse, error)

	storeRefreshes int
	docRefreshes   int
	operationCalls int
	generateCalls  int
	lastGenerate   model.GenerateRequest
	deletedDocs    []string
}

var _ model.FileSearch = (*fakeAPI)(nil)

func (f *fakeAPI) CreateStore(_ context.Context, displayName string) (model.Store, error) {
	if f.createErr != nil {
		return model.Store{}, f.createErr
	}
	store := model.Store{Name: "fileSearchStores/new", DisplayName: displayName}
	f.stores = append(f.stores, store)
	return store, nil
}

func (f *fakeAPI) ListStores(_ context.Context, _ int, pageToken string) ([]model.Store, string, error) {
	if pageToken == "" {
		f.storeRefreshes++
	}
	return f.stores, "", nil
}

func (f *fakeAPI) DeleteStore(_ context.Context, name string) error {
	if f.deleteStore != nil {
		return f.deleteStore(name)
	}
	return nil
}

func (f *fakeAPI) ListDocuments(_ context.Context, storeName string, _ int, pageToken string) ([]model.Document, string, error) {
	if pageToken == "" {
		f.docRefreshes++
	}
	return f.docsByStore[storeName], "", nil
}

func (f *fakeAPI) DeleteDocument(_ context.Context, name string) error {
	f.deletedDocs = append(f.deletedDocs, name)
	if f.deleteDoc != nil {
		return f.deleteDoc(name)
	}
	return nil
}

func (f *fakeAPI) UploadToStore(_ context.Context, storeName, filePath, displayName string) (model.Operation, error) {
	if f.uploadFn != nil {
		return f.uploadFn(storeName, filePath, displayName)
	}
	return model.Operation{Name: "operations/op", Done: true}, nil
}

func (f *fakeAPI) GetOperation(_ context.Context, _ string) (model.Operation, error) {
	f.operationCalls++
	if f.operationFn != nil {
		return f.operationFn(f.operationCalls)
	}
	return model.Operation{Done: true}, nil
}

func (f *fakeAPI) GenerateContent(_ context.Context, req model.GenerateRequest) (model.GenerateResponse, error) {
	f.generateCalls++
	f.lastGenerate = req
	if f.generateFn != nil {
		return f.generateFn(req)
	}
	return model.GenerateResponse{Text: "answer", Raw: []byte(`{}`)}, nil
}

// noSleep is an injectable sleep that never blocks but still honors
// context cancellation.
func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }
