package model

import "context"

// GenerateRequest is one grounded chat-completion call. StoreNames scopes
// the file-search tool; SystemInstruction is attached only when non-empty.
type GenerateRequest struct {
	Model             string
	Contents          string
	StoreNames        []string
	SystemInstruction string
}

// GenerateResponse carries the extracted answer text (empty when the
// response had none) and the raw JSON payload.
type GenerateResponse struct {
	Text string
	Raw  []byte
}

// FileSearch is the remote service boundary. Implemented by the Gemini
// client; faked in session tests.
type FileSearch interface {
	CreateStore(ctx context.Context, displayName string) (Store, error)
	ListStores(ctx context.Context, pageSize int, pageToken string) ([]Store, string, error)
	DeleteStore(ctx context.Context, name string) error

	ListDocuments(ctx context.Context, storeName string, pageSize int, pageToken string) ([]Document, string, error)
	DeleteDocument(ctx context.Context, name string) error

	UploadToStore(ctx context.Context, storeName, filePath, displayName string) (Operation, error)
	GetOperation(ctx context.Context, name string) (Operation, error)

	GenerateContent(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
}
