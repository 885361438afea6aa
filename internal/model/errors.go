package model

import "errors"

// Validation errors. Detected locally, before any remote call is made.
var (
	ErrEmptyQuestion     = errors.New("question is empty")
	ErrNoStore           = errors.New("no active store")
	ErrEmptyStoreName    = errors.New("store resource name is empty")
	ErrEmptyDocumentName = errors.New("document resource name is empty")
)

// ProviderError is a remote-call failure from the File Search service.
type ProviderError struct {
	Code       string
	Message    string
	Retryable  bool
	StatusCode int
	Cause      error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code + ": " + e.Message
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
