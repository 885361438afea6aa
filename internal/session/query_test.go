package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fsdash/internal/model"
)

func TestAsk_DefaultPromptScopesStoreAndEmbedsQuestion(t *testing.T) {
	api := &fakeAPI{}
	s := activated(t, api)

	result, err := s.Ask(context.Background(), "Acme Corp", AskOptions{Model: ModelFlash, UseDefaultPrompt: true})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if result.Answer != "answer" {
		t.Fatalf("unexpected answer: %q", result.Answer)
	}

	req := api.lastGenerate
	if len(req.StoreNames) != 1 || req.StoreNames[0] != "fileSearchStores/a" {
		t.Fatalf("tool scope must contain exactly the active store: %v", req.StoreNames)
	}
	if !strings.Contains(req.SystemInstruction, "Input: Acme Corp") {
		t.Fatalf("system instruction must embed the literal question: %q", req.SystemInstruction)
	}
	if !strings.Contains(req.SystemInstruction, "'Found'") ||
		!strings.Contains(req.SystemInstruction, "'Source'") ||
		!strings.Contains(req.SystemInstruction, "'Rewards'") {
		t.Fatal("system instruction must mandate the three JSON fields")
	}
}

func TestAsk_WithoutDefaultPromptOmitsSystemInstruction(t *testing.T) {
	api := &fakeAPI{}
	s := activated(t, api)

	if _, err := s.Ask(context.Background(), "Acme Corp", AskOptions{Model: ModelPro}); err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if api.lastGenerate.SystemInstruction != "" {
		t.Fatalf("no system instruction expected: %q", api.lastGenerate.SystemInstruction)
	}
	if api.lastGenerate.Model != ModelPro {
		t.Fatalf("unexpected model: %q", api.lastGenerate.Model)
	}
}

func TestAsk_TrimsQuestionAndDefaultsModel(t *testing.T) {
	api := &fakeAPI{}
	s := activated(t, api)

	if _, err := s.Ask(context.Background(), "  spaced out  ", AskOptions{}); err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if api.lastGenerate.Contents != "spaced out" {
		t.Fatalf("question not trimmed: %q", api.lastGenerate.Contents)
	}
	if api.lastGenerate.Model != ModelFlash {
		t.Fatalf("expected default model, got %q", api.lastGenerate.Model)
	}
}

func TestAsk_EmptyQuestionIsLocalValidation(t *testing.T) {
	api := &fakeAPI{}
	s := activated(t, api)

	_, err := s.Ask(context.Background(), "   ", AskOptions{})
	if !errors.Is(err, model.ErrEmptyQuestion) {
		t.Fatalf("expected ErrEmptyQuestion, got %v", err)
	}
	if api.generateCalls != 0 {
		t.Fatal("empty question must not reach the remote service")
	}
}

func TestAsk_RequiresActiveStore(t *testing.T) {
	s := newTestSession(&fakeAPI{})
	_, err := s.Ask(context.Background(), "question", AskOptions{})
	if !errors.Is(err, model.ErrNoStore) {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}
}

func TestAsk_RemoteFailurePassesThrough(t *testing.T) {
	api := &fakeAPI{generateFn: func(model.GenerateRequest) (model.GenerateResponse, error) {
		return model.GenerateResponse{}, &model.ProviderError{Code: "GEMINI_RATE_LIMIT", Message: "slow down", Retryable: true}
	}}
	s := activated(t, api)

	_, err := s.Ask(context.Background(), "question", AskOptions{})
	var providerErr *model.ProviderError
	if !errors.As(err, &providerErr) || providerErr.Code != "GEMINI_RATE_LIMIT" {
		t.Fatalf("expected provider error to pass through, got %v", err)
	}
}
