package session

import (
	"context"
	"strings"

	"fsdash/internal/model"
)

// Supported chat models. Flash is the default.
const (
	ModelFlash = "gemini-2.5-flash"
	ModelPro   = "gemini-2.5-pro"
)

// DefaultSystemPrompt is the fixed bug-bounty-program verification persona.
// The user question is appended after "Input: ".
const DefaultSystemPrompt = "You are a specialized tool for verifying the existence and details of a " +
	"bug bounty program based on the user's input. " +
	"**Strictly use the File Search tool on the provided vector store** to find a matching bug bounty program. " +
	"If a match is found, extract the required details. " +
	"**Respond strictly in a single JSON object only**, with no explanations, extra text, or markdown " +
	"formatting (e.g., no ```json ```). " +
	"The required fields are: " +
	"* **'Found'**: (string, 'Yes' or 'No') — Indicate if a bug bounty program was found for the input. " +
	"* **'Source'**: (string, the name or ID of the document/file in the vector store where the information " +
	"was found, or 'N/A' if not found). " +
	"* **'Rewards'**: (string, 'Yes' or 'No') — Indicate if the program offers monetary or non-monetary rewards. " +
	"Example of expected output: {'Found': 'Yes', 'Source': 'vector_store_doc_123', 'Rewards': 'Yes'}"

// AskOptions select the model and whether the default system instruction is
// attached.
type AskOptions struct {
	Model            string
	UseDefaultPrompt bool
}

// Ask submits the question with the file-search tool scoped to exactly the
// active store. Empty questions and a missing active store are rejected
// locally, before any remote call.
func (s *Session) Ask(ctx context.Context, question string, opts AskOptions) (model.AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return model.AskResult{}, model.ErrEmptyQuestion
	}
	active, hasActive := s.ActiveStore()
	if !hasActive {
		return model.AskResult{}, model.ErrNoStore
	}

	modelName := opts.Model
	if modelName == "" {
		modelName = ModelFlash
	}

	req := model.GenerateRequest{
		Model:      modelName,
		Contents:   question,
		StoreNames: []string{active.Name},
	}
	if opts.UseDefaultPrompt {
		req.SystemInstruction = DefaultSystemPrompt + "Input: " + question
	}

	resp, err := s.api.GenerateContent(ctx, req)
	if err != nil {
		return model.AskResult{}, err
	}
	return model.AskResult{
		Question: question,
		Answer:   resp.Text,
		Raw:      resp.Raw,
	}, nil
}
