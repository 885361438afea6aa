// Package gemini is a hand-rolled client for the Gemini File Search REST
// surface: store and document lifecycle, resumable-free media upload into a
// store, long-running operation polling, and grounded generateContent.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fsdash/internal/mimetype"
	"fsdash/internal/model"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultTimeout = 60 * time.Second
	apiVersion     = "v1beta"
)

type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient wraps an API key into an authenticated client handle. The key
// must be validated by the caller; construction itself never fails.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:     strings.TrimSpace(apiKey),
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

var _ model.FileSearch = (*Client)(nil)

func (c *Client) CreateStore(ctx context.Context, displayName string) (model.Store, error) {
	payload, err := json.Marshal(struct {
		DisplayName string `json:"displayName"`
	}{DisplayName: displayName})
	if err != nil {
		return model.Store{}, &model.ProviderError{Code: "GEMINI_FAILED", Message: "failed to marshal create request", Cause: err}
	}

	body, err := c.do(ctx, http.MethodPost, apiVersion+"/fileSearchStores", nil, "application/json", bytes.NewReader(payload))
	if err != nil {
		return model.Store{}, err
	}

	var store model.Store
	if err := json.Unmarshal(body, &store); err != nil {
		return model.Store{}, &model.ProviderError{Code: "GEMINI_FAILED", Message: "failed to decode created store", Cause: err}
	}
	return store, nil
}

func (c *Client) ListStores(ctx context.Context, pageSize int, pageToken string) ([]model.Store, string, error) {
	query := listQuery(pageSize, pageToken)
	body, err := c.do(ctx, http.MethodGet, apiVersion+"/fileSearchStores", query, "", nil)
	if err != nil {
		return nil, "", err
	}

	var parsed struct {
		FileSearchStores []model.Store `json:"fileSearchStores"`
		NextPageToken    string        `json:"nextPageToken"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, "", &model.ProviderError{Code: "GEMINI_FAILED", Message: "failed to decode store listing", Cause: err}
	}
	return parsed.FileSearchStores, parsed.NextPageToken, nil
}

func (c *Client) DeleteStore(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return model.ErrEmptyStoreName
	}
	query := url.Values{"force": []string{"true"}}
	_, err := c.do(ctx, http.MethodDelete, apiVersion+"/"+name, query, "", nil)
	return err
}

func (c *Client) ListDocuments(ctx context.Context, storeName string, pageSize int, pageToken string) ([]model.Document, string, error) {
	if strings.TrimSpace(storeName) == "" {
		return nil, "", model.ErrEmptyStoreName
	}
	query := listQuery(pageSize, pageToken)
	body, err := c.do(ctx, http.MethodGet, apiVersion+"/"+storeName+"/documents", query, "", nil)
	if err != nil {
		return nil, "", err
	}

	var parsed struct {
		Documents     []model.Document `json:"documents"`
		NextPageToken string           `json:"nextPageToken"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, "", &model.ProviderError{Code: "GEMINI_FAILED", Message: "failed to decode document listing", Cause: err}
	}
	return parsed.Documents, parsed.NextPageToken, nil
}

func (c *Client) DeleteDocument(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return model.ErrEmptyDocumentName
	}
	query := url.Values{"force": []string{"true"}}
	_, err := c.do(ctx, http.MethodDelete, apiVersion+"/"+name, query, "", nil)
	return err
}

// UploadToStore uploads a local file and starts the remote import. The
// returned operation must be polled via GetOperation until Done.
func (c *Client) UploadToStore(ctx context.Context, storeName, filePath, displayName string) (model.Operation, error) {
	if strings.TrimSpace(storeName) == "" {
		return model.Operation{}, model.ErrEmptyStoreName
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return model.Operation{}, &model.ProviderError{Code: "GEMINI_FAILED", Message: "failed to read upload source", Cause: err}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	metaHeader := make(textproto.MIMEHeader)
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return model.Operation{}, &model.ProviderError{Code: "GEMINI_FAILED", Message: "failed to build upload metadata", Cause: err}
	}
	meta, err := json.Marshal(struct {
		DisplayName string `json:"displayName"`
	}{DisplayName: displayName})
	if err != nil {
		return model.Operation{}, &model.ProviderError{Code: "GEMINI_FAILED", Message: "failed to marshal upload metadata", Cause: err}
	}
	if _, err := metaPart.Write(meta); err != nil {
		return model.Operation{}, &model.ProviderError{Code: "GEMINI_FAILED", Message: "failed to write upload metadata", Cause: err}
	}

	mediaHeader := make(textproto.MIMEHeader)
	mediaHeader.Set("Content-Type", mimetype.Guess(filepath.Base(filePath)))
	mediaPart, err := writer.CreatePart(mediaHeader)
	if err != nil {
		return model.Operation{}, &model.ProviderError{Code: "GEMINI_FAILED", Message: "failed to build upload body", Cause: err}
	}
	if _, err := mediaPart.Write(data); err != nil {
		return model.Operation{}, &model.ProviderError{Code: "GEMINI_FAILED", Message: "failed to write upload content", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return model.Operation{}, &model.ProviderError{Code: "GEMINI_FAILED", Message: "failed to finalize upload body", Cause: err}
	}

	contentType := strings.Replace(writer.FormDataContentType(), "multipart/form-data", "multipart/related", 1)
	respBody, err := c.do(ctx, http.MethodPost, "upload/"+apiVersion+"/"+storeName+":uploadToFileSearchStore", nil, contentType, bytes.NewReader(body.Bytes()))
	if err != nil {
		return model.Operation{}, err
	}

	var op model.Operation
	if err := json.Unmarshal(respBody, &op); err != nil {
		return model.Operation{}, &model.ProviderError{Code: "GEMINI_FAILED", Message: "failed to decode import operation", Cause: err}
	}
	return op, nil
}

func (c *Client) GetOperation(ctx context.Context, name string) (model.Operation, error) {
	body, err := c.do(ctx, http.MethodGet, apiVersion+"/"+name, nil, "", nil)
	if err != nil {
		return model.Operation{}, err
	}
	var op model.Operation
	if err := json.Unmarshal(body, &op); err != nil {
		return model.Operation{}, &model.ProviderError{Code: "GEMINI_FAILED", Message: "failed to decode operation status", Cause: err}
	}
	return op, nil
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type fileSearchTool struct {
	FileSearchStoreNames []string `json:"fileSearchStoreNames"`
}

type generateTool struct {
	FileSearch fileSearchTool `json:"fileSearch"`
}

type generateRequest struct {
	Contents          []generateContent `json:"contents"`
	Tools             []generateTool    `json:"tools"`
	SystemInstruction *generateContent  `json:"systemInstruction,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// GenerateContent issues one synchronous grounded completion. The raw JSON
// payload is returned alongside the extracted text for diagnostic display.
func (c *Client) GenerateContent(ctx context.Context, req model.GenerateRequest) (model.GenerateResponse, error) {
	wire := generateRequest{
		Contents: []generateContent{{Role: "user", Parts: []generatePart{{Text: req.Contents}}}},
		Tools:    []generateTool{{FileSearch: fileSearchTool{FileSearchStoreNames: req.StoreNames}}},
	}
	if req.SystemInstruction != "" {
		wire.SystemInstruction = &generateContent{Parts: []generatePart{{Text: req.SystemInstruction}}}
	}

	payload, err := json.Marshal(wire)
	if err != nil {
		return model.GenerateResponse{}, &model.ProviderError{Code: "GEMINI_FAILED", Message: "failed to marshal generate request", Cause: err}
	}

	body, err := c.do(ctx, http.MethodPost, apiVersion+"/models/"+url.PathEscape(req.Model)+":generateContent", nil, "application/json", bytes.NewReader(payload))
	if err != nil {
		return model.GenerateResponse{}, err
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return model.GenerateResponse{}, &model.ProviderError{Code: "GEMINI_FAILED", Message: "failed to decode generate response", Cause: err}
	}

	var text strings.Builder
	if len(parsed.Candidates) > 0 {
		for _, part := range parsed.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}
	}
	return model.GenerateResponse{Text: text.String(), Raw: body}, nil
}

// do performs one request and maps non-2xx statuses onto the provider
// error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) ([]byte, error) {
	apiKey := strings.TrimSpace(c.APIKey)
	if apiKey == "" {
		return nil, &model.ProviderError{Code: "GEMINI_AUTH", Message: "missing API key"}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	reqURL := baseURL + "/" + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, &model.ProviderError{Code: "GEMINI_FAILED", Message: "failed to build request", Cause: err}
	}
	req.Header.Set("x-goog-api-key", apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &model.ProviderError{Code: "GEMINI_FAILED", Message: "request failed", Retryable: true, Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.ProviderError{Code: "GEMINI_FAILED", Message: "failed to read response", Retryable: true, StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, mapProviderError(resp.StatusCode, errorMessage(respBody, resp.StatusCode))
	}
	return respBody, nil
}

func listQuery(pageSize int, pageToken string) url.Values {
	query := url.Values{}
	if pageSize > 0 {
		query.Set("pageSize", strconv.Itoa(pageSize))
	}
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}
	return query
}

// errorMessage extracts the service's error.message field when present.
func errorMessage(body []byte, statusCode int) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	if message := strings.TrimSpace(string(body)); message != "" {
		return message
	}
	return fmt.Sprintf("service returned status %d", statusCode)
}

func mapProviderError(statusCode int, message string) error {
	pe := &model.ProviderError{
		Code:       "GEMINI_FAILED",
		Message:    message,
		StatusCode: statusCode,
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		pe.Code = "GEMINI_AUTH"
	case statusCode == http.StatusTooManyRequests:
		pe.Code = "GEMINI_RATE_LIMIT"
		pe.Retryable = true
	case statusCode == http.StatusNotFound:
		pe.Code = "GEMINI_NOT_FOUND"
	case statusCode >= http.StatusInternalServerError:
		pe.Retryable = true
	}

	return pe
}
