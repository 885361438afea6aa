package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fsdash/internal/model"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func testClient(rt roundTripFunc) *Client {
	client := NewClient("test-api-key")
	client.HTTPClient = &http.Client{Transport: rt}
	return client
}

func jsonResponse(status int, body string, r *http.Request) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
		Request:    r,
	}
}

func TestCreateStore_SendsDisplayNameAndKey(t *testing.T) {
	var (
		gotPath   string
		gotMethod string
		gotAuth   string
		gotBody   string
	)
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotAuth = r.Header.Get("x-goog-api-key")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		return jsonResponse(http.StatusOK, `{"name":"fileSearchStores/s1","displayName":"my-store"}`, r), nil
	})

	store, err := testClient(rt).CreateStore(context.Background(), "my-store")
	if err != nil {
		t.Fatalf("CreateStore failed: %v", err)
	}
	if store.Name != "fileSearchStores/s1" {
		t.Fatalf("unexpected store name: %q", store.Name)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("unexpected method: %q", gotMethod)
	}
	if gotPath != "/v1beta/fileSearchStores" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotAuth != "test-api-key" {
		t.Fatalf("unexpected api key header: %q", gotAuth)
	}
	if !strings.Contains(gotBody, `"displayName":"my-store"`) {
		t.Fatalf("request body missing display name: %q", gotBody)
	}
}

func TestListStores_PassesPageSizeAndToken(t *testing.T) {
	var gotQuery string
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotQuery = r.URL.RawQuery
		return jsonResponse(http.StatusOK, `{"fileSearchStores":[{"name":"fileSearchStores/a"},{"name":"fileSearchStores/b"}],"nextPageToken":"tok2"}`, r), nil
	})

	stores, next, err := testClient(rt).ListStores(context.Background(), 20, "tok1")
	if err != nil {
		t.Fatalf("ListStores failed: %v", err)
	}
	if len(stores) != 2 {
		t.Fatalf("expected 2 stores, got %d", len(stores))
	}
	if next != "tok2" {
		t.Fatalf("unexpected next token: %q", next)
	}
	if !strings.Contains(gotQuery, "pageSize=20") || !strings.Contains(gotQuery, "pageToken=tok1") {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
}

func TestDeleteStore_UsesForceAndResourcePath(t *testing.T) {
	var (
		gotPath  string
		gotQuery string
	)
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		return jsonResponse(http.StatusOK, `{}`, r), nil
	})

	if err := testClient(rt).DeleteStore(context.Background(), "fileSearchStores/s1"); err != nil {
		t.Fatalf("DeleteStore failed: %v", err)
	}
	if gotPath != "/v1beta/fileSearchStores/s1" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if gotQuery != "force=true" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
}

func TestDeleteStore_RejectsEmptyNameLocally(t *testing.T) {
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		t.Fatal("no remote call expected for empty resource name")
		return nil, nil
	})
	err := testClient(rt).DeleteStore(context.Background(), "  ")
	if !errors.Is(err, model.ErrEmptyStoreName) {
		t.Fatalf("expected ErrEmptyStoreName, got %v", err)
	}
}

func TestDeleteDocument_RejectsEmptyNameLocally(t *testing.T) {
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		t.Fatal("no remote call expected for empty resource name")
		return nil, nil
	})
	err := testClient(rt).DeleteDocument(context.Background(), "  ")
	if !errors.Is(err, model.ErrEmptyDocumentName) {
		t.Fatalf("expected ErrEmptyDocumentName, got %v", err)
	}
}

func TestListDocuments_ParsesListing(t *testing.T) {
	var gotPath string
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotPath = r.URL.Path
		return jsonResponse(http.StatusOK, `{"documents":[{"name":"fileSearchStores/s1/documents/d1","displayName":"readme"}]}`, r), nil
	})

	docs, next, err := testClient(rt).ListDocuments(context.Background(), "fileSearchStores/s1", 20, "")
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if gotPath != "/v1beta/fileSearchStores/s1/documents" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if len(docs) != 1 || docs[0].DisplayName != "readme" {
		t.Fatalf("unexpected documents: %+v", docs)
	}
	if next != "" {
		t.Fatalf("unexpected next token: %q", next)
	}
}

func TestUploadToStore_SendsMultipartMetadataAndMedia(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(tmp, []byte("# hello"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var (
		gotPath     string
		gotMeta     string
		gotMedia    string
		gotMediaTyp string
	)
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotPath = r.URL.Path
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil {
			t.Fatalf("parse content-type: %v", err)
		}
		if mediaType != "multipart/related" {
			t.Fatalf("unexpected media type: %q", mediaType)
		}
		reader := multipart.NewReader(r.Body, params["boundary"])
		for i := 0; ; i++ {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("read part: %v", err)
			}
			body, _ := io.ReadAll(part)
			if i == 0 {
				gotMeta = string(body)
			} else {
				gotMedia = string(body)
				gotMediaTyp = part.Header.Get("Content-Type")
			}
		}
		return jsonResponse(http.StatusOK, `{"name":"operations/op1","done":false}`, r), nil
	})

	op, err := testClient(rt).UploadToStore(context.Background(), "fileSearchStores/s1", tmp, "notes")
	if err != nil {
		t.Fatalf("UploadToStore failed: %v", err)
	}
	if op.Name != "operations/op1" || op.Done {
		t.Fatalf("unexpected operation: %+v", op)
	}
	if gotPath != "/upload/v1beta/fileSearchStores/s1:uploadToFileSearchStore" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if !strings.Contains(gotMeta, `"displayName":"notes"`) {
		t.Fatalf("metadata part missing display name: %q", gotMeta)
	}
	if gotMedia != "# hello" {
		t.Fatalf("unexpected media bytes: %q", gotMedia)
	}
	if !strings.Contains(gotMediaTyp, "markdown") {
		t.Fatalf("unexpected media content type: %q", gotMediaTyp)
	}
}

func TestGetOperation_ParsesDoneAndError(t *testing.T) {
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if r.URL.Path != "/v1beta/operations/op1" {
			t.Fatalf("unexpected path: %q", r.URL.Path)
		}
		return jsonResponse(http.StatusOK, `{"name":"operations/op1","done":true,"error":{"code":13,"message":"import failed"}}`, r), nil
	})

	op, err := testClient(rt).GetOperation(context.Background(), "operations/op1")
	if err != nil {
		t.Fatalf("GetOperation failed: %v", err)
	}
	if !op.Done {
		t.Fatal("expected done operation")
	}
	if op.Error == nil || op.Error.Message != "import failed" {
		t.Fatalf("unexpected operation error: %+v", op.Error)
	}
}

func TestGenerateContent_ScopesToolAndSystemInstruction(t *testing.T) {
	var gotBody []byte
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotBody, _ = io.ReadAll(r.Body)
		return jsonResponse(http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"the "},{"text":"answer"}]}}]}`, r), nil
	})

	resp, err := testClient(rt).GenerateContent(context.Background(), model.GenerateRequest{
		Model:             "gemini-2.5-flash",
		Contents:          "Acme Corp",
		StoreNames:        []string{"fileSearchStores/s1"},
		SystemInstruction: "verify programs. Input: Acme Corp",
	})
	if err != nil {
		t.Fatalf("GenerateContent failed: %v", err)
	}
	if resp.Text != "the answer" {
		t.Fatalf("unexpected text: %q", resp.Text)
	}

	var wire map[string]any
	if err := json.Unmarshal(gotBody, &wire); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	tools, _ := wire["tools"].([]any)
	if len(tools) != 1 {
		t.Fatalf("expected exactly one tool, got %d", len(tools))
	}
	tool, _ := tools[0].(map[string]any)
	fs, _ := tool["fileSearch"].(map[string]any)
	names, _ := fs["fileSearchStoreNames"].([]any)
	if len(names) != 1 || names[0] != "fileSearchStores/s1" {
		t.Fatalf("tool scope must contain exactly the active store: %v", names)
	}
	if _, ok := wire["systemInstruction"]; !ok {
		t.Fatal("expected systemInstruction in request")
	}
}

func TestGenerateContent_OmitsSystemInstructionWhenEmpty(t *testing.T) {
	var gotBody []byte
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotBody, _ = io.ReadAll(r.Body)
		return jsonResponse(http.StatusOK, `{"candidates":[]}`, r), nil
	})

	resp, err := testClient(rt).GenerateContent(context.Background(), model.GenerateRequest{
		Model:      "gemini-2.5-flash",
		Contents:   "question",
		StoreNames: []string{"fileSearchStores/s1"},
	})
	if err != nil {
		t.Fatalf("GenerateContent failed: %v", err)
	}
	if resp.Text != "" {
		t.Fatalf("expected empty text for empty candidates, got %q", resp.Text)
	}
	if strings.Contains(string(gotBody), "systemInstruction") {
		t.Fatalf("systemInstruction must be absent: %s", gotBody)
	}
}

func TestDo_MapsStatusCodes(t *testing.T) {
	cases := []struct {
		status    int
		code      string
		retryable bool
	}{
		{http.StatusUnauthorized, "GEMINI_AUTH", false},
		{http.StatusForbidden, "GEMINI_AUTH", false},
		{http.StatusTooManyRequests, "GEMINI_RATE_LIMIT", true},
		{http.StatusNotFound, "GEMINI_NOT_FOUND", false},
		{http.StatusBadRequest, "GEMINI_FAILED", false},
		{http.StatusBadGateway, "GEMINI_FAILED", true},
	}
	for _, tc := range cases {
		rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(tc.status, `{"error":{"message":"boom"}}`, r), nil
		})
		_, _, err := testClient(rt).ListStores(context.Background(), 20, "")
		if err == nil {
			t.Fatalf("status %d: expected error", tc.status)
		}
		var providerErr *model.ProviderError
		if !errors.As(err, &providerErr) {
			t.Fatalf("status %d: expected ProviderError, got %T", tc.status, err)
		}
		if providerErr.Code != tc.code {
			t.Fatalf("status %d: unexpected code %s", tc.status, providerErr.Code)
		}
		if providerErr.Retryable != tc.retryable {
			t.Fatalf("status %d: unexpected retryable %v", tc.status, providerErr.Retryable)
		}
		if providerErr.Message != "boom" {
			t.Fatalf("status %d: service message not extracted: %q", tc.status, providerErr.Message)
		}
	}
}

func TestDo_MissingKeyFailsWithoutRemoteCall(t *testing.T) {
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		t.Fatal("no remote call expected without an API key")
		return nil, nil
	})
	client := testClient(rt)
	client.APIKey = ""
	_, _, err := client.ListStores(context.Background(), 20, "")
	var providerErr *model.ProviderError
	if !errors.As(err, &providerErr) || providerErr.Code != "GEMINI_AUTH" {
		t.Fatalf("expected GEMINI_AUTH, got %v", err)
	}
}
