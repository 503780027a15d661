package notion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(server *httptest.Server) *Client {
	return &Client{
		httpClient: server.Client(),
		baseURL:    server.URL,
		token:      "test-token",
	}
}

func TestCreatePage(t *testing.T) {
	var gotPath, gotAuth, gotVersion string
	var gotBody PageDescriptor

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Notion-Version")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Write([]byte(`{"id": "page-123", "url": "https://notion.so/page-123"}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	page := PageDescriptor{
		Parent:     Parent{PageID: "parent-1"},
		Properties: PageProperties{Title: []RichText{Text("Dune - Frank Herbert")}},
	}

	ref, err := client.CreatePage(context.Background(), page)
	if err != nil {
		t.Fatalf("CreatePage failed: %v", err)
	}

	if gotPath != "/pages" {
		t.Errorf("expected path /pages, got %s", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("unexpected Authorization header: %s", gotAuth)
	}
	if gotVersion != notionVersion {
		t.Errorf("unexpected Notion-Version header: %s", gotVersion)
	}
	if gotBody.Parent.PageID != "parent-1" {
		t.Errorf("unexpected parent in request: %s", gotBody.Parent.PageID)
	}
	if ref.ID != "page-123" {
		t.Errorf("expected page ID page-123, got %s", ref.ID)
	}
}

func TestFindPageFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("expected path /search, got %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"results": [
				{
					"object": "page",
					"id": "page-123",
					"url": "https://notion.so/page-123",
					"parent": {"type": "page_id", "page_id": "aaaa-bbbb"},
					"properties": {"title": {"title": [{"plain_text": "Dune - Frank Herbert"}]}}
				},
				{
					"object": "page",
					"id": "page-456",
					"parent": {"type": "page_id", "page_id": "other-parent"},
					"properties": {"title": {"title": [{"plain_text": "Dune - Frank Herbert"}]}}
				}
			],
			"has_more": false
		}`))
	}))
	defer server.Close()

	client := newTestClient(server)

	ref, err := client.FindPage(context.Background(), "aaaabbbb", "Dune - Frank Herbert")
	if err != nil {
		t.Fatalf("FindPage failed: %v", err)
	}
	if ref == nil {
		t.Fatal("expected a page, got nil")
	}
	if ref.ID != "page-123" {
		t.Errorf("expected page-123, got %s", ref.ID)
	}
}

func TestFindPageNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [], "has_more": false}`))
	}))
	defer server.Close()

	client := newTestClient(server)

	ref, err := client.FindPage(context.Background(), "parent-1", "No Such Book")
	if err != nil {
		t.Fatalf("FindPage failed: %v", err)
	}
	if ref != nil {
		t.Errorf("expected nil, got %+v", ref)
	}
}

func TestAppendBlocks(t *testing.T) {
	var gotMethod, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"results": [{"id": "block-1"}, {"id": "block-2"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server)
	blocks := []BlockDescriptor{
		Quote(Text("Fear is the mind-killer.")),
		Paragraph(ItalicText("Note: memorable")),
	}

	refs, err := client.AppendBlocks(context.Background(), "page-123", blocks)
	if err != nil {
		t.Fatalf("AppendBlocks failed: %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Errorf("expected PATCH, got %s", gotMethod)
	}
	if gotPath != "/blocks/page-123/children" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 block refs, got %d", len(refs))
	}
	if refs[0].ID != "block-1" {
		t.Errorf("unexpected first block ID: %s", refs[0].ID)
	}
}

func TestUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.CreatePage(context.Background(), PageDescriptor{})
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestBadRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "body failed validation"}`))
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.CreatePage(context.Background(), PageDescriptor{})
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remote.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", remote.StatusCode)
	}
}

func TestRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"id": "page-123", "url": ""}`))
	}))
	defer server.Close()

	client := newTestClient(server)

	ref, err := client.CreatePage(context.Background(), PageDescriptor{})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if ref.ID != "page-123" {
		t.Errorf("unexpected page ID: %s", ref.ID)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(server)

	_, err := client.CreatePage(context.Background(), PageDescriptor{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestCalculateRetryDelay(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{10, 30 * time.Second},
	}

	for _, tt := range tests {
		if got := calculateRetryDelay(tt.attempt); got != tt.want {
			t.Errorf("calculateRetryDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestIsRetryableError(t *testing.T) {
	if !isRetryableError(ErrRateLimited) {
		t.Error("rate limit should be retryable")
	}
	if !isRetryableError(&RemoteError{StatusCode: 503}) {
		t.Error("503 should be retryable")
	}
	if isRetryableError(&RemoteError{StatusCode: 400}) {
		t.Error("400 should not be retryable")
	}
	if isRetryableError(ErrUnauthorized) {
		t.Error("unauthorized should not be retryable")
	}
	if isRetryableError(nil) {
		t.Error("nil should not be retryable")
	}
}

func TestNormalizeID(t *testing.T) {
	if normalizeID("aaaa-bbbb-cccc") != "aaaabbbbcccc" {
		t.Error("dashes should be stripped")
	}
	if normalizeID("aaaabbbbcccc") != "aaaabbbbcccc" {
		t.Error("dashless IDs should pass through")
	}
}
