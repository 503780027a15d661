package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	notionVersion  = "2022-06-28"

	defaultTimeout     = 30 * time.Second
	maxRetries         = 3
	initialRetryDelay  = 1 * time.Second
	maxRetryDelay      = 30 * time.Second
	retryBackoffFactor = 2
)

// Client interfaces with the Notion REST API
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a new Notion API client authenticated with the given
// integration token
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: defaultBaseURL,
		token:   token,
	}
}

type searchRequest struct {
	Query  string       `json:"query"`
	Filter searchFilter `json:"filter"`
}

type searchFilter struct {
	Value    string `json:"value"`
	Property string `json:"property"`
}

type searchResponse struct {
	Results []struct {
		Object string `json:"object"`
		ID     string `json:"id"`
		URL    string `json:"url"`
		Parent struct {
			Type   string `json:"type"`
			PageID string `json:"page_id"`
		} `json:"parent"`
		Properties struct {
			Title struct {
				Title []RichText `json:"title"`
			} `json:"title"`
		} `json:"properties"`
	} `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// FindPage looks for an existing page with the given title under the parent
// page. Returns nil when no page matches.
func (c *Client) FindPage(ctx context.Context, parentID, title string) (*PageRef, error) {
	body := searchRequest{
		Query:  title,
		Filter: searchFilter{Value: "page", Property: "object"},
	}

	var resp searchResponse
	if err := c.do(ctx, http.MethodPost, "/search", body, &resp); err != nil {
		return nil, err
	}

	for _, result := range resp.Results {
		if result.Object != "page" {
			continue
		}
		if normalizeID(result.Parent.PageID) != normalizeID(parentID) {
			continue
		}
		if plainText(result.Properties.Title.Title) == title {
			return &PageRef{ID: result.ID, URL: result.URL}, nil
		}
	}

	return nil, nil
}

type pageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreatePage creates a new page from the descriptor.
func (c *Client) CreatePage(ctx context.Context, page PageDescriptor) (*PageRef, error) {
	var resp pageResponse
	if err := c.do(ctx, http.MethodPost, "/pages", page, &resp); err != nil {
		return nil, err
	}
	return &PageRef{ID: resp.ID, URL: resp.URL}, nil
}

type appendRequest struct {
	Children []BlockDescriptor `json:"children"`
}

type appendResponse struct {
	Results []struct {
		ID string `json:"id"`
	} `json:"results"`
}

// AppendBlocks appends blocks to the end of a page, preserving their order.
func (c *Client) AppendBlocks(ctx context.Context, pageID string, blocks []BlockDescriptor) ([]BlockRef, error) {
	var resp appendResponse
	path := "/blocks/" + pageID + "/children"
	if err := c.do(ctx, http.MethodPatch, path, appendRequest{Children: blocks}, &resp); err != nil {
		return nil, err
	}

	refs := make([]BlockRef, 0, len(resp.Results))
	for _, result := range resp.Results {
		refs = append(refs, BlockRef{ID: result.ID})
	}
	return refs, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := calculateRetryDelay(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		lastErr = c.doRequest(ctx, method, path, body, out)
		if lastErr == nil {
			return nil
		}

		// Only retry on rate limits or server errors
		if !isRetryableError(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, out any) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", notionVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return &RemoteError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func calculateRetryDelay(attempt int) time.Duration {
	delay := initialRetryDelay
	for i := 0; i < attempt; i++ {
		delay *= time.Duration(retryBackoffFactor)
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

func isRetryableError(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.StatusCode >= 500
	}
	return false
}

// normalizeID strips dashes so configured page IDs match the dashed form
// the API returns.
func normalizeID(id string) string {
	return strings.ReplaceAll(id, "-", "")
}

// plainText flattens rich text segments into a single string.
func plainText(segments []RichText) string {
	var b strings.Builder
	for _, segment := range segments {
		if segment.PlainText != "" {
			b.WriteString(segment.PlainText)
			continue
		}
		if segment.Text != nil {
			b.WriteString(segment.Text.Content)
		}
	}
	return b.String()
}
