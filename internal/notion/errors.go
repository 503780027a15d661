package notion

import (
	"errors"
	"fmt"
)

// ErrUnauthorized indicates the integration token was rejected
var ErrUnauthorized = errors.New("invalid or expired Notion integration token")

// ErrRateLimited indicates the API rate limit was exceeded
var ErrRateLimited = errors.New("notion API rate limit exceeded")

// RemoteError represents a non-success response from the Notion API
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("notion API error: HTTP %d: %s", e.StatusCode, e.Message)
}
