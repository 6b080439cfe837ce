// Package httpapi implements the request plumbing shared by the task and chat
// clients: bearer-token attachment, JSON bodies, and error extraction.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// TokenProvider yields the current bearer token, or empty when logged out.
type TokenProvider interface {
	Token() string
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status of err when it is an *APIError, 0
// otherwise (network failures have no status).
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Caller issues JSON requests against a backend base URL.
type Caller struct {
	baseURL    string
	tokens     TokenProvider
	httpClient *http.Client
}

// NewCaller constructs a Caller. A nil httpClient falls back to a default
// client with no timeout.
func NewCaller(baseURL string, tokens TokenProvider, httpClient *http.Client) *Caller {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Caller{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
		httpClient: httpClient,
	}
}

// Do issues one request. A non-nil body is JSON-encoded; a non-nil out has
// the response decoded into it. 204 responses are treated as empty successes.
func (c *Caller) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshaling request body")
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	request.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, endpoint)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return decodeError(response)
	}

	if response.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response body")
	}
	return nil
}

// decodeError extracts a human-readable message from an error response: a
// JSON "message" field when present, then the raw body, then a generic
// status-coded message.
func decodeError(response *http.Response) error {
	apiErr := &APIError{StatusCode: response.StatusCode}

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		raw = nil
	}

	var parsed struct {
		Message string `json:"message"`
	}
	switch {
	case json.Unmarshal(raw, &parsed) == nil && parsed.Message != "":
		apiErr.Message = parsed.Message
	case len(strings.TrimSpace(string(raw))) > 0:
		apiErr.Message = string(raw)
	default:
		apiErr.Message = fmt.Sprintf("HTTP error! status: %d", response.StatusCode)
	}
	return apiErr
}
