package inventree

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrUnauthorized is returned on HTTP 401; the stored token is invalid
// or expired.
var ErrUnauthorized = errors.New("authentication failed (401): check your API token")

// Client is a typed HTTP client for the InvenTree REST API. It carries
// the Token authorization header and the Accept header on every request,
// maps HTTP failures into the package error taxonomy, and leaves retries
// to explicit user action.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the API rooted at baseURL. The token is
// sent as "Authorization: Token <value>" on every request.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the configured API root, without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get issues a GET request and returns the raw response body.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

// post issues a POST request with a JSON body and returns the raw
// response body.
func (c *Client) post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPost, c.baseURL+path, body)
}

// do builds the request, applies auth headers, executes it, and maps
// failures into the error taxonomy: transport errors wrapped,
// ErrUnauthorized for 401, *StatusError for other non-2xx codes.
func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request %s %s: %w", method, endpoint, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr ErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Detail != "" {
			return nil, &StatusError{Code: resp.StatusCode, Detail: apiErr.Detail}
		}
		return nil, &StatusError{Code: resp.StatusCode, Detail: strings.TrimSpace(string(respBody))}
	}

	return respBody, nil
}

// decodeObject parses a single-object response body.
func decodeObject(data []byte, result interface{}) error {
	if err := json.Unmarshal(data, result); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// boolParam renders a boolean query parameter the way the server
// expects ("true"/"false").
func boolParam(v bool) string {
	return strconv.FormatBool(v)
}
