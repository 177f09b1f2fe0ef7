// Package api talks to the houses REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "house-inventory/internal/errors"
	"house-inventory/internal/models"
	"house-inventory/internal/utils"
	"house-inventory/pkg/logger"
)

const jsonAPIContentType = "application/vnd.api+json"

// Client sends JSON requests to the backend and decodes JSON:API responses.
// Authentication is the transport's job; see AuthTransport.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. A nil httpClient gets a 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// request describes one backend call. Route is the metrics label, e.g.
// "/api/houses/:id".
type request struct {
	Method string
	Path   string
	Route  string
	Query  url.Values
	Body   interface{}
	Out    interface{}
}

func (c *Client) do(ctx context.Context, r request) error {
	start := time.Now()
	status := 0
	defer func() { utils.RecordUpstreamRequest(r.Method, r.Route, status, start) }()

	endpoint := c.baseURL + r.Path
	if len(r.Query) > 0 {
		endpoint += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Accept", jsonAPIContentType+", application/json")
	if body != nil {
		req.Header.Set("Content-Type", jsonAPIContentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.GlobalLogger.Errorf("Houses API request failed: method=%s, url=%s, error=%v", r.Method, endpoint, err)
		return apperrors.NewNetworkError(err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to read response body: method=%s, url=%s, status=%s, error=%v", r.Method, endpoint, resp.Status, err)
		return apperrors.NewNetworkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr models.APIErrorResponse
		_ = json.Unmarshal(raw, &apiErr)
		technical := fmt.Sprintf("%s %s: %s, response: %s", r.Method, r.Path, resp.Status, truncate(raw, 512))
		logger.GlobalLogger.Errorf("Houses API error: method=%s, url=%s, status=%s", r.Method, endpoint, resp.Status)
		return apperrors.NewAPIError(resp.StatusCode, apiErr.Details(), technical)
	}

	if r.Out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, r.Out); err != nil {
		logger.GlobalLogger.Errorf("Failed to decode response: method=%s, url=%s, error=%v", r.Method, endpoint, err)
		return fmt.Errorf("failed to decode response: %v", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
