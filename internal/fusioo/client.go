// Package fusioo is the client for the Fusioo REST API: token auth, offset
// pagination, server-side filtering, client-side request pacing, and bounded
// retry on transient failures.
package fusioo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/bookspring/impact-dashboard-tui/internal/logger"
	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

const (
	// DefaultBaseURL is the production Fusioo REST endpoint.
	DefaultBaseURL = "https://api.fusioo.com/v3"

	// DefaultPageSize is the record page size. 200 is the API maximum.
	DefaultPageSize = 200
)

// Config holds client construction options.
type Config struct {
	AccessToken       string
	BaseURL           string
	PageSize          int
	RequestsPerSecond float64
	Retry             RetryPolicy
}

// DefaultConfig returns the production defaults. The access token must still
// be provided.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		PageSize:          DefaultPageSize,
		RequestsPerSecond: 4,
		Retry:             DefaultRetryPolicy(),
	}
}

// Client talks to the Fusioo REST API.
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a client. Zero-valued config fields fall back to defaults.
func New(config Config) *Client {
	def := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = def.BaseURL
	}
	if config.PageSize <= 0 {
		config.PageSize = def.PageSize
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = def.RequestsPerSecond
	}
	if config.Retry.Attempts < 1 {
		config.Retry = def.Retry
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
	}
}

// FetchAllRecords pages through every record in a collection, tagging each
// with the source it came from.
func (c *Client) FetchAllRecords(ctx context.Context, source models.Source, appID string) ([]models.RawRecord, error) {
	endpoint := fmt.Sprintf("records/apps/%s", appID)
	return c.listPages(ctx, source, http.MethodGet, endpoint, nil)
}

// FilterRecords pages through the records matching the given server-side
// filter expression.
func (c *Client) FilterRecords(ctx context.Context, source models.Source, appID string, filters map[string]any) ([]models.RawRecord, error) {
	endpoint := fmt.Sprintf("records/apps/%s/filter", appID)
	return c.listPages(ctx, source, http.MethodPost, endpoint, filters)
}

// CountFiltered returns the number of records matching the filter expression
// without fetching them.
func (c *Client) CountFiltered(ctx context.Context, appID string, filters map[string]any) (int, error) {
	endpoint := fmt.Sprintf("records/apps/%s/count/filter", appID)

	var count int
	err := Retry(ctx, c.config.Retry, func() error {
		data, err := c.do(ctx, http.MethodPost, endpoint, nil, filters)
		if err != nil {
			return err
		}
		var payload struct {
			Count int `json:"count"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return &DecodeError{Op: endpoint, Reason: "count payload is not an object"}
		}
		count = payload.Count
		return nil
	})
	return count, err
}

// listPages repeats a listing request with growing offsets until a short or
// empty page signals the end of the collection.
func (c *Client) listPages(ctx context.Context, source models.Source, method, endpoint string, payload any) ([]models.RawRecord, error) {
	var all []models.RawRecord
	offset := 0

	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(c.config.PageSize))
		query.Set("offset", strconv.Itoa(offset))
		if method == http.MethodGet {
			query.Set("order", "asc")
		}

		var rows []map[string]any
		err := Retry(ctx, c.config.Retry, func() error {
			data, err := c.do(ctx, method, endpoint, query, payload)
			if err != nil {
				return err
			}
			rows = nil
			if len(data) == 0 {
				return nil
			}
			if err := json.Unmarshal(data, &rows); err != nil {
				return &DecodeError{Op: endpoint, Reason: "record list payload is not an array"}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		for _, row := range rows {
			rec := models.RawRecord{Source: source, Fields: row}
			if id, ok := row["id"].(string); ok {
				rec.ID = id
			}
			all = append(all, rec)
		}

		if len(rows) < c.config.PageSize {
			break
		}
		offset += c.config.PageSize
	}

	return all, nil
}

// do executes one paced, authenticated request and unwraps the "data"
// envelope. Status codes map onto the error taxonomy; retrying is the
// caller's concern.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, payload any) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	requestURL := c.config.BaseURL + "/" + endpoint
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: method + " " + endpoint, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "read " + endpoint, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{Status: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{RetryAfter: retryAfter(resp)}
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, &NetworkError{Op: method + " " + endpoint, Err: fmt.Errorf("server error (status %d)", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(raw))
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &DecodeError{Op: endpoint, Reason: "response is not a JSON envelope"}
	}
	return envelope.Data, nil
}

func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}
