package fusioo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bookspring/impact-dashboard-tui/internal/models"
)

// MockRoundTripper implements http.RoundTripper for testing
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func recordsPage(count, offset int) string {
	rows := make([]map[string]any, count)
	for i := range count {
		rows[i] = map[string]any{
			"id":                    fmt.Sprintf("rec-%04d", offset+i),
			"date_of_activity":      "2025-07-15",
			"_of_books_distributed": 3,
		}
	}
	body, _ := json.Marshal(map[string]any{"data": rows})
	return string(body)
}

func newTestClient(transport *MockRoundTripper) *Client {
	client := New(Config{
		AccessToken:       "test-token",
		BaseURL:           "https://fusioo.test/v3",
		PageSize:          50,
		RequestsPerSecond: 1000,
		Retry:             RetryPolicy{Attempts: 3, Backoff: time.Millisecond},
	})
	client.httpClient = &http.Client{Transport: transport}
	return client
}

func TestClient_FetchAllRecords_Pagination(t *testing.T) {
	// Three pages of 50, 50, and 10 records.
	pages := []int{50, 50, 10}
	var requestCount int

	mockTransport := &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			requestCount++

			if got := req.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("Authorization = %q, want Bearer test-token", got)
			}
			if !strings.Contains(req.URL.Path, "records/apps/itestapp") {
				t.Errorf("unexpected path %q", req.URL.Path)
			}
			if got := req.URL.Query().Get("limit"); got != "50" {
				t.Errorf("limit = %q, want 50", got)
			}

			offset, _ := strconv.Atoi(req.URL.Query().Get("offset"))
			page := offset / 50
			if page >= len(pages) {
				return jsonResponse(http.StatusOK, `{"data": []}`), nil
			}
			return jsonResponse(http.StatusOK, recordsPage(pages[page], offset)), nil
		},
	}

	client := newTestClient(mockTransport)
	records, err := client.FetchAllRecords(context.Background(), models.SourceActivity, "itestapp")
	if err != nil {
		t.Fatalf("FetchAllRecords failed: %v", err)
	}

	if len(records) != 110 {
		t.Errorf("got %d records, want 110", len(records))
	}
	if requestCount != 3 {
		t.Errorf("made %d requests, want 3 (short final page ends pagination)", requestCount)
	}
	if records[0].ID != "rec-0000" {
		t.Errorf("first record ID = %q, want rec-0000", records[0].ID)
	}
	if records[109].ID != "rec-0109" {
		t.Errorf("last record ID = %q, want rec-0109", records[109].ID)
	}
	for _, rec := range records {
		if rec.Source != models.SourceActivity {
			t.Fatalf("record %s tagged %v, want activity", rec.ID, rec.Source)
		}
	}
}

func TestClient_FetchAllRecords_EmptyCollection(t *testing.T) {
	mockTransport := &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"data": []}`), nil
		},
	}

	client := newTestClient(mockTransport)
	records, err := client.FetchAllRecords(context.Background(), models.SourceLegacy, "itestapp")
	if err != nil {
		t.Fatalf("FetchAllRecords failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestClient_FetchAllRecords_AuthError(t *testing.T) {
	var requestCount int
	mockTransport := &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			requestCount++
			return jsonResponse(http.StatusUnauthorized, `{"error": "invalid token"}`), nil
		},
	}

	client := newTestClient(mockTransport)
	_, err := client.FetchAllRecords(context.Background(), models.SourceActivity, "itestapp")
	if err == nil {
		t.Fatal("expected an error for 401 response")
	}

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v, want AuthError", err)
	}
	if !strings.Contains(err.Error(), "FUSIOO_ACCESS_TOKEN") {
		t.Errorf("error %q should name the token variable", err.Error())
	}
	if requestCount != 1 {
		t.Errorf("made %d requests, want 1 (auth errors are not retried)", requestCount)
	}
}

func TestClient_FetchAllRecords_RetriesServerErrors(t *testing.T) {
	var requestCount int
	mockTransport := &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			requestCount++
			if requestCount <= 2 {
				return jsonResponse(http.StatusInternalServerError, `{}`), nil
			}
			return jsonResponse(http.StatusOK, recordsPage(2, 0)), nil
		},
	}

	client := newTestClient(mockTransport)
	records, err := client.FetchAllRecords(context.Background(), models.SourceActivity, "itestapp")
	if err != nil {
		t.Fatalf("FetchAllRecords failed after retries: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
	if requestCount != 3 {
		t.Errorf("made %d requests, want 3", requestCount)
	}
}

func TestClient_FetchAllRecords_RateLimited(t *testing.T) {
	var requestCount int
	mockTransport := &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			requestCount++
			if requestCount == 1 {
				return jsonResponse(http.StatusTooManyRequests, `{}`), nil
			}
			return jsonResponse(http.StatusOK, recordsPage(1, 0)), nil
		},
	}

	client := newTestClient(mockTransport)
	records, err := client.FetchAllRecords(context.Background(), models.SourceActivity, "itestapp")
	if err != nil {
		t.Fatalf("FetchAllRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}
	if requestCount != 2 {
		t.Errorf("made %d requests, want 2", requestCount)
	}
}

func TestClient_FilterRecords(t *testing.T) {
	filters := map[string]any{
		"active_enrollment": map[string]any{"equal": true},
	}

	mockTransport := &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			if req.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", req.Method)
			}
			if !strings.HasSuffix(req.URL.Path, "/filter") {
				t.Errorf("path = %q, want filter endpoint", req.URL.Path)
			}

			var body map[string]any
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode request body: %v", err)
			}
			if _, ok := body["active_enrollment"]; !ok {
				t.Error("filter body missing active_enrollment")
			}

			return jsonResponse(http.StatusOK, recordsPage(3, 0)), nil
		},
	}

	client := newTestClient(mockTransport)
	records, err := client.FilterRecords(context.Background(), models.SourceActivity, "itestapp", filters)
	if err != nil {
		t.Fatalf("FilterRecords failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("got %d records, want 3", len(records))
	}
}

func TestClient_CountFiltered(t *testing.T) {
	mockTransport := &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			if !strings.HasSuffix(req.URL.Path, "/count/filter") {
				t.Errorf("path = %q, want count/filter endpoint", req.URL.Path)
			}
			return jsonResponse(http.StatusOK, `{"data": {"count": 42}}`), nil
		},
	}

	client := newTestClient(mockTransport)
	count, err := client.CountFiltered(context.Background(), "itestapp", map[string]any{
		"low_income_eligible": map[string]any{"contains": "Yes"},
	})
	if err != nil {
		t.Fatalf("CountFiltered failed: %v", err)
	}
	if count != 42 {
		t.Errorf("count = %d, want 42", count)
	}
}

func TestClient_FetchAllRecords_BadStatusNotRetried(t *testing.T) {
	var requestCount int
	mockTransport := &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			requestCount++
			return jsonResponse(http.StatusNotFound, `{"error": "no such app"}`), nil
		},
	}

	client := newTestClient(mockTransport)
	_, err := client.FetchAllRecords(context.Background(), models.SourceActivity, "imissing")
	if err == nil {
		t.Fatal("expected an error for 404 response")
	}
	if IsTransient(err) {
		t.Error("404 should not be transient")
	}
	if requestCount != 1 {
		t.Errorf("made %d requests, want 1", requestCount)
	}
}
