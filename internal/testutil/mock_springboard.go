// Package testutil provides testing utilities for the Springboard client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// MockSpringboard is a configurable mock Springboard tenant API for testing.
// It serves the /api/{path}?page=n wire format and tracks every request it
// receives.
type MockSpringboard struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	requestCount      int
	pagesRequested    []int
	lastAuthorization string
}

// NewMockSpringboard creates a new mock tenant server.
func NewMockSpringboard() *MockSpringboard {
	mock := &MockSpringboard{
		handlers: make(map[string]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))

		mock.mu.Lock()
		mock.requestCount++
		mock.pagesRequested = append(mock.pagesRequested, page)
		mock.lastAuthorization = r.Header.Get("Authorization")
		mock.mu.Unlock()

		path := strings.TrimPrefix(r.URL.Path, "/api/")

		mock.mu.RLock()
		handler, exists := mock.handlers[path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"error": "collection %s not found"}`, path)
	}))

	return mock
}

// URL returns the mock tenant API root, suitable for client.Config.BaseURL.
func (m *MockSpringboard) URL() string {
	return m.server.URL + "/api"
}

// Close shuts down the mock server.
func (m *MockSpringboard) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockSpringboard) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.pagesRequested = nil
	m.lastAuthorization = ""
}

// Handle registers a custom handler for a collection path (no /api prefix).
func (m *MockSpringboard) Handle(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// ServeCollection registers a collection of raw JSON records served in
// pages of perPage records each, following the results/pages envelope.
func (m *MockSpringboard) ServeCollection(path string, records []string, perPage int) {
	m.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}

		pages := (len(records) + perPage - 1) / perPage
		if pages < 1 {
			pages = 1
		}

		start := (page - 1) * perPage
		end := start + perPage
		if start > len(records) {
			start = len(records)
		}
		if end > len(records) {
			end = len(records)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, PagedBody(records[start:end], pages))
	})
}

// PagedBody builds a results/pages envelope from raw JSON records.
func PagedBody(records []string, pages int) string {
	return fmt.Sprintf(`{"results": [%s], "pages": %d}`, strings.Join(records, ", "), pages)
}

// ErrorBody builds an envelope carrying an application error message.
func ErrorBody(message string) string {
	b, _ := json.Marshal(message)
	return fmt.Sprintf(`{"error": %s}`, b)
}

// GetRequestCount returns the number of requests received.
func (m *MockSpringboard) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// GetPagesRequested returns the page numbers requested, in order.
func (m *MockSpringboard) GetPagesRequested() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int(nil), m.pagesRequested...)
}

// GetLastAuthorization returns the Authorization header of the most recent
// request.
func (m *MockSpringboard) GetLastAuthorization() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastAuthorization
}
