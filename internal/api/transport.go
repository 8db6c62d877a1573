package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// mockDelay is the artificial latency added to fixture responses so mock
// mode behaves like a network round-trip.
const mockDelay = 500 * time.Millisecond

// Request describes one backend call, independent of how it is carried
// out. Body is already encoded; Header carries content type and any
// caller-supplied headers such as the bearer token.
type Request struct {
	Method string
	Path   string // path under the base URL; "" targets the base URL itself
	Body   io.Reader
	Header http.Header
}

// Response is the raw outcome of a carried-out request.
type Response struct {
	Status     int
	StatusText string
	Body       []byte
}

// Transport carries requests to the backend. The live implementation
// speaks HTTP; the fixture implementation short-circuits to canned
// payloads for mock mode. Selected once at client construction.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// liveTransport performs real HTTP requests against the backend.
type liveTransport struct {
	baseURL    string
	httpClient *http.Client
}

func newLiveTransport(baseURL string, timeout time.Duration) *liveTransport {
	return &liveTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (t *liveTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	url := t.baseURL + req.Path

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, req.Body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Body:       body,
	}, nil
}

// fixture is one canned response keyed by method and path.
type fixture struct {
	status int
	body   string
}

// fixtureTransport answers known endpoints from a canned table after a
// fixed artificial delay, keeping mock mode out of the live code path.
type fixtureTransport struct {
	delay    time.Duration
	fixtures map[string]fixture
}

// NewFixtureTransport returns the mock-mode transport with the default
// fixture table and artificial delay.
func NewFixtureTransport() Transport {
	return newFixtureTransport(mockDelay)
}

func newFixtureTransport(delay time.Duration) *fixtureTransport {
	return &fixtureTransport{
		delay:    delay,
		fixtures: defaultFixtures(),
	}
}

func (t *fixtureTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	select {
	case <-time.After(t.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	key := req.Method + " " + req.Path
	fx, ok := t.fixtures[key]
	if !ok {
		return nil, &APIError{
			Message: fmt.Sprintf("no mock fixture for %s", key),
		}
	}

	return &Response{
		Status:     fx.status,
		StatusText: http.StatusText(fx.status),
		Body:       []byte(fx.body),
	}, nil
}

// defaultFixtures builds the canned payload table for mock mode. The chat
// fixture carries the data unwrapped because the live chat endpoint
// responds with a plain body; every other endpoint keeps the full
// envelope.
func defaultFixtures() map[string]fixture {
	return map[string]fixture{
		"HEAD ": {status: 200, body: ""},

		"POST /api/ai/chat": {status: 200, body: `{
			"message": "This is a mock reply. Enable a live backend to get real answers.",
			"threadId": "mock-thread-1"
		}`},

		"POST /api/ai/review-text": {status: 200, body: `{
			"success": true,
			"data": {
				"summary": "Mock review: the code looks reasonable overall.",
				"issues": [
					{
						"type": "suggestion",
						"severity": "low",
						"line": 1,
						"description": "Consider adding a doc comment.",
						"suggestion": "Document the exported function."
					}
				],
				"suggestions": ["Add unit tests for edge cases."],
				"securityConcerns": [],
				"codeQuality": {"readability": 8, "maintainability": 7, "complexity": "Low"},
				"threadId": "mock-thread-1"
			}
		}`},

		"POST /api/ai/review-files": {status: 200, body: `{
			"success": true,
			"data": {
				"summary": "Mock multi-file review.",
				"issues": [],
				"suggestions": [],
				"securityConcerns": [],
				"codeQuality": {"readability": 7, "maintainability": 7, "complexity": "Medium"},
				"threadId": "mock-thread-1",
				"filesAnalyzed": [
					{"filename": "main.go", "language": "Go", "size": 1024}
				]
			}
		}`},

		"GET /api/ai/languages": {status: 200, body: `{
			"success": true,
			"data": {
				"supportedExtensions": [".go", ".js", ".ts", ".py"],
				"languages": [
					{"extension": ".go", "language": "Go"},
					{"extension": ".js", "language": "JavaScript"},
					{"extension": ".ts", "language": "TypeScript"},
					{"extension": ".py", "language": "Python"}
				],
				"maxFileSize": "1MB",
				"maxFiles": 5
			}
		}`},

		"GET /api/ai/guidelines": {status: 200, body: `{
			"success": true,
			"data": {
				"reviewCriteria": ["Correctness", "Readability", "Security"],
				"severityLevels": {"low": "Minor", "medium": "Should fix", "high": "Must fix"},
				"issueTypes": {"bug": "Defect", "security": "Vulnerability", "suggestion": "Improvement"},
				"tips": ["Keep functions small.", "Validate inputs at the boundary."]
			}
		}`},

		"GET /api/rate-limit/status": {status: 200, body: `{
			"success": true,
			"data": {"remaining": 10, "total": 10, "userType": "guest"}
		}`},
	}
}
