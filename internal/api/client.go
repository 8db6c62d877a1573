package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/codifyapp/codify-go/internal/config"
	"github.com/codifyapp/codify-go/internal/metrics"
)

// healthTimeout bounds the reachability check.
const healthTimeout = 5 * time.Second

// TokenSource supplies the current bearer token, or "" when anonymous.
// The auth store owns the token; the client only reads it per call.
type TokenSource func() string

// Client exposes the typed backend operations. All failures are *APIError.
type Client struct {
	transport Transport
	token     TokenSource
	log       *slog.Logger
	metrics   *metrics.Collector
}

// Option configures a Client.
type Option func(*Client)

// WithTransport overrides the transport (fixtures, tests).
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithTokenSource sets the bearer-token supplier for authenticated calls.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics sets the request-timing collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient builds a gateway client from the resolved configuration.
// Mock mode swaps in the fixture transport at construction time.
func NewClient(cfg config.Config, opts ...Option) *Client {
	c := &Client{
		token: func() string { return "" },
		log:   slog.Default(),
	}
	if cfg.MockMode {
		c.transport = NewFixtureTransport()
	} else {
		c.transport = newLiveTransport(cfg.BaseURL, cfg.Timeout)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// AUTH OPERATIONS
// =============================================================================

// Login exchanges credentials for a user record and bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doJSON(ctx, metrics.OpAuth, http.MethodPost, "/api/auth/login", req, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. The backend answers 409 for duplicates.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doJSON(ctx, metrics.OpAuth, http.MethodPost, "/api/auth/register", req, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the authenticated user's record.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.doJSON(ctx, metrics.OpAuth, http.MethodGet, "/api/auth/profile", nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateProfile replaces profile fields and returns the updated record.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.doJSON(ctx, metrics.OpAuth, http.MethodPut, "/api/auth/profile", req, true, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ChangePassword rotates the account password.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) (string, error) {
	var resp MessageResponse
	if err := c.doJSON(ctx, metrics.OpAuth, http.MethodPost, "/api/auth/change-password", req, true, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Logout invalidates the session server-side. Callers treat failures as
// best-effort: local cleanup happens regardless.
func (c *Client) Logout(ctx context.Context) error {
	var resp MessageResponse
	return c.doJSON(ctx, metrics.OpAuth, http.MethodPost, "/api/auth/logout", nil, true, &resp)
}

// =============================================================================
// AI OPERATIONS
// =============================================================================

// Chat sends one message and returns the assistant reply together with
// the backend thread id to carry into the next turn.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.doJSON(ctx, metrics.OpChat, http.MethodPost, "/api/ai/chat", req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReviewText analyzes a single snippet and returns the normalized
// analysis results.
func (c *Client) ReviewText(ctx context.Context, req CodeAnalysisRequest) (*AnalysisResults, error) {
	var resp envelope[CodeReviewResult]
	if err := c.doJSON(ctx, metrics.OpReviewText, http.MethodPost, "/api/ai/review-text", req, true, &resp); err != nil {
		return nil, err
	}
	results := TransformCodeReview(resp.Data)
	return &results, nil
}

// ReviewFiles uploads files for analysis using multipart form encoding.
// It bypasses the JSON request path but follows the same error
// classification, including the 429 special case.
func (c *Client) ReviewFiles(ctx context.Context, files []UploadFile, threadID string) (*AnalysisResults, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, &APIError{Message: fmt.Sprintf("encode upload: %v", err)}
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, &APIError{Message: fmt.Sprintf("encode upload: %v", err)}
		}
	}
	if threadID != "" {
		if err := w.WriteField("threadId", threadID); err != nil {
			return nil, &APIError{Message: fmt.Sprintf("encode upload: %v", err)}
		}
	}
	if err := w.Close(); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("encode upload: %v", err)}
	}

	header := http.Header{}
	header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.do(ctx, metrics.OpReviewFiles, &Request{
		Method: http.MethodPost,
		Path:   "/api/ai/review-files",
		Body:   &buf,
		Header: header,
	})
	if err != nil {
		return nil, err
	}

	var env envelope[CodeReviewResult]
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("unmarshal response: %v", err)}
	}
	results := TransformCodeReview(env.Data)
	return &results, nil
}

// SupportedLanguages lists the formats the backend accepts for upload.
func (c *Client) SupportedLanguages(ctx context.Context) (*LanguagesInfo, error) {
	var resp envelope[LanguagesInfo]
	if err := c.doJSON(ctx, metrics.OpMeta, http.MethodGet, "/api/ai/languages", nil, false, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Guidelines fetches the backend's review criteria.
func (c *Client) Guidelines(ctx context.Context) (*Guidelines, error) {
	var resp envelope[Guidelines]
	if err := c.doJSON(ctx, metrics.OpMeta, http.MethodGet, "/api/ai/guidelines", nil, false, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// RateLimitStatus fetches the backend's authoritative quota view. The
// client-side tracker stays advisory; this is for display only.
func (c *Client) RateLimitStatus(ctx context.Context) (*RateLimitInfo, error) {
	var resp envelope[RateLimitInfo]
	if err := c.doJSON(ctx, metrics.OpMeta, http.MethodGet, "/api/rate-limit/status", nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// =============================================================================
// HEALTH
// =============================================================================

// CheckStatus verifies the backend is reachable with a lightweight HEAD
// request bounded by a 5-second deadline. It never reads the live health
// endpoint's body; on success it returns a static capability descriptor.
func (c *Client) CheckStatus(ctx context.Context) (*StatusInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	start := time.Now()
	_, err := c.transport.Do(ctx, &Request{Method: http.MethodHead, Path: ""})
	c.record(metrics.OpHealth, start, err != nil)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &APIError{
				Message: "API health check timed out",
				Status:  http.StatusRequestTimeout,
				Code:    CodeTimeout,
			}
		}
		return nil, &APIError{
			Message: "Backend API is not reachable",
			Status:  http.StatusServiceUnavailable,
			Code:    CodeServiceUnavailable,
		}
	}

	return &StatusInfo{
		Status:    "online",
		Version:   "1.0.0",
		Endpoints: []string{"/chat", "/analyze", "/analyze-files"},
	}, nil
}

// CheckHealth reads the live health endpoint's body.
func (c *Client) CheckHealth(ctx context.Context) (*HealthInfo, error) {
	var resp HealthInfo
	if err := c.doJSON(ctx, metrics.OpHealth, http.MethodGet, "/health", nil, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// doJSON encodes body as JSON, performs the request and decodes the
// response into out.
func (c *Client) doJSON(ctx context.Context, op, method, path string, body any, authed bool, out any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fmt.Sprintf("marshal request: %v", err)}
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	req := &Request{
		Method: method,
		Path:   path,
		Body:   reader,
		Header: header,
	}
	if authed {
		c.authorize(req)
	}

	resp, err := c.do(ctx, op, req)
	if err != nil {
		return err
	}

	if out != nil && len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return &APIError{Message: fmt.Sprintf("unmarshal response: %v", err)}
		}
	}
	return nil
}

// do runs the request through the transport and classifies failures.
func (c *Client) do(ctx context.Context, op string, req *Request) (*Response, error) {
	start := time.Now()
	resp, err := c.transport.Do(ctx, req)
	failed := err != nil || resp.Status < 200 || resp.Status > 299
	c.record(op, start, failed)

	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		// Transport failure that never produced a response: no status.
		return nil, &APIError{Message: err.Error()}
	}

	c.log.Debug("api request",
		"method", req.Method,
		"path", req.Path,
		"status", resp.Status,
		"duration", time.Since(start),
	)

	if resp.Status < 200 || resp.Status > 299 {
		return nil, classifyResponse(resp)
	}
	return resp, nil
}

func (c *Client) authorize(req *Request) {
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) record(op string, start time.Time, failed bool) {
	if c.metrics != nil {
		c.metrics.Record(op, time.Since(start), failed)
	}
}

// classifyResponse converts a non-2xx response into an APIError. A 429
// always yields the fixed rate-limit message regardless of the body;
// otherwise the parsed error body wins, falling back to a generic
// status-line message.
func classifyResponse(resp *Response) *APIError {
	if resp.Status == http.StatusTooManyRequests {
		return &APIError{
			Message: RateLimitMessage,
			Status:  resp.Status,
			Code:    CodeRateLimitExceeded,
		}
	}

	var body struct {
		Message string `json:"message"`
		Code    string `json:"code"`
		Error   string `json:"error"`
	}
	// A non-JSON error body is fine; the fallback message covers it.
	_ = json.Unmarshal(resp.Body, &body)

	code := body.Code
	if code == "" {
		code = body.Error
	}
	msg := body.Message
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d: %s", resp.Status, resp.StatusText)
	}

	return &APIError{Message: msg, Status: resp.Status, Code: code}
}
