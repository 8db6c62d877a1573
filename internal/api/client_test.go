package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codifyapp/codify-go/internal/config"
)

func testClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}
	return NewClient(cfg, opts...), srv
}

func TestRateLimitClassification(t *testing.T) {
	// Any 429 must map to the fixed code and message, whatever the body says.
	bodies := []string{
		`{"message": "custom backend text", "code": "SOMETHING_ELSE"}`,
		`not even json`,
		``,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(body))
			}))

			_, err := c.Chat(context.Background(), ChatRequest{Message: "hi"})
			apiErr, ok := IsAPIError(err)
			if !ok {
				t.Fatalf("Chat() error = %v, want *APIError", err)
			}
			if apiErr.Code != CodeRateLimitExceeded {
				t.Errorf("Code = %q, want %q", apiErr.Code, CodeRateLimitExceeded)
			}
			if apiErr.Status != http.StatusTooManyRequests {
				t.Errorf("Status = %d, want 429", apiErr.Status)
			}
			if apiErr.Message != RateLimitMessage {
				t.Errorf("Message = %q, want fixed rate-limit message", apiErr.Message)
			}
			if !IsRateLimited(err) {
				t.Error("IsRateLimited() = false, want true")
			}
		})
	}
}

func TestErrorBodyParsing(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantCode    string
	}{
		{
			name:        "backend message and code pass through",
			status:      400,
			body:        `{"message": "code field is required", "code": "VALIDATION"}`,
			wantMessage: "code field is required",
			wantCode:    "VALIDATION",
		},
		{
			name:        "error field used as code fallback",
			status:      400,
			body:        `{"message": "bad upload", "error": "UPLOAD_FAILED"}`,
			wantMessage: "bad upload",
			wantCode:    "UPLOAD_FAILED",
		},
		{
			name:        "unparseable body falls back to status line",
			status:      500,
			body:        `<html>oops</html>`,
			wantMessage: "HTTP 500: Internal Server Error",
			wantCode:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			_, err := c.Profile(context.Background())
			apiErr, ok := IsAPIError(err)
			if !ok {
				t.Fatalf("Profile() error = %v, want *APIError", err)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", apiErr.Code, tt.wantCode)
			}
			if apiErr.Status != tt.status {
				t.Errorf("Status = %d, want %d", apiErr.Status, tt.status)
			}
		})
	}
}

func TestBearerTokenInjection(t *testing.T) {
	var gotAuth string
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"user": {"id": "u1", "name": "Ada", "email": "ada@example.com"}}`))
	}), WithTokenSource(func() string { return "tok-42" }))

	user, err := c.Profile(context.Background())
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if gotAuth != "Bearer tok-42" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-42")
	}
	if user.ID != "u1" || user.Name != "Ada" {
		t.Errorf("Profile() = %+v, want u1/Ada", user)
	}
}

func TestAnonymousCallOmitsAuthHeader(t *testing.T) {
	var gotAuth string
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"user": {"id": "u1"}, "token": "t1"}`))
	}))

	if _, err := c.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "pw"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty for anonymous call", gotAuth)
	}
}

func TestNetworkFailureHasNoStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // connection refused from here on

	c := NewClient(config.Config{BaseURL: url, Timeout: time.Second})
	_, err := c.Chat(context.Background(), ChatRequest{Message: "hi"})
	apiErr, ok := IsAPIError(err)
	if !ok {
		t.Fatalf("Chat() error = %v, want *APIError", err)
	}
	if apiErr.Status != 0 {
		t.Errorf("Status = %d, want 0 for transport failure", apiErr.Status)
	}
	if apiErr.Message == "" {
		t.Error("Message is empty, want transport error text")
	}
}

// stallTransport simulates transports that never produce a response.
type stallTransport struct {
	err error
}

func (s stallTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	return nil, s.err
}

func TestCheckStatus(t *testing.T) {
	t.Run("reachable backend yields capability descriptor", func(t *testing.T) {
		c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodHead {
				t.Errorf("health check method = %q, want HEAD", r.Method)
			}
		}))

		info, err := c.CheckStatus(context.Background())
		if err != nil {
			t.Fatalf("CheckStatus() error = %v", err)
		}
		if info.Status != "online" || info.Version != "1.0.0" {
			t.Errorf("CheckStatus() = %+v, want online/1.0.0", info)
		}
		if len(info.Endpoints) != 3 {
			t.Errorf("Endpoints = %v, want 3 entries", info.Endpoints)
		}
	})

	t.Run("deadline maps to 408 TIMEOUT", func(t *testing.T) {
		c := NewClient(config.Config{BaseURL: "http://localhost:1", Timeout: time.Second},
			WithTransport(stallTransport{err: context.DeadlineExceeded}))

		_, err := c.CheckStatus(context.Background())
		apiErr, ok := IsAPIError(err)
		if !ok {
			t.Fatalf("CheckStatus() error = %v, want *APIError", err)
		}
		if apiErr.Status != 408 || apiErr.Code != CodeTimeout {
			t.Errorf("got %d/%s, want 408/%s", apiErr.Status, apiErr.Code, CodeTimeout)
		}
	})

	t.Run("other failures map to 503 SERVICE_UNAVAILABLE", func(t *testing.T) {
		c := NewClient(config.Config{BaseURL: "http://localhost:1", Timeout: time.Second},
			WithTransport(stallTransport{err: errors.New("connection refused")}))

		_, err := c.CheckStatus(context.Background())
		apiErr, ok := IsAPIError(err)
		if !ok {
			t.Fatalf("CheckStatus() error = %v, want *APIError", err)
		}
		if apiErr.Status != 503 || apiErr.Code != CodeServiceUnavailable {
			t.Errorf("got %d/%s, want 503/%s", apiErr.Status, apiErr.Code, CodeServiceUnavailable)
		}
	})
}

func TestReviewFilesMultipart(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm() error = %v", err)
		}
		if got := len(r.MultipartForm.File["files"]); got != 2 {
			t.Errorf("files count = %d, want 2", got)
		}
		if got := r.FormValue("threadId"); got != "th-9" {
			t.Errorf("threadId = %q, want th-9", got)
		}
		w.Write([]byte(`{"success": true, "data": {
			"summary": "ok",
			"issues": [],
			"suggestions": [],
			"securityConcerns": [],
			"codeQuality": {"readability": 8, "maintainability": 8, "complexity": "Low"},
			"threadId": "th-9"
		}}`))
	}))

	files := []UploadFile{
		{Name: "a.go", Content: []byte("package a")},
		{Name: "b.go", Content: []byte("package b")},
	}
	results, err := c.ReviewFiles(context.Background(), files, "th-9")
	if err != nil {
		t.Fatalf("ReviewFiles() error = %v", err)
	}
	if results.Summary.Score != 80 {
		t.Errorf("Score = %d, want 80", results.Summary.Score)
	}
}

func TestReviewFiles429(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "quota"}`))
	}))

	_, err := c.ReviewFiles(context.Background(), []UploadFile{{Name: "a.go"}}, "")
	if !IsRateLimited(err) {
		t.Fatalf("ReviewFiles() error = %v, want rate-limit classification", err)
	}
}

func TestEnvelopeUnwrapping(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": {
			"supportedExtensions": [".go"],
			"languages": [{"extension": ".go", "language": "Go"}],
			"maxFileSize": "1MB",
			"maxFiles": 5
		}}`))
	}))

	info, err := c.SupportedLanguages(context.Background())
	if err != nil {
		t.Fatalf("SupportedLanguages() error = %v", err)
	}
	if len(info.SupportedExtensions) != 1 || info.MaxFiles != 5 {
		t.Errorf("SupportedLanguages() = %+v", info)
	}
}
