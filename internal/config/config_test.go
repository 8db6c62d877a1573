package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestRateLimitConfig(t *testing.T) {
	tests := []struct {
		name          string
		env           string
		authenticated bool
		wantRequests  int
	}{
		{"development guest", "development", false, 999999},
		{"development authenticated", "development", true, 999999},
		{"production guest", "production", false, 10},
		{"production authenticated", "production", true, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Environment: tt.env}
			got := cfg.RateLimitConfig(tt.authenticated)
			if got.Requests != tt.wantRequests {
				t.Errorf("RateLimitConfig(%v).Requests = %d, want %d",
					tt.authenticated, got.Requests, tt.wantRequests)
			}
			if got.Message == "" {
				t.Error("RateLimitConfig() returned empty message")
			}
		})
	}
}

func TestBypassRateLimit(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    bool
	}{
		{"development always bypasses", Config{Environment: "development", EnableRateLimiting: true}, true},
		{"production with flag enforces", Config{Environment: "production", EnableRateLimiting: true}, false},
		{"production with flag off bypasses", Config{Environment: "production", EnableRateLimiting: false}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.BypassRateLimit(); got != tt.want {
				t.Errorf("BypassRateLimit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnvironmentExclusivity(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		cfg := Config{Environment: env}
		if cfg.IsDevelopment() == cfg.IsProduction() {
			t.Errorf("env %q: IsDevelopment and IsProduction must be mutually exclusive", env)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	// Isolate from the caller's environment and any real config file.
	t.Setenv("CODIFY_CONFIG", "/nonexistent/config.yaml")
	t.Setenv("CODIFY_ENV", "")
	t.Setenv("CODIFY_BACKEND_URL", "")
	t.Setenv("CODIFY_API_TIMEOUT", "")
	t.Setenv("CODIFY_USE_MOCK", "")
	t.Setenv("CODIFY_API_DEBUG", "")

	cfg := Load()

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if !cfg.IsDevelopment() {
		t.Error("default environment should be development")
	}
	if cfg.MockMode {
		t.Error("MockMode should default to false")
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", DefaultTimeout},
		{"5s", 5 * time.Second},
		{"30000", 30 * time.Second}, // bare millisecond count
		{"garbage", DefaultTimeout},
	}

	for _, tt := range tests {
		if got := parseDuration(tt.in, DefaultTimeout); got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
