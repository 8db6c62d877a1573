// Package config resolves the Codify client configuration.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default values used when neither the environment nor the config file
// provides a setting.
const (
	DefaultBaseURL = "http://localhost:5000"
	DefaultTimeout = 30 * time.Second
)

// RateLimitPreset is the request budget for one user class.
type RateLimitPreset struct {
	Requests int    `yaml:"requests"`
	Message  string `yaml:"message"`
}

// Rate-limit presets. Development is effectively unlimited; production
// enforces the real guest/authenticated ceilings.
var (
	devPreset = RateLimitPreset{
		Requests: 999999,
		Message:  "Development Mode - Unlimited Requests",
	}
	guestPreset = RateLimitPreset{
		Requests: 10,
		Message:  "Guest user limits",
	}
	authenticatedPreset = RateLimitPreset{
		Requests: 100,
		Message:  "Authenticated user limits",
	}
)

// Config holds all configuration values, resolved once at startup.
type Config struct {
	// Environment detection
	Environment string // "development" or "production"

	// Backend API
	BaseURL  string
	Timeout  time.Duration
	MockMode bool
	Debug    bool

	// Feature flags
	EnableRateLimiting bool

	// Logging
	LogFile  string
	LogLevel slog.Level

	// Local state directory (token, chat threads)
	DataDir string
}

// fileConfig mirrors the optional YAML config file. Environment variables
// take precedence over file values.
type fileConfig struct {
	Environment string `yaml:"environment"`
	BaseURL     string `yaml:"base_url"`
	Timeout     string `yaml:"timeout"`
	MockMode    *bool  `yaml:"mock_mode"`
	Debug       *bool  `yaml:"debug"`
	LogFile     string `yaml:"log_file"`
	LogLevel    string `yaml:"log_level"`
	DataDir     string `yaml:"data_dir"`
}

// Load reads configuration from the environment, an optional .env file and
// an optional ~/.config/codify/config.yaml. Missing values fall back to the
// documented defaults.
func Load() Config {
	// Best-effort: a missing .env file is not an error.
	_ = godotenv.Load()

	fc := loadFile(configFilePath())

	env := getEnv("CODIFY_ENV", fc.Environment)
	if env != "production" {
		env = "development"
	}
	isDev := env == "development"

	cfg := Config{
		Environment: env,
		BaseURL:     getEnv("CODIFY_BACKEND_URL", fc.BaseURL),
		Timeout:     parseDuration(getEnv("CODIFY_API_TIMEOUT", fc.Timeout), DefaultTimeout),
		MockMode:    parseBool(os.Getenv("CODIFY_USE_MOCK"), boolOr(fc.MockMode, false)),
		Debug:       parseBool(os.Getenv("CODIFY_API_DEBUG"), boolOr(fc.Debug, false)),

		// Rate limiting is disabled in development.
		EnableRateLimiting: !isDev,

		LogFile:  getEnv("CODIFY_LOG_FILE", fc.LogFile),
		LogLevel: parseLogLevel(getEnv("CODIFY_LOG_LEVEL", fc.LogLevel)),
		DataDir:  getEnv("CODIFY_DATA_DIR", fc.DataDir),
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(os.TempDir(), "codify.log")
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}

	return cfg
}

// IsDevelopment reports whether the client runs in development mode.
func (c Config) IsDevelopment() bool { return c.Environment == "development" }

// IsProduction reports whether the client runs in production mode.
func (c Config) IsProduction() bool { return c.Environment == "production" }

// RateLimitConfig selects the request budget for the current identity class.
func (c Config) RateLimitConfig(isAuthenticated bool) RateLimitPreset {
	if c.IsDevelopment() {
		return devPreset
	}
	if isAuthenticated {
		return authenticatedPreset
	}
	return guestPreset
}

// BypassRateLimit reports whether client-side rate tracking should be
// skipped entirely (development, or the feature flag is off).
func (c Config) BypassRateLimit() bool {
	return c.IsDevelopment() || !c.EnableRateLimiting
}

func configFilePath() string {
	if p := os.Getenv("CODIFY_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "codify", "config.yaml")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "codify")
}

// loadFile parses the YAML config file. Errors are ignored, matching the
// fall-back-to-defaults contract.
func loadFile(path string) fileConfig {
	var fc fileConfig
	if path == "" {
		return fc
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fileConfig{}
	}
	return fc
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	// Bare numbers are milliseconds, matching the original timeout setting.
	if ms, err := strconv.Atoi(s); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

func parseBool(s string, fallback bool) bool {
	if s == "" {
		return fallback
	}
	return s == "true" || s == "1"
}

func boolOr(b *bool, fallback bool) bool {
	if b != nil {
		return *b
	}
	return fallback
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
