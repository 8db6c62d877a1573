// Package notify delivers user-facing notifications. It is the terminal
// counterpart of the original UI's toast and modal surfaces.
package notify

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// SupportEmail receives rate-limit escalation requests.
const SupportEmail = "support@codify.app"

// Notifier is the sink for user-visible messages. Stores report through it
// instead of printing directly so the CLI and the TUI can render messages
// their own way.
type Notifier interface {
	// Success reports a completed operation.
	Success(msg string)
	// Error reports a transient, dismissible failure.
	Error(msg string)
	// RateLimitModal reports an exhausted request budget with actionable
	// next steps, including a pre-filled support mail link.
	RateLimitModal(msg string)
}

// Theme holds the color scheme for terminal notifications.
type Theme struct {
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

var defaultTheme = Theme{
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// Terminal writes styled notifications to a writer (normally stderr).
type Terminal struct {
	out   io.Writer
	theme Theme
}

// NewTerminal creates a terminal notifier.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out, theme: defaultTheme}
}

// Success reports a completed operation.
func (t *Terminal) Success(msg string) {
	fmt.Fprintln(t.out, t.theme.successStyle().Render("✓ "+msg))
}

// Error reports a transient failure.
func (t *Terminal) Error(msg string) {
	fmt.Fprintln(t.out, t.theme.errorStyle().Render("✗ "+msg))
}

// RateLimitModal renders the rate-limit escalation block with a mailto
// link pre-filled with a support request.
func (t *Terminal) RateLimitModal(msg string) {
	fmt.Fprintln(t.out, t.theme.errorStyle().Render("✗ "+msg))
	fmt.Fprintln(t.out, t.theme.hintStyle().Render("  To request a higher limit, contact:"))
	fmt.Fprintln(t.out, t.theme.hintStyle().Render("  "+SupportMailto()))
}

// SupportMailto builds the pre-filled support mail link shown when the
// request budget is exhausted.
func SupportMailto() string {
	subject := "Codify rate limit increase request"
	body := strings.Join([]string{
		"Hi Codify team,",
		"",
		"I have hit the request limit and would like to request a higher quota.",
		"",
		"Thanks!",
	}, "\n")

	q := url.Values{}
	q.Set("subject", subject)
	q.Set("body", body)
	// mailto query strings conventionally use %20 rather than '+'.
	return "mailto:" + SupportEmail + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}

// Recorder captures notifications for tests.
type Recorder struct {
	mu         sync.Mutex
	Successes  []string
	Errors     []string
	RateLimits []string
}

// Success records a success message.
func (r *Recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Successes = append(r.Successes, msg)
}

// Error records an error message.
func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, msg)
}

// RateLimitModal records a rate-limit message.
func (r *Recorder) RateLimitModal(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.RateLimits = append(r.RateLimits, msg)
}

// Discard drops all notifications.
type Discard struct{}

func (Discard) Success(string)        {}
func (Discard) Error(string)          {}
func (Discard) RateLimitModal(string) {}

// compile-time interface checks
var (
	_ Notifier = (*Terminal)(nil)
	_ Notifier = (*Recorder)(nil)
	_ Notifier = Discard{}
)
