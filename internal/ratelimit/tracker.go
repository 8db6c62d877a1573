// Package ratelimit tracks the client-side request budget. The counter
// is advisory: enforcement is the backend's job (HTTP 429), this tracker
// only pre-empts calls and drives messaging. It is never a security
// boundary.
package ratelimit

import (
	"log/slog"
	"sync"
	"time"

	"github.com/codifyapp/codify-go/internal/config"
	"github.com/codifyapp/codify-go/internal/notify"
)

// User classes tracked against separate budgets.
const (
	UserTypeGuest         = "guest"
	UserTypeAuthenticated = "authenticated"
)

// limitExceededMessage is shown when the local counter runs out.
const limitExceededMessage = "Rate limit exceeded. Please login to continue."

// Status is the tracker's snapshot.
type Status struct {
	IsLimited         bool
	RemainingRequests int
	TotalRequests     int
	ResetTime         *time.Time
	UserType          string
	Message           string
}

// Patch is a merge-patch for Status; nil fields are left untouched. It
// is the escape hatch for callers holding authoritative counts from the
// backend (e.g. a 429 response body).
type Patch struct {
	IsLimited         *bool
	RemainingRequests *int
	TotalRequests     *int
	ResetTime         *time.Time
	UserType          *string
	Message           *string
}

// action is the tagged union driving the tracker reducer.
type action interface{ isAction() }

type setLoading struct{}

type updateStatus struct {
	patch Patch
}

type resetLimits struct{}

type setLimitExceeded struct{}

func (setLoading) isAction()       {}
func (updateStatus) isAction()     {}
func (resetLimits) isAction()      {}
func (setLimitExceeded) isAction() {}

// reduce is the pure tracker transition function.
func reduce(status Status, a action) Status {
	switch a := a.(type) {
	case setLoading:
		status.IsLimited = false
		return status
	case updateStatus:
		p := a.patch
		if p.IsLimited != nil {
			status.IsLimited = *p.IsLimited
		}
		if p.RemainingRequests != nil {
			status.RemainingRequests = *p.RemainingRequests
		}
		if p.TotalRequests != nil {
			status.TotalRequests = *p.TotalRequests
		}
		if p.ResetTime != nil {
			status.ResetTime = p.ResetTime
		}
		if p.UserType != nil {
			status.UserType = *p.UserType
		}
		if p.Message != nil {
			status.Message = *p.Message
		}
		return status
	case resetLimits:
		status.IsLimited = false
		status.RemainingRequests = status.TotalRequests
		status.ResetTime = nil
		status.Message = ""
		return status
	case setLimitExceeded:
		status.IsLimited = true
		status.RemainingRequests = 0
		status.Message = limitExceededMessage
		return status
	default:
		return status
	}
}

// Tracker owns the rate-limit state. The session's authentication flag
// is the only external input it depends on.
type Tracker struct {
	cfg    config.Config
	notify notify.Notifier
	log    *slog.Logger

	mu     sync.Mutex
	status Status
}

// NewTracker initializes the tracker with the guest budget.
func NewTracker(cfg config.Config, n notify.Notifier, log *slog.Logger) *Tracker {
	if n == nil {
		n = notify.Discard{}
	}
	if log == nil {
		log = slog.Default()
	}
	preset := cfg.RateLimitConfig(false)
	return &Tracker{
		cfg:    cfg,
		notify: n,
		log:    log,
		status: Status{
			RemainingRequests: preset.Requests,
			TotalRequests:     preset.Requests,
			UserType:          UserTypeGuest,
			Message:           presetMessage(cfg, preset),
		},
	}
}

// Status returns the current snapshot.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// HandleAuthChange swaps the active budget when the session's
// authentication flag changes. The new class always starts with a full
// budget; the previous remainder never carries over.
func (t *Tracker) HandleAuthChange(isAuthenticated bool) {
	preset := t.cfg.RateLimitConfig(isAuthenticated)
	userType := UserTypeGuest
	if isAuthenticated {
		userType = UserTypeAuthenticated
	}

	limited := false
	msg := presetMessage(t.cfg, preset)
	t.dispatch(updateStatus{patch: Patch{
		IsLimited:         &limited,
		RemainingRequests: &preset.Requests,
		TotalRequests:     &preset.Requests,
		UserType:          &userType,
		Message:           &msg,
	}})

	t.log.Debug("rate limits updated", "userType", userType, "requests", preset.Requests)
}

// Check flips the tracker into the exhausted state when the budget is
// spent. It performs no network round-trip: the server's 429 stays the
// sole source of truth, the local counter is best-effort UX.
func (t *Tracker) Check() {
	if t.cfg.BypassRateLimit() {
		t.log.Debug("rate limiting disabled - skipping check")
		return
	}

	t.mu.Lock()
	exhausted := t.status.RemainingRequests <= 0 && !t.status.IsLimited
	if exhausted {
		t.status = reduce(t.status, setLimitExceeded{})
	}
	t.mu.Unlock()

	if exhausted {
		t.notify.Error("Rate limit exceeded. Please login to continue with higher limits.")
	}
}

// Decrement consumes one request from the budget after a successful
// gated call.
func (t *Tracker) Decrement() {
	if t.cfg.BypassRateLimit() {
		t.log.Debug("rate limiting disabled - skipping request decrement")
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status.RemainingRequests > 0 {
		remaining := t.status.RemainingRequests - 1
		t.status = reduce(t.status, updateStatus{patch: Patch{RemainingRequests: &remaining}})
		t.log.Debug("request decremented", "remaining", remaining)
	} else {
		t.status = reduce(t.status, setLimitExceeded{})
	}
}

// Update merge-patches the status with authoritative counts.
func (t *Tracker) Update(patch Patch) {
	t.dispatch(updateStatus{patch: patch})
}

// Reset restores the full budget for the current class.
func (t *Tracker) Reset() {
	t.dispatch(resetLimits{})
}

func (t *Tracker) dispatch(a action) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = reduce(t.status, a)
}

// presetMessage matches the original UI: the preset message is shown
// only in development.
func presetMessage(cfg config.Config, preset config.RateLimitPreset) string {
	if cfg.IsDevelopment() {
		return preset.Message
	}
	return ""
}
