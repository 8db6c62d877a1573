package routes

import "testing"

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		in       Input
		wantKind Kind
	}{
		{
			name:     "loading outranks everything",
			in:       Input{AuthLoading: true, RateLimited: true, RequireAuth: true},
			wantKind: ShowLoading,
		},
		{
			name:     "rate-limited guest on public page",
			in:       Input{RateLimited: true, RequireAuth: false},
			wantKind: RedirectToLogin,
		},
		{
			name:     "rate-limited guest on protected page",
			in:       Input{RateLimited: true, RequireAuth: true},
			wantKind: RedirectToLogin,
		},
		{
			name:     "anonymous on protected page",
			in:       Input{RequireAuth: true},
			wantKind: RedirectToLogin,
		},
		{
			name:     "authenticated on protected page",
			in:       Input{IsAuthenticated: true, RequireAuth: true},
			wantKind: Render,
		},
		{
			name:     "authenticated on guest-only page",
			in:       Input{IsAuthenticated: true, RequireAuth: false},
			wantKind: RedirectAway,
		},
		{
			name:     "anonymous on public page",
			in:       Input{RequireAuth: false},
			wantKind: Render,
		},
		{
			name:     "authenticated and rate-limited renders",
			in:       Input{IsAuthenticated: true, RateLimited: true, RequireAuth: true},
			wantKind: Render,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.in)
			if got.Kind != tt.wantKind {
				t.Errorf("Decide(%+v).Kind = %v, want %v", tt.in, got.Kind, tt.wantKind)
			}
		})
	}
}

func TestRateLimitedRedirectCarriesFlag(t *testing.T) {
	got := Decide(Input{RateLimited: true, RequireAuth: true, CurrentLocation: "/review"})

	if got.Redirect == nil {
		t.Fatal("rate-limited decision must carry a redirect")
	}
	if !got.Redirect.RateLimitExceeded {
		t.Error("RateLimitExceeded flag not set")
	}
	if got.Redirect.From != "/review" {
		t.Errorf("From = %q, want /review", got.Redirect.From)
	}
	if got.Redirect.Message == "" {
		t.Error("rate-limited redirect should carry a message")
	}
	// The rate-limited branch outranks the requires-auth branch, which is
	// the one that requests a check.
	if got.CheckRateLimit {
		t.Error("rate-limited branch must not also request a check")
	}
}

func TestRequiresAuthRedirect(t *testing.T) {
	got := Decide(Input{RequireAuth: true, CurrentLocation: "/chat"})

	if got.Redirect == nil || got.Redirect.To != LoginPath {
		t.Fatalf("redirect = %+v, want login", got.Redirect)
	}
	if got.Redirect.From != "/chat" {
		t.Errorf("From = %q, want /chat", got.Redirect.From)
	}
	if !got.CheckRateLimit {
		t.Error("requires-auth redirect must request a rate-limit check")
	}

	// Custom login path override.
	custom := Decide(Input{RequireAuth: true, RedirectTo: "/signin"})
	if custom.Redirect.To != "/signin" {
		t.Errorf("To = %q, want /signin", custom.Redirect.To)
	}
}

func TestGuestOnlyRedirect(t *testing.T) {
	// Return to the originally intended destination when known.
	got := Decide(Input{IsAuthenticated: true, ReturnTo: "/profile"})
	if got.Redirect == nil || got.Redirect.To != "/profile" {
		t.Fatalf("redirect = %+v, want /profile", got.Redirect)
	}

	// Fall back to root.
	got = Decide(Input{IsAuthenticated: true})
	if got.Redirect.To != "/" {
		t.Errorf("To = %q, want /", got.Redirect.To)
	}
}
