// Package routes decides whether a view may render for the current
// session, mirroring the original protected-route rules.
package routes

// LoginPath is the default redirect target for unauthenticated callers.
const LoginPath = "/login"

// rateLimitRedirectMessage accompanies the rate-limited redirect.
const rateLimitRedirectMessage = "Rate limit exceeded. Please login to continue with higher limits."

// Kind enumerates guard outcomes.
type Kind int

const (
	// ShowLoading renders a progress indicator while the session is
	// still bootstrapping; neither a redirect nor the children.
	ShowLoading Kind = iota
	// Render renders the guarded children.
	Render
	// RedirectToLogin sends the caller to the login view.
	RedirectToLogin
	// RedirectAway sends an authenticated caller off a guest-only view.
	RedirectAway
)

// Redirect carries the target and the state attached to it.
type Redirect struct {
	To                string
	From              string
	RateLimitExceeded bool
	Message           string
}

// Input is everything the guard looks at.
type Input struct {
	IsAuthenticated bool
	AuthLoading     bool
	RateLimited     bool
	RequireAuth     bool
	RedirectTo      string // login path override, LoginPath when empty
	CurrentLocation string
	ReturnTo        string // original destination for guest-only redirects
}

// Decision is the guard verdict. CheckRateLimit asks the caller to run
// the tracker's advisory check; the guard itself stays pure.
type Decision struct {
	Kind           Kind
	Redirect       *Redirect
	CheckRateLimit bool
}

// Decide applies the guard rules in priority order.
func Decide(in Input) Decision {
	// 1. Wait out the session bootstrap.
	if in.AuthLoading {
		return Decision{Kind: ShowLoading}
	}

	// 2. Rate-limited guests go to login with the rate-limit flag; this
	// outranks the plain requires-auth redirect.
	if !in.IsAuthenticated && in.RateLimited {
		return Decision{
			Kind: RedirectToLogin,
			Redirect: &Redirect{
				To:                LoginPath,
				From:              in.CurrentLocation,
				RateLimitExceeded: true,
				Message:           rateLimitRedirectMessage,
			},
		}
	}

	// 3. Auth-required views redirect anonymous callers to login with a
	// return path, asking for a rate-limit check on the way.
	if in.RequireAuth && !in.IsAuthenticated {
		to := in.RedirectTo
		if to == "" {
			to = LoginPath
		}
		return Decision{
			Kind: RedirectToLogin,
			Redirect: &Redirect{
				To:   to,
				From: in.CurrentLocation,
			},
			CheckRateLimit: true,
		}
	}

	// 4. Guest-only views (login, register) bounce authenticated callers
	// back where they came from.
	if !in.RequireAuth && in.IsAuthenticated {
		to := in.ReturnTo
		if to == "" {
			to = "/"
		}
		return Decision{
			Kind:     RedirectAway,
			Redirect: &Redirect{To: to},
		}
	}

	// 5. Nothing in the way.
	return Decision{Kind: Render}
}
