package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/codifyapp/codify-go/internal/api"
	"github.com/codifyapp/codify-go/internal/notify"
	"github.com/codifyapp/codify-go/internal/storage"
)

// Gateway is the slice of the API client the session store depends on.
type Gateway interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	Profile(ctx context.Context) (*api.User, error)
	UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*api.User, error)
	ChangePassword(ctx context.Context, req api.ChangePasswordRequest) (string, error)
	Logout(ctx context.Context) error
}

// Store owns the session state machine. All mutations flow through the
// reducer, so concurrent operations cannot interleave partial updates.
type Store struct {
	gateway Gateway
	storage storage.Store
	notify  notify.Notifier
	log     *slog.Logger

	mu     sync.Mutex
	state  State
	nextID int
	subs   map[int]func(State)
}

// NewStore creates a session store. It starts in the loading state;
// call Bootstrap to hydrate from the persisted token.
func NewStore(gw Gateway, st storage.Store, n notify.Notifier, log *slog.Logger) *Store {
	if n == nil {
		n = notify.Discard{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		gateway: gw,
		storage: st,
		notify:  n,
		log:     log,
		state:   initialState(),
		subs:    make(map[int]func(State)),
	}
}

// State returns the current session snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the current bearer token, "" when anonymous. Suitable as
// an api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// Subscribe registers fn to run after every state change. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// dispatch applies an action atomically and notifies subscribers with
// the resulting snapshot.
func (s *Store) dispatch(a action) {
	s.mu.Lock()
	s.state = reduce(s.state, a)
	snapshot := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Bootstrap hydrates the session from the persisted token. A stored
// token is validated with a profile fetch; an invalid one is discarded.
// No token means no network call at all.
func (s *Store) Bootstrap(ctx context.Context) {
	token, err := s.storage.Get(storage.KeyAuthToken)
	if err != nil || len(token) == 0 {
		s.dispatch(setLoading{loading: false})
		return
	}

	// Stage the token before validating it, so a token source reading
	// this store attaches it to the profile fetch.
	s.dispatch(tokenLoaded{token: string(token)})

	user, err := s.gateway.Profile(ctx)
	if err != nil {
		// Token is invalid, remove it.
		if delErr := s.storage.Delete(storage.KeyAuthToken); delErr != nil {
			s.log.Warn("failed to discard invalid token", "error", delErr)
		}
		s.dispatch(authFailure{})
		return
	}

	s.dispatch(authSuccess{user: *user, token: string(token)})
}

// Login authenticates with credentials and persists the returned token.
// The error is returned after notification so callers can do their own
// cleanup.
func (s *Store) Login(ctx context.Context, req api.LoginRequest) error {
	s.dispatch(authStart{})

	resp, err := s.gateway.Login(ctx, req)
	if err != nil {
		s.dispatch(authFailure{})
		if apiErr, ok := api.IsAPIError(err); ok {
			switch apiErr.Status {
			case 429:
				s.notify.Error("Rate limit exceeded. Please try again later.")
			case 401:
				s.notify.Error("Invalid email or password")
			default:
				s.notify.Error(apiErr.Message)
			}
		} else {
			s.notify.Error("Login failed. Please try again.")
		}
		return err
	}

	if err := s.storage.Set(storage.KeyAuthToken, []byte(resp.Token)); err != nil {
		s.log.Warn("failed to persist token", "error", err)
	}
	s.dispatch(authSuccess{user: resp.User, token: resp.Token})
	s.notify.Success("Login successful!")
	return nil
}

// Register creates an account and signs the user in.
func (s *Store) Register(ctx context.Context, req api.RegisterRequest) error {
	s.dispatch(authStart{})

	resp, err := s.gateway.Register(ctx, req)
	if err != nil {
		s.dispatch(authFailure{})
		if apiErr, ok := api.IsAPIError(err); ok {
			switch apiErr.Status {
			case 409:
				s.notify.Error("User with this email already exists")
			case 429:
				s.notify.Error("Rate limit exceeded. Please try again later.")
			default:
				s.notify.Error(apiErr.Message)
			}
		} else {
			s.notify.Error("Registration failed. Please try again.")
		}
		return err
	}

	if err := s.storage.Set(storage.KeyAuthToken, []byte(resp.Token)); err != nil {
		s.log.Warn("failed to persist token", "error", err)
	}
	s.dispatch(authSuccess{user: resp.User, token: resp.Token})
	s.notify.Success("Registration successful!")
	return nil
}

// Logout ends the session. The server call is best-effort: failures are
// logged and never block local cleanup.
func (s *Store) Logout(ctx context.Context) {
	if err := s.gateway.Logout(ctx); err != nil {
		// Even if logout fails on the server, clear local state.
		s.log.Error("logout request failed", "error", err)
	}

	if err := s.storage.Delete(storage.KeyAuthToken); err != nil {
		s.log.Warn("failed to remove persisted token", "error", err)
	}
	s.dispatch(logoutDone{})
	s.notify.Success("Logged out successfully")
}

// UpdateProfile replaces profile fields. A 401 forces a logout before
// the error is returned.
func (s *Store) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) error {
	user, err := s.gateway.UpdateProfile(ctx, req)
	if err != nil {
		if apiErr, ok := api.IsAPIError(err); ok {
			if apiErr.Status == 401 {
				s.Logout(ctx)
				s.notify.Error("Session expired. Please login again.")
			} else {
				s.notify.Error(apiErr.Message)
			}
		} else {
			s.notify.Error("Failed to update profile")
		}
		return err
	}

	s.dispatch(profileUpdated{user: *user})
	s.notify.Success("Profile updated successfully!")
	return nil
}

// ChangePassword rotates the password. A 401 forces a logout before the
// error is returned.
func (s *Store) ChangePassword(ctx context.Context, req api.ChangePasswordRequest) error {
	_, err := s.gateway.ChangePassword(ctx, req)
	if err != nil {
		if apiErr, ok := api.IsAPIError(err); ok {
			if apiErr.Status == 401 {
				s.Logout(ctx)
				s.notify.Error("Session expired. Please login again.")
			} else {
				s.notify.Error(apiErr.Message)
			}
		} else {
			s.notify.Error("Failed to change password")
		}
		return err
	}

	s.notify.Success("Password changed successfully!")
	return nil
}

// RefreshProfile re-fetches the profile. A 401 forces a logout; the
// error is always returned.
func (s *Store) RefreshProfile(ctx context.Context) error {
	user, err := s.gateway.Profile(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			s.Logout(ctx)
		}
		return err
	}

	s.dispatch(profileUpdated{user: *user})
	return nil
}
