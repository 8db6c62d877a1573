// Package auth owns the client session: the authenticated identity, the
// persisted bearer token and every operation that mutates them.
package auth

import "github.com/codifyapp/codify-go/internal/api"

// State is the session snapshot handed to consumers. IsAuthenticated is
// true iff both User and Token are set.
type State struct {
	User            *api.User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
}

// action is the tagged union driving the session reducer.
type action interface{ isAction() }

type authStart struct{}

type authSuccess struct {
	user  api.User
	token string
}

type authFailure struct{}

type tokenLoaded struct {
	token string
}

type logoutDone struct{}

type profileUpdated struct {
	user api.User
}

type setLoading struct {
	loading bool
}

func (authStart) isAction()      {}
func (authSuccess) isAction()    {}
func (authFailure) isAction()    {}
func (tokenLoaded) isAction()    {}
func (logoutDone) isAction()     {}
func (profileUpdated) isAction() {}
func (setLoading) isAction()     {}

// reduce is the pure session transition function. Network side effects
// live in the Store wrappers, never here.
func reduce(state State, a action) State {
	switch a := a.(type) {
	case authStart:
		state.IsLoading = true
		return state
	case authSuccess:
		user := a.user
		state.User = &user
		state.Token = a.token
		state.IsAuthenticated = true
		state.IsLoading = false
		return state
	case tokenLoaded:
		// The token alone does not authenticate; it only becomes part
		// of outgoing requests until the profile fetch settles it.
		state.Token = a.token
		return state
	case authFailure, logoutDone:
		state.User = nil
		state.Token = ""
		state.IsAuthenticated = false
		state.IsLoading = false
		return state
	case profileUpdated:
		user := a.user
		state.User = &user
		return state
	case setLoading:
		state.IsLoading = a.loading
		return state
	default:
		return state
	}
}

// initialState starts loading so consumers wait for the token check.
func initialState() State {
	return State{IsLoading: true}
}
