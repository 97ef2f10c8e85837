// Package state holds the client's process-wide session state: who is logged
// in and which conversation is active. It is an explicit object with a single
// owner (the CLI root), hydrated once from the store at startup and passed to
// the auth and chat layers.
package state

import (
	"sync"

	"github.com/adityaverma/shopbot-go/internal/api"
	"github.com/adityaverma/shopbot-go/internal/store"
)

// Session is the mutable client state. It is safe for concurrent use: the TUI
// delivers network results from command goroutines.
//
// Invariant: authenticated is true iff both authToken and user are set. Every
// mutation path writes the three fields together.
type Session struct {
	mu sync.Mutex

	authToken     string
	user          *api.User
	authenticated bool

	sessionToken string

	// epoch increments on every Reset. Async work captures the epoch before a
	// network call and discards its result if the epoch moved, so a response
	// that lands after logout cannot resurrect stale state.
	epoch uint64
}

// New returns an empty session.
func New() *Session {
	return &Session{}
}

// Hydrate restores the session from the store. Authentication is restored only
// when both the token and the user record are present; otherwise all three
// auth fields are forced empty.
func (s *Session) Hydrate(st *store.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := st.GetString(store.KeyAuthToken)
	var user api.User
	haveUser := st.Get(store.KeyCurrentUser, &user)

	if token != "" && haveUser {
		s.authToken = token
		s.user = &user
		s.authenticated = true
	} else {
		s.authToken = ""
		s.user = nil
		s.authenticated = false
	}

	s.sessionToken = st.GetString(store.KeySessionToken)
}

// SetAuthenticated records a successful login or registration and persists the
// credential pair. This is the only path that turns authentication on.
func (s *Session) SetAuthenticated(token string, user *api.User, st *store.Store) {
	s.mu.Lock()
	s.authToken = token
	s.user = user
	s.authenticated = token != "" && user != nil
	s.mu.Unlock()

	st.Set(store.KeyAuthToken, token)
	st.Set(store.KeyCurrentUser, user)
}

// Reset tears the session down: all fields cleared and the three persisted
// keys removed before Reset returns, so the caller never re-renders against a
// half-cleared state. Safe to call repeatedly.
func (s *Session) Reset(st *store.Store) {
	s.mu.Lock()
	s.authToken = ""
	s.user = nil
	s.authenticated = false
	s.sessionToken = ""
	s.epoch++
	s.mu.Unlock()

	st.Remove(store.KeyAuthToken)
	st.Remove(store.KeyCurrentUser)
	st.Remove(store.KeySessionToken)
}

// AuthToken implements api.CredentialSource.
func (s *Session) AuthToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authToken
}

// User returns the current identity record, or nil when anonymous.
func (s *Session) User() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Authenticated reports whether a full credential pair is held.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// SetActiveSession adopts a conversation thread and persists its token. The
// token is the session's only client-side identity; the backend resolves it
// to its numeric id.
func (s *Session) SetActiveSession(token string, st *store.Store) {
	s.mu.Lock()
	s.sessionToken = token
	s.mu.Unlock()

	st.Set(store.KeySessionToken, token)
}

// ActiveSession returns the active conversation token; empty when no session
// has been selected or created yet.
func (s *Session) ActiveSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionToken
}

// Epoch returns the current staleness fence value.
func (s *Session) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}
