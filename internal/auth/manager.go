// Package auth drives the login/register/logout lifecycle and startup token
// validation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/adityaverma/shopbot-go/internal/api"
	"github.com/adityaverma/shopbot-go/internal/state"
	"github.com/adityaverma/shopbot-go/internal/store"
)

// ErrAuthInFlight is returned when a login or register is attempted while a
// previous one is still pending. At most one credential exchange runs at a
// time.
var ErrAuthInFlight = errors.New("an authentication attempt is already in progress")

// StartupState is the outcome of validating stored credentials at startup.
type StartupState int

const (
	// StartupAnonymous means no stored credential pair was found.
	StartupAnonymous StartupState = iota

	// StartupVerified means the stored token was confirmed by the backend.
	StartupVerified

	// StartupUnverified means stored credentials exist but could not be
	// confirmed (invalid token or unreachable backend). Credentials are kept
	// so a later successful validation can re-authenticate without re-login.
	StartupUnverified
)

// Manager owns the authentication state machine.
type Manager struct {
	session *state.Session
	store   *store.Store
	client  *api.Client
	logger  *slog.Logger

	mu       sync.Mutex
	inFlight bool
}

// NewManager creates an auth manager bound to the shared session state.
func NewManager(session *state.Session, st *store.Store, client *api.Client, logger *slog.Logger) *Manager {
	return &Manager{session: session, store: st, client: client, logger: logger}
}

// begin claims the single in-flight slot.
func (m *Manager) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight {
		return ErrAuthInFlight
	}
	m.inFlight = true
	return nil
}

func (m *Manager) end() {
	m.mu.Lock()
	m.inFlight = false
	m.mu.Unlock()
}

// Login validates input locally, then exchanges credentials with the backend.
// Validation failures report only the first violated rule and issue no network
// call. On success the session becomes authenticated and the credential pair
// is persisted.
func (m *Manager) Login(ctx context.Context, username, password string) (*api.User, error) {
	username = strings.TrimSpace(username)
	if verr := validateCredentials(username, "", password, false); verr != nil {
		return nil, verr
	}

	if err := m.begin(); err != nil {
		return nil, err
	}
	defer m.end()

	resp, err := m.client.Login(ctx, username, password)
	if err != nil {
		m.logger.Warn("login failed", "username", username, "error", err)
		return nil, err
	}
	if resp.AccessToken == "" || resp.User == nil {
		return nil, fmt.Errorf("malformed login response")
	}

	m.session.SetAuthenticated(resp.AccessToken, resp.User, m.store)
	m.logger.Info("logged in", "username", resp.User.Username)
	return resp.User, nil
}

// Register validates input locally, then creates an account. A successful
// registration logs the new user in.
func (m *Manager) Register(ctx context.Context, username, email, password string) (*api.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if verr := validateCredentials(username, email, password, true); verr != nil {
		return nil, verr
	}

	if err := m.begin(); err != nil {
		return nil, err
	}
	defer m.end()

	resp, err := m.client.Register(ctx, username, email, password)
	if err != nil {
		m.logger.Warn("registration failed", "username", username, "error", err)
		return nil, err
	}
	if resp.AccessToken == "" || resp.User == nil {
		return nil, fmt.Errorf("malformed registration response")
	}

	m.session.SetAuthenticated(resp.AccessToken, resp.User, m.store)
	m.logger.Info("registered", "username", resp.User.Username)
	return resp.User, nil
}

// Logout clears the session and persisted credentials. It is local-only,
// unconditional, and idempotent; the backend is never called.
func (m *Manager) Logout() {
	m.session.Reset(m.store)
	m.logger.Info("logged out")
}

// ValidateOnStartup confirms stored credentials with one "who am I" call.
// A failed validation, whether rejected or unreachable, keeps the stored
// credentials intact: a transient outage must not destroy a valid session.
func (m *Manager) ValidateOnStartup(ctx context.Context) StartupState {
	if !m.session.Authenticated() {
		return StartupAnonymous
	}

	epoch := m.session.Epoch()
	user, err := m.client.Me(ctx)

	// A logout may have raced the validation call; its result is stale.
	if m.session.Epoch() != epoch {
		return StartupAnonymous
	}

	if err != nil || user == nil {
		m.logger.Warn("startup token validation failed, keeping stored credentials", "error", err)
		return StartupUnverified
	}

	// Refresh the stored identity record with the server's view.
	m.session.SetAuthenticated(m.session.AuthToken(), user, m.store)
	m.logger.Debug("startup token validated", "username", user.Username)
	return StartupVerified
}
