// Package chat implements the conversation engine: the message send/receive
// pipeline, session switching, and history hydration over the backend's
// session-oriented chat API.
//
// The local message history is a cache over server state, never the system of
// record. Sends are serialized by a busy guard; a send issued while one is in
// flight is dropped, not queued. Results that arrive for a conversation or
// auth state that is no longer current are discarded.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/adityaverma/shopbot-go/internal/api"
	"github.com/adityaverma/shopbot-go/internal/state"
	"github.com/adityaverma/shopbot-go/internal/store"
)

var (
	// ErrBusy means a send was attempted while a previous one was pending.
	// The attempt is dropped.
	ErrBusy = errors.New("a message is already being sent")

	// ErrEmptyMessage means the message was empty after trimming.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrStale means a response arrived for a session or auth state that is
	// no longer current; nothing was applied.
	ErrStale = errors.New("stale response discarded")

	// ErrUnknownAction means the quick action identifier is not recognized.
	ErrUnknownAction = errors.New("unknown quick action")
)

// quickActions maps action identifiers to their canned message text. Quick
// actions go through the same send pipeline as typed messages.
var quickActions = map[string]string{
	"categories": "Show me all product categories",
	"deals":      "Show me products on sale",
	"featured":   "Show me featured products",
}

// Role of one displayed message.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Message is one entry in the displayed conversation history.
type Message struct {
	Content   string
	Role      string
	Products  []api.Product
	Timestamp time.Time
}

// Turn is the outcome of one successful send: the optimistically appended
// user message and the bot's reply.
type Turn struct {
	User           Message
	Bot            Message
	SessionAdopted bool
}

// Engine owns the conversation surface state.
type Engine struct {
	session *state.Session
	store   *store.Store
	client  *api.Client
	logger  *slog.Logger

	mu      sync.Mutex
	busy    bool
	history []Message

	// pendingLoad is the token of the most recently requested session switch.
	// A history fetch whose token no longer matches is discarded, so
	// out-of-order arrivals apply only the last-issued switch.
	pendingLoad string
}

// NewEngine creates a conversation engine bound to the shared session state.
func NewEngine(session *state.Session, st *store.Store, client *api.Client, logger *slog.Logger) *Engine {
	return &Engine{session: session, store: st, client: client, logger: logger}
}

// Busy reports whether a send is in flight.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

// History returns a snapshot of the displayed message history.
func (e *Engine) History() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Message, len(e.history))
	copy(out, e.history)
	return out
}

// Send submits one message. The user message is appended to local history
// before the network call and is kept even when the call fails; a failed send
// appends an error line in place of the bot reply and is never retried
// automatically. When the response carries a session token, that session is
// adopted and persisted: this is how a fresh thread gets its identity.
func (e *Engine) Send(ctx context.Context, text string) (*Turn, error) {
	text = trimMessage(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return nil, ErrBusy
	}
	e.busy = true

	userMsg := Message{Content: text, Role: RoleUser, Timestamp: time.Now()}
	e.history = append(e.history, userMsg)

	epoch := e.session.Epoch()
	sessionToken := e.session.ActiveSession()
	e.mu.Unlock()

	resp, err := e.client.SendMessage(ctx, text, sessionToken)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy = false

	if e.session.Epoch() != epoch {
		// Logged out while the send was in flight; nothing to apply.
		return nil, ErrStale
	}

	if err != nil {
		e.history = append(e.history, Message{
			Content:   errorReply(err),
			Role:      RoleBot,
			Timestamp: time.Now(),
		})
		return nil, err
	}

	botMsg := Message{
		Content:   resp.Response.Text,
		Role:      RoleBot,
		Products:  resp.Response.Products,
		Timestamp: time.Now(),
	}
	e.history = append(e.history, botMsg)

	adopted := false
	if resp.SessionToken != "" && resp.SessionToken != sessionToken {
		e.session.SetActiveSession(resp.SessionToken, e.store)
		adopted = true
	}

	return &Turn{User: userMsg, Bot: botMsg, SessionAdopted: adopted}, nil
}

// QuickAction sends the canned message for a quick action identifier through
// the normal send pipeline.
func (e *Engine) QuickAction(ctx context.Context, action string) (*Turn, error) {
	text, ok := quickActions[action]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return e.Send(ctx, text)
}

// StartNew requests a fresh session token and resets the conversation
// surface. When the request fails the prior session stays fully active.
func (e *Engine) StartNew(ctx context.Context) error {
	epoch := e.session.Epoch()

	resp, err := e.client.ResetChat(ctx)
	if err != nil {
		e.logger.Warn("failed to start new chat", "error", err)
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Epoch() != epoch {
		return ErrStale
	}

	e.session.SetActiveSession(resp.SessionToken, e.store)
	e.history = nil
	e.pendingLoad = ""
	e.logger.Debug("started new chat session")
	return nil
}

// LoadSession fetches the full history for a session and replaces the local
// history wholesale. Safe to call for the already-active session. When two
// switches race, only the last-requested one's result is applied.
func (e *Engine) LoadSession(ctx context.Context, token string) error {
	e.mu.Lock()
	e.pendingLoad = token
	epoch := e.session.Epoch()
	e.mu.Unlock()

	messages, err := e.client.History(ctx, token)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pendingLoad != token || e.session.Epoch() != epoch {
		return ErrStale
	}

	if err != nil {
		e.logger.Warn("failed to load chat session", "error", err)
		return err
	}

	history := make([]Message, 0, len(messages))
	for _, msg := range messages {
		history = append(history, Message{
			Content:   msg.Content,
			Role:      msg.MessageType,
			Timestamp: ParseServerTime(msg.Timestamp),
		})
	}
	e.history = history
	e.session.SetActiveSession(token, e.store)
	return nil
}

// Sessions lists the user's conversation threads. When unauthenticated this
// is a no-op, not an error.
func (e *Engine) Sessions(ctx context.Context) ([]api.ChatSession, error) {
	if !e.session.Authenticated() {
		return nil, nil
	}
	return e.client.ListSessions(ctx)
}

// ClearLocal drops the local message cache without touching the active
// session or the server.
func (e *Engine) ClearLocal() {
	e.mu.Lock()
	e.history = nil
	e.mu.Unlock()
}

// errorReply builds the in-history error line for a failed send, with a
// distinct wording when the backend never responded.
func errorReply(err error) string {
	if api.IsUnreachable(err) {
		return "Sorry, I can't reach the server right now. Please check that the backend is running."
	}
	return fmt.Sprintf("Sorry, I encountered an error: %s. Please try again.", err)
}
