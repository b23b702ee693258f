// Package session manages the guest session lifecycle: resuming a stored
// grant when the server still honors it, creating a fresh one otherwise, and
// tracking the credit balance the UI is allowed to display.
package session

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jonathan/resume-pilot/internal/api"
	"github.com/jonathan/resume-pilot/internal/credentials"
)

// BootstrapTimeout bounds the whole resume-or-create path. A guest landing
// on a dead backend should see an error, not an indefinite spinner.
const BootstrapTimeout = 10 * time.Second

// Client is the slice of the API client the manager needs.
type Client interface {
	CreateSession(ctx context.Context) (*api.GuestSession, error)
	SessionInfo(ctx context.Context, token string) (*api.GuestSession, error)
}

// Manager owns the credential store and decides when a new session is
// created. It is not safe for concurrent use; the CLI drives it from a
// single goroutine.
type Manager struct {
	client  Client
	store   credentials.Store
	now     func() time.Time
	verbose bool

	current *api.GuestSession
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithVerbose enables progress logging.
func WithVerbose(verbose bool) Option {
	return func(m *Manager) { m.verbose = verbose }
}

// NewManager creates a manager over the given client and store.
func NewManager(client Client, store credentials.Store, opts ...Option) *Manager {
	m := &Manager{
		client: client,
		store:  store,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bootstrap returns a usable guest session, resuming the stored one when the
// server confirms it and creating a fresh one otherwise. No creation call is
// made when resume succeeds.
func (m *Manager) Bootstrap(ctx context.Context) (*api.GuestSession, error) {
	ctx, cancel := context.WithTimeout(ctx, BootstrapTimeout)
	defer cancel()

	if session, ok := m.resume(ctx); ok {
		m.current = session
		return session, nil
	}
	return m.create(ctx)
}

// resume tries the stored credentials. The local expiry check is a fast
// pre-filter; the server's session-info answer is authoritative.
func (m *Manager) resume(ctx context.Context) (*api.GuestSession, bool) {
	creds, err := m.store.Load()
	if err != nil {
		if !errors.Is(err, credentials.ErrNotFound) && m.verbose {
			log.Printf("[SESSION] failed to load stored credentials: %v", err)
		}
		return nil, false
	}
	if !creds.Valid(m.now()) {
		return nil, false
	}

	session, err := m.client.SessionInfo(ctx, creds.GuestToken)
	if err != nil {
		if api.IsKind(err, api.KindSessionInvalid) {
			// Token rejected server-side. Drop it so the next run does not
			// repeat the wasted round trip.
			_ = m.store.Clear()
		}
		if m.verbose {
			log.Printf("[SESSION] stored session rejected: %v", err)
		}
		return nil, false
	}

	if session.SessionID == "" {
		session.SessionID = creds.GuestSessionID
	}
	if session.ExpiresAt.IsZero() {
		session.ExpiresAt = creds.GuestExpiresAt
	}
	return session, true
}

// create requests a fresh session and persists it.
func (m *Manager) create(ctx context.Context) (*api.GuestSession, error) {
	session, err := m.client.CreateSession(ctx)
	if err != nil {
		return nil, err
	}

	creds := credentials.Credentials{
		GuestToken:     session.GuestToken,
		GuestExpiresAt: session.ExpiresAt,
		GuestSessionID: session.SessionID,
	}
	if err := m.store.Save(creds); err != nil {
		// A session that cannot be persisted is still usable for this run.
		if m.verbose {
			log.Printf("[SESSION] failed to persist credentials: %v", err)
		}
	}

	m.current = session
	return session, nil
}

// Current returns the session from the last successful Bootstrap, or nil.
func (m *Manager) Current() *api.GuestSession {
	return m.current
}

// Credits returns the displayable credit balance, clamped at zero.
func (m *Manager) Credits() int {
	if m.current == nil || m.current.Credits < 0 {
		return 0
	}
	return m.current.Credits
}

// RecordAnalysis updates the tracked balance after a successful analysis.
// A negative creditsRemaining (server omitted the field) decrements instead.
func (m *Manager) RecordAnalysis(creditsRemaining int) {
	if m.current == nil {
		return
	}
	if creditsRemaining >= 0 {
		m.current.Credits = creditsRemaining
	} else if m.current.Credits > 0 {
		m.current.Credits--
	}
}

// RecordExhausted forces the displayed balance to zero. Called on an
// insufficient-credits error regardless of the last known value.
func (m *Manager) RecordExhausted() {
	if m.current != nil {
		m.current.Credits = 0
	}
}

// Reset clears the stored credentials and the in-memory session.
func (m *Manager) Reset() error {
	m.current = nil
	return m.store.Clear()
}
