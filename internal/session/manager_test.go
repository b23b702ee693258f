package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-pilot/internal/api"
	"github.com/jonathan/resume-pilot/internal/credentials"
)

// fakeClient counts calls and returns scripted responses.
type fakeClient struct {
	createCalls int
	infoCalls   int

	createSession *api.GuestSession
	createErr     error
	infoSession   *api.GuestSession
	infoErr       error
}

func (f *fakeClient) CreateSession(context.Context) (*api.GuestSession, error) {
	f.createCalls++
	return f.createSession, f.createErr
}

func (f *fakeClient) SessionInfo(context.Context, string) (*api.GuestSession, error) {
	f.infoCalls++
	return f.infoSession, f.infoErr
}

func freshSession() *api.GuestSession {
	return &api.GuestSession{
		GuestToken: "tok-new",
		Credits:    2,
		ExpiresAt:  time.Now().Add(24 * time.Hour),
		SessionID:  "sess-new",
	}
}

func TestBootstrap_FreshStart_CreatesOnce(t *testing.T) {
	client := &fakeClient{createSession: freshSession()}
	store := &credentials.Memory{}
	manager := NewManager(client, store)

	session, err := manager.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, client.createCalls)
	assert.Equal(t, 0, client.infoCalls)
	assert.Equal(t, 2, session.Credits)

	// The new grant is persisted.
	creds, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-new", creds.GuestToken)
	assert.Equal(t, "sess-new", creds.GuestSessionID)
}

func TestBootstrap_ValidStored_NoCreateCall(t *testing.T) {
	store := &credentials.Memory{}
	require.NoError(t, store.Save(credentials.Credentials{
		GuestToken:     "tok-old",
		GuestExpiresAt: time.Now().Add(time.Hour),
		GuestSessionID: "sess-old",
	}))

	client := &fakeClient{
		infoSession: &api.GuestSession{GuestToken: "tok-old", Credits: 1},
	}
	manager := NewManager(client, store)

	session, err := manager.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, client.createCalls, "no creation call when resume succeeds")
	assert.Equal(t, 1, client.infoCalls)
	assert.Equal(t, 1, session.Credits)
	assert.Equal(t, "sess-old", session.SessionID)
}

func TestBootstrap_ExpiredStored_SkipsInfoCall(t *testing.T) {
	store := &credentials.Memory{}
	require.NoError(t, store.Save(credentials.Credentials{
		GuestToken:     "tok-old",
		GuestExpiresAt: time.Now().Add(-time.Minute),
	}))

	client := &fakeClient{createSession: freshSession()}
	manager := NewManager(client, store)

	_, err := manager.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, client.infoCalls, "locally expired token is not sent to the server")
	assert.Equal(t, 1, client.createCalls)
}

func TestBootstrap_ServerRejects_RecreatesSilently(t *testing.T) {
	store := &credentials.Memory{}
	require.NoError(t, store.Save(credentials.Credentials{
		GuestToken:     "tok-old",
		GuestExpiresAt: time.Now().Add(time.Hour),
	}))

	client := &fakeClient{
		infoErr:       &api.Error{Kind: api.KindSessionInvalid, Message: "session expired"},
		createSession: freshSession(),
	}
	manager := NewManager(client, store)

	session, err := manager.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, client.infoCalls)
	assert.Equal(t, 1, client.createCalls)
	assert.Equal(t, "tok-new", session.GuestToken)
}

func TestBootstrap_CreateFails_SurfacesError(t *testing.T) {
	client := &fakeClient{
		createErr: &api.Error{Kind: api.KindRateLimit, Message: "rate limit exceeded"},
	}
	manager := NewManager(client, &credentials.Memory{})

	_, err := manager.Bootstrap(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindRateLimit))
}

func TestCredits_ClampedAtZero(t *testing.T) {
	manager := NewManager(&fakeClient{}, &credentials.Memory{})
	assert.Equal(t, 0, manager.Credits(), "no session means no credits")

	manager.current = &api.GuestSession{Credits: -3}
	assert.Equal(t, 0, manager.Credits())
}

func TestRecordAnalysis(t *testing.T) {
	manager := NewManager(&fakeClient{}, &credentials.Memory{})
	manager.current = &api.GuestSession{Credits: 2}

	manager.RecordAnalysis(1)
	assert.Equal(t, 1, manager.Credits())

	// Server omitted credits_remaining: fall back to decrement.
	manager.RecordAnalysis(-1)
	assert.Equal(t, 0, manager.Credits())
	manager.RecordAnalysis(-1)
	assert.Equal(t, 0, manager.Credits())
}

func TestRecordExhausted_ForcesZero(t *testing.T) {
	manager := NewManager(&fakeClient{}, &credentials.Memory{})
	manager.current = &api.GuestSession{Credits: 2}

	manager.RecordExhausted()
	assert.Equal(t, 0, manager.Credits())
}

func TestReset(t *testing.T) {
	store := &credentials.Memory{}
	require.NoError(t, store.Save(credentials.Credentials{GuestToken: "tok"}))

	manager := NewManager(&fakeClient{}, store)
	manager.current = &api.GuestSession{Credits: 2}

	require.NoError(t, manager.Reset())
	assert.Nil(t, manager.Current())
	_, err := store.Load()
	assert.ErrorIs(t, err, credentials.ErrNotFound)
}

func TestBootstrap_ClockInjection(t *testing.T) {
	// A token that expired one millisecond before "now" is not resumed.
	moment := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store := &credentials.Memory{}
	require.NoError(t, store.Save(credentials.Credentials{
		GuestToken:     "tok-old",
		GuestExpiresAt: moment.Add(-time.Millisecond),
	}))

	client := &fakeClient{createSession: freshSession()}
	manager := NewManager(client, store, WithClock(func() time.Time { return moment }))

	_, err := manager.Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, client.createCalls)
}
