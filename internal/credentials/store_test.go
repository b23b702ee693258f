package credentials

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())

	expires := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	saved := Credentials{
		GuestToken:     "tok-abc",
		GuestExpiresAt: expires,
		GuestSessionID: "sess-1",
	}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", loaded.GuestToken)
	assert.Equal(t, "sess-1", loaded.GuestSessionID)
	assert.True(t, loaded.GuestExpiresAt.Equal(expires))
}

func TestFileStore_LoadEmpty(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0o600))

	store := NewFileStore(dir)
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_Clear(t *testing.T) {
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.Save(Credentials{GuestToken: "tok"}))

	require.NoError(t, store.Clear())
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotFound)

	// Clearing twice is fine.
	require.NoError(t, store.Clear())
}

func TestValid_ExpiryBoundary(t *testing.T) {
	now := time.Now()

	expired := Credentials{GuestToken: "tok", GuestExpiresAt: now.Add(-time.Millisecond)}
	assert.False(t, expired.Valid(now))

	live := Credentials{GuestToken: "tok", GuestExpiresAt: now.Add(time.Millisecond)}
	assert.True(t, live.Valid(now))
}

func TestValid_MissingFields(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)

	tests := []struct {
		name  string
		creds Credentials
	}{
		{"no token", Credentials{GuestExpiresAt: future}},
		{"no expiry", Credentials{GuestToken: "tok"}},
		{"empty", Credentials{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.creds.Valid(now))
		})
	}
}

func TestValid_Idempotent(t *testing.T) {
	creds := Credentials{GuestToken: "tok", GuestExpiresAt: time.Now().Add(time.Hour)}
	now := time.Now()
	assert.Equal(t, creds.Valid(now), creds.Valid(now))
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestAuthTokenValid(t *testing.T) {
	now := time.Now()

	live := Credentials{AuthToken: signedToken(t, now.Add(time.Hour))}
	assert.True(t, live.AuthTokenValid(now))

	expired := Credentials{AuthToken: signedToken(t, now.Add(-time.Hour))}
	assert.False(t, expired.AuthTokenValid(now))

	assert.False(t, Credentials{}.AuthTokenValid(now))
	assert.False(t, Credentials{AuthToken: "garbage"}.AuthTokenValid(now))
}
