// Package credentials provides durable client-side storage for guest and
// authenticated session credentials across CLI invocations.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNotFound indicates no credentials have been stored yet.
var ErrNotFound = errors.New("no stored credentials")

// Credentials holds the guest session grant plus an optional authenticated
// user token. Field names mirror the server's wire keys.
type Credentials struct {
	GuestToken     string    `json:"guest_token,omitempty"`
	GuestExpiresAt time.Time `json:"guest_expires_at,omitempty"`
	GuestSessionID string    `json:"guest_session_id,omitempty"`
	AuthToken      string    `json:"token,omitempty"`
}

// Valid reports whether the guest grant can still be used at the given time.
// Absent and expired credentials are indistinguishable: both return false.
// This is a fast pre-filter only; the server remains the authority.
func (c Credentials) Valid(now time.Time) bool {
	if c.GuestToken == "" || c.GuestExpiresAt.IsZero() {
		return false
	}
	return now.Before(c.GuestExpiresAt)
}

// Store is the persistence boundary for credentials. It is injected into the
// session manager so tests can substitute an in-memory double.
type Store interface {
	Save(creds Credentials) error
	Load() (Credentials, error)
	Clear() error
}

// FileStore persists credentials as a JSON file under a base directory,
// by default ~/.resume-pilot. Access is single-process per invocation;
// concurrent CLI runs may race, which is acceptable because guest sessions
// are low-stakes and server-authoritative.
type FileStore struct {
	path string
}

// FileName is the credentials file name inside the base directory.
const FileName = "credentials.json"

// NewFileStore creates a store rooted at baseDir. The directory is created
// on first Save, not here.
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{path: filepath.Join(baseDir, FileName)}
}

// DefaultBaseDir returns the per-user data directory for the CLI.
func DefaultBaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".resume-pilot"), nil
}

// Save writes the credentials, replacing any previous contents.
func (s *FileStore) Save(creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	// Write via temp file + rename so a crash never leaves a torn file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace credentials file: %w", err)
	}
	return nil
}

// Load reads the stored credentials. Returns ErrNotFound when nothing has
// been saved yet; a corrupt file is treated the same way so callers recover
// by creating a fresh session.
func (s *FileStore) Load() (Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, ErrNotFound
		}
		return Credentials{}, fmt.Errorf("failed to read credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, ErrNotFound
	}
	return creds, nil
}

// Clear removes the stored credentials. Clearing an empty store is not an
// error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

// Memory is an in-memory Store for tests.
type Memory struct {
	creds  Credentials
	stored bool
}

// Save stores the credentials in memory.
func (m *Memory) Save(creds Credentials) error {
	m.creds = creds
	m.stored = true
	return nil
}

// Load returns the stored credentials or ErrNotFound.
func (m *Memory) Load() (Credentials, error) {
	if !m.stored {
		return Credentials{}, ErrNotFound
	}
	return m.creds, nil
}

// Clear removes the stored credentials.
func (m *Memory) Clear() error {
	m.creds = Credentials{}
	m.stored = false
	return nil
}
