package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prflight-io/prflight/internal/logging"
)

// Store handles reading and writing of the hosting-service credential.
// The credential lives in a single JSON object under a user-private
// directory; both the directory and the file are owner-only.
type Store struct {
	path string
}

type credentials struct {
	Token string `json:"token"`
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the standard credential file location for the
// current user.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config directory: %w", err)
	}
	return filepath.Join(dir, "prflight", "credentials.json"), nil
}

// Token returns the stored credential, or an empty string when nothing
// is stored. A missing, unreadable, or corrupt file degrades to "no
// credential stored" rather than surfacing an error.
func (s *Store) Token() string {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Debug("credential file unreadable, treating as empty", "path", s.path, "error", err)
		}
		return ""
	}

	var creds credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		logging.Debug("credential file corrupt, treating as empty", "path", s.path, "error", err)
		return ""
	}
	return creds.Token
}

// SetToken persists the credential, creating the parent directory with
// owner-only permissions when absent.
func (s *Store) SetToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(credentials{Token: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := os.WriteFile(s.path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write credentials file %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the stored credential. Clearing an empty store is not
// an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials file %s: %w", s.path, err)
	}
	return nil
}

// ResolveToken returns the credential to use for hosting-service calls:
// the stored credential when present, then the PRFLIGHT_TOKEN and
// GITHUB_TOKEN environment variables.
func ResolveToken(store *Store) string {
	if token := store.Token(); token != "" {
		return token
	}
	if token := os.Getenv("PRFLIGHT_TOKEN"); token != "" {
		return token
	}
	return os.Getenv("GITHUB_TOKEN")
}
