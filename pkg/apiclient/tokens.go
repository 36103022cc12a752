package apiclient

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// TokenStore holds the two session credentials and persists them to a
// JSON file so they survive restarts. All methods are safe for concurrent
// use within one process; separate processes sharing the file are
// last-writer-wins and deliberately not coordinated.
type TokenStore struct {
	mu      sync.Mutex
	path    string
	access  string
	refresh string
}

type tokenFile struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// NewTokenStore loads tokens from path if the file exists; a missing file
// just means a logged-out state.
func NewTokenStore(path string) (*TokenStore, error) {
	s := &TokenStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}

	var f tokenFile
	if err := json.Unmarshal(data, &f); err != nil {
		// A corrupt token file is treated as logged out rather than
		// locking the user into an error.
		return s, nil
	}
	s.access = f.AccessToken
	s.refresh = f.RefreshToken
	return s, nil
}

// Tokens returns the current access and refresh tokens; either may be "".
func (s *TokenStore) Tokens() (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access, s.refresh
}

func (s *TokenStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return s.save()
}

// SetAccessToken replaces only the access half; the refresh token is not
// rotated on refresh.
func (s *TokenStore) SetAccessToken(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	return s.save()
}

// Clear wipes both slots and removes the file.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// save writes atomically so a crash cannot leave a half-written file.
// Caller must hold s.mu.
func (s *TokenStore) save() error {
	data, err := json.Marshal(tokenFile{AccessToken: s.access, RefreshToken: s.refresh})
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
