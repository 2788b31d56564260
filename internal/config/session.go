package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNotLoggedIn is returned when no session token is stored
var ErrNotLoggedIn = errors.New("not logged in - run 'jato auth login' first")

// Session is the login state kept between CLI invocations
type Session struct {
	APIURL    string    `json:"api_url"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	LoggedIn  time.Time `json:"logged_in"`
}

// SessionPath returns ~/.jato/session.json
func SessionPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

// LoadSession reads the stored session. A missing file yields ErrNotLoggedIn.
func LoadSession() (*Session, error) {
	path, err := SessionPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	s := &Session{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if s.Token == "" {
		return nil, ErrNotLoggedIn
	}
	return s, nil
}

// Save writes the session with owner-only permissions
func (s *Session) Save() error {
	path, err := SessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// ClearSession removes the stored session. Removing a missing session is not an error.
func ClearSession() error {
	path, err := SessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
