// Package auth manages Microsoft 365 browser sessions for SharePoint
// access: a file-backed session store and an interactive SSO flow.
package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultMaxAge is how long a stored session is trusted before the user
// must sign in again.
const DefaultMaxAge = 8 * time.Hour

// Session is the metadata saved after a successful sign-in.
type Session struct {
	// Domain is the SharePoint host the session belongs to.
	Domain string `json:"domain"`
	// CreatedAt is the sign-in time in RFC 3339 form.
	CreatedAt string `json:"created_at"`
	// Metadata carries extra context such as the original URL.
	Metadata map[string]string `json:"metadata,omitempty"`
	// Valid reports whether the session is still within its age window.
	// Populated by ListSessions, not stored.
	Valid bool `json:"valid,omitempty"`
}

// Cookie is a stored browser cookie.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"http_only,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	SameSite string  `json:"same_site,omitempty"`
}

// Store persists per-domain session metadata and browser cookies on disk.
// Each domain gets a <domain>_session.json and a <domain>_state.json.
type Store struct {
	dir    string
	maxAge time.Duration
}

// NewStore opens a session store rooted at dir. An empty dir defaults to
// ~/.xlaudit/sessions, and a zero maxAge defaults to DefaultMaxAge.
func NewStore(dir string, maxAge time.Duration) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(home, ".xlaudit", "sessions")
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}
	return &Store{dir: dir, maxAge: maxAge}, nil
}

func safeDomain(domain string) string {
	return strings.NewReplacer(".", "_", "/", "_").Replace(domain)
}

func (s *Store) sessionPath(domain string) string {
	return filepath.Join(s.dir, safeDomain(domain)+"_session.json")
}

func (s *Store) statePath(domain string) string {
	return filepath.Join(s.dir, safeDomain(domain)+"_state.json")
}

// HasValidSession reports whether both the session metadata and cookie
// state exist for domain and the session is younger than the age window.
func (s *Store) HasValidSession(domain string) bool {
	if _, err := os.Stat(s.statePath(domain)); err != nil {
		return false
	}
	data, err := os.ReadFile(s.sessionPath(domain))
	if err != nil {
		return false
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return false
	}
	createdAt, err := time.Parse(time.RFC3339, session.CreatedAt)
	if err != nil {
		return false
	}
	return time.Since(createdAt) <= s.maxAge
}

// SaveSession records session metadata for domain with the current time.
func (s *Store) SaveSession(domain string, metadata map[string]string) error {
	session := Session{
		Domain:    domain,
		CreatedAt: time.Now().Format(time.RFC3339),
		Metadata:  metadata,
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.sessionPath(domain), data, 0o600)
}

// SaveCookies stores the browser cookie state for domain.
func (s *Store) SaveCookies(domain string, cookies []Cookie) error {
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.statePath(domain), data, 0o600)
}

// LoadCookies reads the stored browser cookie state for domain.
func (s *Store) LoadCookies(domain string) ([]Cookie, error) {
	data, err := os.ReadFile(s.statePath(domain))
	if err != nil {
		return nil, err
	}
	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("parsing cookie state for %s: %w", domain, err)
	}
	return cookies, nil
}

// ClearSession removes the session and cookie state for domain.
func (s *Store) ClearSession(domain string) error {
	for _, path := range []string{s.sessionPath(domain), s.statePath(domain)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// ClearAll removes every stored session.
func (s *Store) ClearAll() error {
	for _, suffix := range []string{"*_session.json", "*_state.json"} {
		matches, err := filepath.Glob(filepath.Join(s.dir, suffix))
		if err != nil {
			return err
		}
		for _, path := range matches {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
	}
	return nil
}

// ListSessions returns every stored session with its validity flag set.
func (s *Store) ListSessions() []Session {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*_session.json"))
	if err != nil {
		return nil
	}
	var sessions []Session
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var session Session
		if err := json.Unmarshal(data, &session); err != nil {
			continue
		}
		session.Valid = s.HasValidSession(session.Domain)
		sessions = append(sessions, session)
	}
	return sessions
}
