// Package session holds the identity the client acts as. A Session moves from
// Init to either Authenticated or Local, and ends Cleared.
package session

import (
	"eisenhower-matrix/internal/apperr"
	"eisenhower-matrix/internal/config"
	"eisenhower-matrix/internal/models"
	"sync"
)

type State int

const (
	Init State = iota
	Authenticated
	Local
	Cleared
)

func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case Authenticated:
		return "authenticated"
	case Local:
		return "local"
	case Cleared:
		return "cleared"
	default:
		return "unknown"
	}
}

type Session struct {
	mu     sync.RWMutex
	state  State
	userID string
	email  string
	token  string
}

func New() *Session {
	return &Session{}
}

// FromConfig starts an authenticated session when cfg carries remote
// credentials and a local one otherwise.
func FromConfig(cfg *config.ClientConfig) *Session {
	s := New()
	if cfg.RemoteConfigured() {
		_ = s.Authenticate(cfg.User.ID, cfg.User.Email, cfg.API.Token)
		return s
	}
	s.UseLocal()
	return s
}

// Authenticate binds the session to a user and bearer token.
func (s *Session) Authenticate(userID, email, token string) error {
	if token == "" {
		return apperr.Validation("token is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Authenticated
	s.userID = userID
	s.email = email
	s.token = token
	return nil
}

// UseLocal switches to the on-device identity.
func (s *Session) UseLocal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Local
	s.userID = models.LocalUserID
	s.email = ""
	s.token = ""
}

// Clear forgets the identity. A cleared session can be authenticated again.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Cleared
	s.userID = ""
	s.email = ""
	s.token = ""
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
