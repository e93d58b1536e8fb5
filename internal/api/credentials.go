package api

import "sync"

// Credentials supplies the opaque authentication token attached to requests.
// The client only asks whether a token is present; issuing and refreshing
// tokens belongs to an external identity collaborator.
type Credentials interface {
	Token() (string, bool)
}

// StaticCredentials holds a fixed token. An empty value means not
// authenticated.
type StaticCredentials string

func (c StaticCredentials) Token() (string, bool) {
	if c == "" {
		return "", false
	}
	return string(c), true
}

// TokenStore is a swappable credential holder for long-lived sessions where
// the token can appear (login) or vanish (logout) while the client is live.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

func (s *TokenStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *TokenStore) Clear() {
	s.Set("")
}
