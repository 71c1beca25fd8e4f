package session

import "sync"

// TokenStore holds the current Session in process memory. It never persists.
type TokenStore struct {
	mu      sync.RWMutex
	current *Session
}

// Get returns a copy of the current session and whether one exists.
func (t *TokenStore) Get() (Session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.current == nil {
		return Session{}, false
	}
	return *t.current, true
}

// Set replaces the current session wholesale.
func (t *TokenStore) Set(s Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = &s
}

// Clear removes the session and reports whether one was present.
func (t *TokenStore) Clear() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	had := t.current != nil
	t.current = nil
	return had
}
