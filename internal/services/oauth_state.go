package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// OAuthStateStore holds short-lived, single-use CSRF state tokens for the
// federated login flow. Entries expire after the configured TTL and are
// discarded on use.
type OAuthStateStore struct {
	mu      sync.Mutex
	entries map[string]stateEntry
	ttl     time.Duration
}

type stateEntry struct {
	next      string
	expiresAt time.Time
}

func NewOAuthStateStore(ttl time.Duration) *OAuthStateStore {
	return &OAuthStateStore{
		entries: make(map[string]stateEntry),
		ttl:     ttl,
	}
}

// Issue mints a new state token bound to the post-login redirect target.
func (s *OAuthStateStore) Issue(next string) (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	state := hex.EncodeToString(raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.entries[state] = stateEntry{
		next:      next,
		expiresAt: time.Now().Add(s.ttl),
	}
	return state, nil
}

// Consume validates and removes a state token, returning the redirect target
// it was issued with. A second use of the same token fails.
func (s *OAuthStateStore) Consume(state string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[state]
	if !ok {
		return "", false
	}
	delete(s.entries, state)
	if time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.next, true
}

func (s *OAuthStateStore) purgeLocked() {
	now := time.Now()
	for state, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, state)
		}
	}
}
