package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/panelmesh/core"
)

// DefaultTTL is the idle lifetime after which a session becomes eligible for
// sweeping.
const DefaultTTL = 30 * time.Minute

// maxIDAttempts bounds id-generation retries on collision. Hitting the bound
// means the id source is broken (the space is 48 bits; honest collisions are
// not a practical concern) and the operation aborts.
const maxIDAttempts = 5

// Options configures an InMemoryStore.
type Options struct {
	// Clock supplies the current time for creation, touch and append
	// timestamps. Tests inject a fake clock here.
	Clock func() time.Time
	// NewID generates candidate session ids. The store collision-checks
	// every candidate against its live contents.
	NewID func() string
}

// WithClock injects a time source, used together with Sweep to test expiry
// without waiting.
func WithClock(clock func() time.Time) func(o *Options) {
	return func(o *Options) { o.Clock = clock }
}

// WithIDGenerator injects a session id source.
func WithIDGenerator(newID func() string) func(o *Options) {
	return func(o *Options) { o.NewID = newID }
}

// InMemoryStore is a volatile core.SessionStore holding panel sessions in a
// process-local map. It is safe for concurrent access from independent
// sessions' calls; a single RWMutex over the map is the only mutual-exclusion
// domain. Every returned session is a clone, so callers can never mutate
// held state directly. Expiry is purely caller-driven via Sweep; the store
// never spawns a goroutine.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.PanelSession
	now      func() time.Time
	newID    func() string
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{
		Clock: time.Now,
		NewID: core.NewSessionID,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{
		sessions: make(map[string]*core.PanelSession),
		now:      opts.Clock,
		newID:    opts.NewID,
	}
}

// Create validates panel size, generates a collision-checked id and stores a
// fresh session, returning a snapshot of it.
func (s *InMemoryStore) Create(personaIDs []string, hasModerator bool) (*core.PanelSession, error) {
	if err := core.ValidatePanelSize(personaIDs); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.uniqueIDLocked()
	if err != nil {
		return nil, err
	}
	sess := core.NewPanelSession(id, personaIDs, hasModerator, s.now())
	s.sessions[id] = sess
	return sess.Clone(), nil
}

// uniqueIDLocked draws candidate ids until one is free. Caller must hold the
// write lock so the check-then-insert in Create is atomic.
func (s *InMemoryStore) uniqueIDLocked() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if _, taken := s.sessions[id]; !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("session id generation produced %d consecutive collisions", maxIDAttempts)
}

// Get returns a snapshot of the session, or NotFoundError if the id is
// unknown. Ended and expired sessions have been deleted, so they are
// indistinguishable from ids that never existed.
func (s *InMemoryStore) Get(sessionID string) (*core.PanelSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, core.NewNotFoundError("session", sessionID)
	}
	return sess.Clone(), nil
}

// Touch bumps the session's LastUpdated to now. Unknown ids are a no-op;
// callers Get first when absence matters.
func (s *InMemoryStore) Touch(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.Touch(s.now())
	}
}

// Delete removes the session. Deleting an absent id is not an error at this
// layer; the engine's End reports NotFoundError itself via Get.
func (s *InMemoryStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Sweep removes every session idle strictly longer than ttl as of now and
// returns how many were removed.
func (s *InMemoryStore) Sweep(now time.Time, ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastUpdated) > ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// AppendExchange appends one completed round to the session, assigning its
// 1-based exchange number and bumping LastUpdated, and returns the updated
// snapshot.
func (s *InMemoryStore) AppendExchange(sessionID string, ex core.Exchange) (*core.PanelSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, core.NewNotFoundError("session", sessionID)
	}
	sess.AddExchange(ex, s.now())
	return sess.Clone(), nil
}

// List returns snapshots of all live sessions in unspecified order.
func (s *InMemoryStore) List() []*core.PanelSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.PanelSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.Clone())
	}
	return out
}

// Len reports the number of live sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
