package testutil

import (
	"time"

	"github.com/hupe1980/panelmesh/core"
)

// SeedTime is the fixed creation time builders default to, so assertions on
// timestamps stay deterministic.
var SeedTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// SessionBuilder helps construct panel sessions with fluent chaining for
// tests. Example:
//
//	sess := NewSessionBuilder("panel-1").Members("a", "b").Moderated().
//		Exchange("hello", Response("a", "Dr. A", "hi", core.MoodNeutral)).
//		Build()
type SessionBuilder struct {
	id        string
	members   []string
	moderated bool
	createdAt time.Time
	exchanges []core.Exchange
}

// NewSessionBuilder creates a new builder for a session with the given id.
// Use chainable methods (Members, Moderated, Exchange) then call Build.
func NewSessionBuilder(id string) *SessionBuilder {
	return &SessionBuilder{id: id, createdAt: SeedTime}
}

// Members sets the panel membership in speaking order (chainable).
func (b *SessionBuilder) Members(ids ...string) *SessionBuilder {
	b.members = ids
	return b
}

// Moderated marks the session as having a moderator (chainable).
func (b *SessionBuilder) Moderated() *SessionBuilder {
	b.moderated = true
	return b
}

// CreatedAt overrides the default creation time (chainable).
func (b *SessionBuilder) CreatedAt(t time.Time) *SessionBuilder {
	b.createdAt = t
	return b
}

// Exchange appends one completed exchange to the discussion history
// (chainable).
func (b *SessionBuilder) Exchange(userMessage string, responses ...core.PanelResponse) *SessionBuilder {
	if responses == nil {
		responses = []core.PanelResponse{}
	}
	b.exchanges = append(b.exchanges, core.Exchange{
		UserMessage: userMessage,
		Responses:   responses,
	})
	return b
}

// Build returns a *core.PanelSession with the configured membership and
// pre-populated history.
func (b *SessionBuilder) Build() *core.PanelSession {
	s := core.NewPanelSession(b.id, b.members, b.moderated, b.createdAt)
	for _, ex := range b.exchanges {
		s.AddExchange(ex, b.createdAt)
	}
	return s
}
