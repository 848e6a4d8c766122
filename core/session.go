package core

import (
	"fmt"
	"time"
)

// PanelResponse is one persona's contribution to a round. Degraded responses
// carry the same shape as normal ones so callers can choose whether to
// surface the distinction.
type PanelResponse struct {
	PersonaID    string   `json:"persona_id"`
	PersonaName  string   `json:"persona_name"`
	ResponseText string   `json:"response_text"`
	Mood         Mood     `json:"mood"`
	References   []string `json:"references"`
	Degraded     bool     `json:"degraded"`
}

// Exchange records one full round: the user's message and every persona
// response produced for it, in the order they were generated. Exchanges are
// immutable once appended to a session's history.
type Exchange struct {
	UserMessage    string          `json:"user_message"`
	Responses      []PanelResponse `json:"responses"`
	ExchangeNumber int             `json:"exchange_number"`
}

// ModeratorSummary is the moderator's synthesis of the discussion so far:
// a prose summary, three to five key insights, and the personas whose points
// the synthesis explicitly credits.
type ModeratorSummary struct {
	ResponseText     string   `json:"response_text"`
	KeyInsights      []string `json:"key_insights"`
	CreditedPersonas []string `json:"credited_personas"`
}

// PanelSession is the stateful container for one panel discussion.
//
// Contract:
//   - PersonaIDs is fixed for the session's lifetime
//   - ExchangeCount always equals len(DiscussionHistory)
//   - DiscussionHistory is append-only; exchanges are never edited
//   - All mutation goes through the owning SessionStore, which serializes
//     access; the session itself carries no lock because at most one round
//     is ever in flight per session by construction of the public API
type PanelSession struct {
	ID                string     `json:"session_id"`
	PersonaIDs        []string   `json:"persona_ids"`
	HasModerator      bool       `json:"has_moderator"`
	ExchangeCount     int        `json:"exchange_count"`
	DiscussionHistory []Exchange `json:"discussion_history"`
	CreatedAt         time.Time  `json:"created_at"`
	LastUpdated       time.Time  `json:"last_updated"`
}

// NewPanelSession creates a session with the given id and members. It does
// not validate panel size; the store does that before calling.
func NewPanelSession(id string, personaIDs []string, hasModerator bool, now time.Time) *PanelSession {
	ids := make([]string, len(personaIDs))
	copy(ids, personaIDs)
	return &PanelSession{
		ID:                id,
		PersonaIDs:        ids,
		HasModerator:      hasModerator,
		DiscussionHistory: []Exchange{},
		CreatedAt:         now,
		LastUpdated:       now,
	}
}

// ValidatePanelSize checks the 2-4 member bound.
func ValidatePanelSize(personaIDs []string) error {
	if n := len(personaIDs); n < MinPanelSize || n > MaxPanelSize {
		return NewValidationError("panel must have between %d and %d personas, got %d", MinPanelSize, MaxPanelSize, n)
	}
	return nil
}

// AddExchange appends ex to the history, assigning its 1-based
// ExchangeNumber, and bumps ExchangeCount and LastUpdated. The assigned
// exchange (with its number filled in) is returned.
func (s *PanelSession) AddExchange(ex Exchange, now time.Time) Exchange {
	ex.ExchangeNumber = len(s.DiscussionHistory) + 1
	s.DiscussionHistory = append(s.DiscussionHistory, ex)
	s.ExchangeCount = len(s.DiscussionHistory)
	s.LastUpdated = now
	return ex
}

// Touch bumps LastUpdated, deferring session expiry.
func (s *PanelSession) Touch(now time.Time) {
	s.LastUpdated = now
}

// LastExchange returns the most recent exchange, or false when the history
// is empty.
func (s *PanelSession) LastExchange() (Exchange, bool) {
	if len(s.DiscussionHistory) == 0 {
		return Exchange{}, false
	}
	return s.DiscussionHistory[len(s.DiscussionHistory)-1], true
}

// RecentExchanges returns a defensive copy of at most the last n exchanges,
// oldest first. n <= 0 yields an empty slice.
func (s *PanelSession) RecentExchanges(n int) []Exchange {
	if n <= 0 || len(s.DiscussionHistory) == 0 {
		return []Exchange{}
	}
	start := len(s.DiscussionHistory) - n
	if start < 0 {
		start = 0
	}
	out := make([]Exchange, len(s.DiscussionHistory)-start)
	copy(out, s.DiscussionHistory[start:])
	return out
}

// HasMember reports whether id is one of the session's panelists.
func (s *PanelSession) HasMember(id string) bool {
	for _, pid := range s.PersonaIDs {
		if pid == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the session safe for independent use. Stores
// hand out clones so no caller can mutate held state directly.
func (s *PanelSession) Clone() *PanelSession {
	clone := &PanelSession{
		ID:                s.ID,
		PersonaIDs:        make([]string, len(s.PersonaIDs)),
		HasModerator:      s.HasModerator,
		ExchangeCount:     s.ExchangeCount,
		DiscussionHistory: make([]Exchange, len(s.DiscussionHistory)),
		CreatedAt:         s.CreatedAt,
		LastUpdated:       s.LastUpdated,
	}
	copy(clone.PersonaIDs, s.PersonaIDs)
	for i, ex := range s.DiscussionHistory {
		responses := make([]PanelResponse, len(ex.Responses))
		copy(responses, ex.Responses)
		for j, r := range responses {
			refs := make([]string, len(r.References))
			copy(refs, r.References)
			responses[j].References = refs
		}
		clone.DiscussionHistory[i] = Exchange{
			UserMessage:    ex.UserMessage,
			Responses:      responses,
			ExchangeNumber: ex.ExchangeNumber,
		}
	}
	return clone
}

// checkInvariants verifies the count/history correspondence. Violations mean
// a store bug, not caller error.
func (s *PanelSession) checkInvariants() error {
	if s.ExchangeCount != len(s.DiscussionHistory) {
		return fmt.Errorf("session %s: exchange_count %d != history length %d", s.ID, s.ExchangeCount, len(s.DiscussionHistory))
	}
	return nil
}

// SessionStore holds all active panel sessions and owns every mutation of
// them. Implementations must be safe for concurrent use across different
// session ids; a single coarse lock over the map is sufficient.
type SessionStore interface {
	// Create validates panel size, generates a collision-checked unique id
	// and stores a fresh session, returning a snapshot of it.
	Create(personaIDs []string, hasModerator bool) (*PanelSession, error)
	// Get returns a snapshot of the session, or NotFoundError if the id is
	// unknown, ended, or expired.
	Get(sessionID string) (*PanelSession, error)
	// Touch bumps the session's LastUpdated; unknown ids are a no-op.
	Touch(sessionID string)
	// Delete removes the session; deleting an absent id is not an error.
	Delete(sessionID string)
	// Sweep removes every session idle longer than ttl as of now and
	// returns how many were removed. It must never run on a background
	// goroutine; callers invoke it at the start of every public operation.
	Sweep(now time.Time, ttl time.Duration) int
	// AppendExchange appends one completed round to the session, assigning
	// its exchange number and touching the session, and returns the updated
	// snapshot. NotFoundError if the session is gone.
	AppendExchange(sessionID string, ex Exchange) (*PanelSession, error)
	// List returns snapshots of all live sessions in unspecified order.
	List() []*PanelSession
	// Len reports the number of live sessions.
	Len() int
}
