package engine

import (
	"time"

	"github.com/hupe1980/panelmesh/core"
)

// StartRequest describes a new panel discussion. Exactly one of
// PanelConfigID or PersonaIDs selects the panel; non-empty PersonaIDs win.
// When both are empty the registry's default configuration is used.
type StartRequest struct {
	// PanelConfigID names a configuration from the panel-config registry.
	PanelConfigID string `json:"panel_config,omitempty"`

	// PersonaIDs assembles a custom panel of 2-4 registered personas,
	// bypassing the named configurations.
	PersonaIDs []string `json:"persona_ids,omitempty"`

	// Message is the user's opening message. Must not be empty.
	Message string `json:"message"`

	// IncludeModerator adds the moderator role: an intro before the first
	// round and the ability to summarize later.
	IncludeModerator bool `json:"include_moderator"`

	// SkipPersonas excludes members from the first round only; they remain
	// panel members. Unknown ids are ignored.
	SkipPersonas []string `json:"skip_personas,omitempty"`
}

// ContinueRequest runs one more round on an existing session.
type ContinueRequest struct {
	SessionID string `json:"session_id"`

	// Message is the user's next message. Must not be empty.
	Message string `json:"message"`

	// SkipPersonas excludes members from this round only.
	SkipPersonas []string `json:"skip_personas,omitempty"`
}

// PanelState is the state block attached to every Start and Continue
// result, mirrored verbatim over the wire.
type PanelState struct {
	Active          bool `json:"active"`
	ExchangeCount   int  `json:"exchange_count"`
	TotalPersonas   int  `json:"total_personas"`
	HasModerator    bool `json:"has_moderator"`
	ShouldSummarize bool `json:"should_summarize"`
}

// StartResult is the outcome of a successful Start: the new session's
// identity and membership, the optional moderator intro, and the first
// round's responses.
type StartResult struct {
	SessionID      string               `json:"session_id"`
	PersonaIDs     []string             `json:"persona_ids"`
	PersonaNames   []string             `json:"persona_names"`
	ModeratorIntro *core.PanelResponse  `json:"moderator_intro,omitempty"`
	Responses      []core.PanelResponse `json:"panel_responses"`
	State          PanelState           `json:"panel_state"`
}

// RoundResult is the outcome of a successful Continue.
type RoundResult struct {
	SessionID string               `json:"session_id"`
	Responses []core.PanelResponse `json:"panel_responses"`
	State     PanelState           `json:"panel_state"`
}

// FinalSummary reports the closing counts of an ended session.
type FinalSummary struct {
	TotalExchanges  int    `json:"total_exchanges"`
	InsightsCount   int    `json:"insights_count"`
	FarewellMessage string `json:"farewell_message"`
}

// EndResult is the outcome of a successful End.
type EndResult struct {
	Success      bool         `json:"success"`
	FinalSummary FinalSummary `json:"final_summary"`
}

// SessionInfo is a point-in-time snapshot of one live session, as returned
// by ListSessions.
type SessionInfo struct {
	SessionID     string    `json:"session_id"`
	PersonaIDs    []string  `json:"persona_ids"`
	ExchangeCount int       `json:"exchange_count"`
	HasModerator  bool      `json:"has_moderator"`
	CreatedAt     time.Time `json:"created_at"`
	LastUpdated   time.Time `json:"last_updated"`
}
