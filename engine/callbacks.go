package engine

import (
	"github.com/hupe1980/panelmesh/core"
	"github.com/hupe1980/panelmesh/discuss"
)

// CallOptions configure a single Start or Continue call.
//
// Observers provide a mechanism for hooking into a round's lifecycle
// without modifying engine logic: the server's SSE handlers are built
// entirely on this seam, and embedders can use the same hooks for
// progress reporting or instrumentation.
//
// All observers run synchronously on the calling goroutine, so events
// arrive strictly in panel order and an observer that blocks delays the
// round. Implementations should be fast and must not call back into the
// engine for the same session.
type CallOptions struct {
	// Observer receives each panel response as it is produced.
	Observer discuss.Observer

	// OnSession receives the new session's id and initial state after
	// creation, before any generation. Start only.
	OnSession func(sessionID string, state PanelState)

	// OnIntro receives the moderator intro before the round begins.
	// Start only.
	OnIntro func(resp core.PanelResponse)
}

// WithObserver streams each panel response as it is produced.
func WithObserver(fn discuss.Observer) func(o *CallOptions) {
	return func(o *CallOptions) { o.Observer = fn }
}

// WithSessionObserver reports the created session before generation starts.
func WithSessionObserver(fn func(sessionID string, state PanelState)) func(o *CallOptions) {
	return func(o *CallOptions) { o.OnSession = fn }
}

// WithIntroObserver streams the moderator intro ahead of the first round.
func WithIntroObserver(fn func(resp core.PanelResponse)) func(o *CallOptions) {
	return func(o *CallOptions) { o.OnIntro = fn }
}
