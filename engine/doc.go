// Package engine implements the panel orchestrator, the composition root
// and public surface of PanelMesh.
//
// The Engine composes the session store, the persona and panel-config
// registries, the response sequencer and the optional moderator into the
// public operations of a panel discussion:
//
//   - Start: validate, create a session, optionally introduce the panel,
//     run the first round
//   - Continue: run one more round on an existing session
//   - Summarize: have the moderator synthesize the recent discussion
//   - End: retire a session and report its final counts
//   - ListConfigs / ListSessions: registry and store introspection
//
// # Session Lifecycle
//
// Sessions move CREATED -> ACTIVE -> ACTIVE... -> ENDED or EXPIRED. There
// is no transition out of ENDED or EXPIRED; both are implemented as
// deletion, so a Get on such an id is indistinguishable from an id that
// never existed. Expiry is opportunistic: every public operation first
// sweeps the store for sessions idle longer than the configured TTL. The
// engine never runs a background goroutine.
//
// # Concurrency Model
//
// All round work happens synchronously on the calling goroutine. Turns
// within a round are strictly sequential because each persona's context
// includes the replies produced earlier in the same round; concurrency here
// would break the live cross-reference guarantee. Calls for different
// sessions may run concurrently; the store's single RWMutex is the only
// synchronization domain.
//
// # Error Handling
//
// Malformed requests surface core.ValidationError and unknown sessions
// surface core.NotFoundError before any mutation. Provider failures never
// escape a round: the sequencer and moderator degrade locally, so even an
// all-degraded round returns a full response list and a nil error.
//
// # Streaming
//
// Per-call observers (WithObserver, WithSessionObserver, WithIntroObserver)
// expose each stage of a Start or Continue call as it happens, on the
// calling goroutine and in panel order. The HTTP layer builds its SSE
// streams on this seam; no channels or goroutines are involved.
package engine
