// Package panelmesh provides a high-level façade over the panel Engine and
// its services (personas, sessions & logging) enabling rapid construction of
// multi-persona discussion systems. Most applications interact with this
// package by:
//  1. Creating a PanelMesh via New() (a generation model plus optional overrides)
//  2. Starting a discussion (Start) and continuing it round by round (Continue)
//  3. Asking the moderator for a summary (Summarize) and closing the panel (End)
//
// The façade delegates orchestration to engine.Engine while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply YAML persona definitions
// and a structured logger.
package panelmesh

import (
	"context"

	"github.com/hupe1980/panelmesh/core"
	"github.com/hupe1980/panelmesh/engine"
	"github.com/hupe1980/panelmesh/logging"
	"github.com/hupe1980/panelmesh/model"
	"github.com/hupe1980/panelmesh/persona"
)

// Options configures the PanelMesh instance.
type Options struct {
	// EngineConfig carries the tuning parameters (session TTL, turn timeout,
	// context window, summary threshold and window).
	EngineConfig engine.Config

	// Registry supplies personas, panel configurations and the moderator
	// profile. Defaults to a registry seeded with the built-in panel.
	Registry engine.Registry

	// SessionStore holds the live sessions (defaults to in-memory).
	SessionStore core.SessionStore

	// Logger (defaults to NoOp logger if nil)
	Logger logging.RoundLogger
}

// PanelMesh is the high-level façade aggregating the engine and its services.
type PanelMesh struct {
	opts   Options
	engine *engine.Engine
}

// New creates a new PanelMesh instance over the given generation model. Any
// unset service is initialized with its in-memory default; without an
// explicit registry the built-in personas, panel configurations and
// moderator are seeded.
func New(mdl model.Model, optFns ...func(o *Options)) (*PanelMesh, error) {
	opts := Options{
		EngineConfig: engine.DefaultConfig,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Registry == nil {
		registry := persona.NewRegistry()
		if err := registry.Seed(); err != nil {
			return nil, err
		}
		opts.Registry = registry
	}

	eng := engine.New(opts.Registry, mdl, func(o *engine.Options) {
		o.Config = opts.EngineConfig
		o.SessionStore = opts.SessionStore
		o.Logger = opts.Logger
	})

	return &PanelMesh{opts: opts, engine: eng}, nil
}

// Engine exposes the underlying engine, for wiring into server.New or for
// the call-scoped observer options.
func (m *PanelMesh) Engine() *engine.Engine { return m.engine }

// Start opens a new panel session and runs the first round.
func (m *PanelMesh) Start(ctx context.Context, req engine.StartRequest, optFns ...func(o *engine.CallOptions)) (*engine.StartResult, error) {
	return m.engine.Start(ctx, req, optFns...)
}

// Continue runs one more round on an existing session.
func (m *PanelMesh) Continue(ctx context.Context, req engine.ContinueRequest, optFns ...func(o *engine.CallOptions)) (*engine.RoundResult, error) {
	return m.engine.Continue(ctx, req, optFns...)
}

// Summarize asks the moderator for a summary of the discussion so far.
func (m *PanelMesh) Summarize(ctx context.Context, sessionID string) (*core.ModeratorSummary, error) {
	return m.engine.Summarize(ctx, sessionID)
}

// End closes a session and returns its final counts.
func (m *PanelMesh) End(ctx context.Context, sessionID string) (*engine.EndResult, error) {
	return m.engine.End(ctx, sessionID)
}

// ListConfigs returns the available panel configurations.
func (m *PanelMesh) ListConfigs() []core.PanelConfig {
	return m.engine.ListConfigs()
}

// ListSessions snapshots the live sessions.
func (m *PanelMesh) ListSessions() []engine.SessionInfo {
	return m.engine.ListSessions()
}
