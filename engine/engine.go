package engine

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/hupe1980/panelmesh/core"
	"github.com/hupe1980/panelmesh/discuss"
	"github.com/hupe1980/panelmesh/logging"
	"github.com/hupe1980/panelmesh/model"
	"github.com/hupe1980/panelmesh/moderator"
	"github.com/hupe1980/panelmesh/session"
)

// farewellMessage closes the final summary of every ended session.
const farewellMessage = "Thank you for participating in this panel discussion. The panel members hope their diverse perspectives were helpful!"

// Config holds the engine's tuning parameters. Zero values fall back to the
// corresponding defaults, so callers only set what they want to change.
type Config struct {
	// SessionTTL is the idle lifetime after which a session is swept.
	SessionTTL time.Duration

	// TurnTimeout bounds each persona and moderator generation call.
	TurnTimeout time.Duration

	// ContextWindow is how many prior exchanges feed each turn's context.
	ContextWindow int

	// SummaryThreshold is the exchange count at which should_summarize
	// starts reporting true.
	SummaryThreshold int

	// SummaryWindow bounds how many recent exchanges feed a summary.
	SummaryWindow int
}

// DefaultConfig carries the stock tuning values, assembled from the
// defaults of the underlying packages.
var DefaultConfig = Config{
	SessionTTL:       session.DefaultTTL,
	TurnTimeout:      discuss.DefaultTurnTimeout,
	ContextWindow:    discuss.DefaultWindow,
	SummaryThreshold: moderator.DefaultSummaryThreshold,
	SummaryWindow:    moderator.DefaultSummaryWindow,
}

// Registry is the combined persona and panel-config surface the engine
// consumes. *persona.Registry satisfies it.
type Registry interface {
	core.PersonaRegistry
	core.ConfigRegistry

	// Moderator returns the moderator profile, or false when none is
	// installed. Without one, moderated sessions cannot be started.
	Moderator() (*core.Persona, bool)
}

// Options configure an Engine.
type Options struct {
	// Config holds the tuning parameters. Zero fields use DefaultConfig.
	Config Config

	// SessionStore holds the live sessions. Defaults to an in-memory store.
	SessionStore core.SessionStore

	// Logger receives telemetry. Defaults to the no-op logger.
	Logger logging.RoundLogger

	// Clock supplies now for the opportunistic sweep. Tests inject a fake
	// clock here, paired with the store's own WithClock.
	Clock func() time.Time
}

// Engine is the panel orchestrator. It owns no background goroutines and
// keeps no per-call state; all fields are immutable after construction, so
// one Engine serves concurrent callers.
type Engine struct {
	store    core.SessionStore
	registry Registry
	seq      *discuss.Sequencer
	mod      *moderator.Moderator // nil when the registry has no moderator profile
	cfg      Config
	logger   logging.RoundLogger
	now      func() time.Time
}

// New creates an Engine over the given registry and generation model.
func New(registry Registry, mdl model.Model, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config:       DefaultConfig,
		SessionStore: session.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
		Clock:        time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	cfg := opts.Config
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultConfig.SessionTTL
	}
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = DefaultConfig.TurnTimeout
	}
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = DefaultConfig.ContextWindow
	}
	if cfg.SummaryThreshold <= 0 {
		cfg.SummaryThreshold = DefaultConfig.SummaryThreshold
	}
	if cfg.SummaryWindow <= 0 {
		cfg.SummaryWindow = DefaultConfig.SummaryWindow
	}

	e := &Engine{
		store:    opts.SessionStore,
		registry: registry,
		cfg:      cfg,
		logger:   opts.Logger,
		now:      opts.Clock,
	}

	e.seq = discuss.NewSequencer(registry, mdl, func(o *discuss.Options) {
		o.TurnTimeout = cfg.TurnTimeout
		o.Window = cfg.ContextWindow
		o.Logger = opts.Logger
	})

	if profile, ok := registry.Moderator(); ok {
		e.mod = moderator.New(registry, *profile, mdl, func(o *moderator.Options) {
			o.SummaryThreshold = cfg.SummaryThreshold
			o.SummaryWindow = cfg.SummaryWindow
			o.Timeout = cfg.TurnTimeout
			o.Logger = opts.Logger
		})
	}

	return e
}

// Start validates the request, creates a session, optionally generates the
// moderator intro, and runs the first round.
//
// The panel is selected by PanelConfigID, by custom PersonaIDs, or by the
// registry's default configuration when both are empty. ValidationError for
// an empty message, an unknown config or persona, a panel outside the 2-4
// size bounds, or a moderated request without a moderator profile; in every
// error case no session survives the call.
func (e *Engine) Start(ctx context.Context, req StartRequest, callOpts ...func(o *CallOptions)) (*StartResult, error) {
	var opts CallOptions
	for _, fn := range callOpts {
		fn(&opts)
	}

	e.sweep()

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, core.NewValidationError("message must not be empty")
	}

	memberIDs, err := e.resolveMembers(req)
	if err != nil {
		return nil, err
	}

	if req.IncludeModerator && e.mod == nil {
		return nil, core.NewValidationError("no moderator profile configured")
	}

	sess, err := e.store.Create(memberIDs, req.IncludeModerator)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Panel session started",
		"session_id", sess.ID,
		"personas", len(sess.PersonaIDs),
		"moderator", sess.HasModerator,
	)

	if opts.OnSession != nil {
		opts.OnSession(sess.ID, e.State(sess))
	}

	var intro *core.PanelResponse
	if sess.HasModerator {
		resp, err := e.mod.Intro(ctx, sess)
		if err != nil {
			e.store.Delete(sess.ID)
			return nil, err
		}
		intro = &resp
		if opts.OnIntro != nil {
			opts.OnIntro(resp)
		}
	}

	updated, responses, err := e.runRound(ctx, sess, message, req.SkipPersonas, opts.Observer)
	if err != nil {
		e.store.Delete(sess.ID)
		return nil, err
	}

	return &StartResult{
		SessionID:      updated.ID,
		PersonaIDs:     updated.PersonaIDs,
		PersonaNames:   e.memberNames(updated.PersonaIDs),
		ModeratorIntro: intro,
		Responses:      responses,
		State:          e.State(updated),
	}, nil
}

// Continue runs one more round on an existing session. NotFoundError when
// the session is unknown, ended, or expired; ValidationError for an empty
// message. Skip ids that are not panel members are ignored.
func (e *Engine) Continue(ctx context.Context, req ContinueRequest, callOpts ...func(o *CallOptions)) (*RoundResult, error) {
	var opts CallOptions
	for _, fn := range callOpts {
		fn(&opts)
	}

	e.sweep()

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, core.NewValidationError("message must not be empty")
	}

	sess, err := e.store.Get(req.SessionID)
	if err != nil {
		return nil, err
	}

	updated, responses, err := e.runRound(ctx, sess, message, req.SkipPersonas, opts.Observer)
	if err != nil {
		return nil, err
	}

	return &RoundResult{
		SessionID: updated.ID,
		Responses: responses,
		State:     e.State(updated),
	}, nil
}

// Summarize has the moderator synthesize the session's recent discussion.
// NotFoundError for an unknown session; ValidationError when the session
// has no moderator or no completed exchange.
func (e *Engine) Summarize(ctx context.Context, sessionID string) (*core.ModeratorSummary, error) {
	e.sweep()

	sess, err := e.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if e.mod == nil {
		return nil, core.NewValidationError("no moderator profile configured")
	}

	return e.mod.Summarize(ctx, sess)
}

// End retires the session and reports its final counts. Ending an unknown,
// ended, or expired session is NotFoundError, never a silent success.
func (e *Engine) End(ctx context.Context, sessionID string) (*EndResult, error) {
	e.sweep()

	sess, err := e.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	e.store.Delete(sessionID)

	totalResponses := 0
	for _, ex := range sess.DiscussionHistory {
		totalResponses += len(ex.Responses)
	}

	e.logger.Info("Panel session ended",
		"session_id", sessionID,
		"total_exchanges", sess.ExchangeCount,
	)

	return &EndResult{
		Success: true,
		FinalSummary: FinalSummary{
			TotalExchanges:  sess.ExchangeCount,
			InsightsCount:   totalResponses,
			FarewellMessage: farewellMessage,
		},
	}, nil
}

// ListConfigs returns every registered panel configuration.
func (e *Engine) ListConfigs() []core.PanelConfig {
	e.sweep()
	return e.registry.Configs()
}

// DefaultPanelConfig returns the configuration marked as default, or false
// when none is.
func (e *Engine) DefaultPanelConfig() (*core.PanelConfig, bool) {
	return e.registry.DefaultConfig()
}

// ListSessions returns a snapshot of all live sessions, oldest first.
func (e *Engine) ListSessions() []SessionInfo {
	e.sweep()

	sessions := e.store.List()
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
		}
		return sessions[i].ID < sessions[j].ID
	})

	out := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionInfo{
			SessionID:     s.ID,
			PersonaIDs:    s.PersonaIDs,
			ExchangeCount: s.ExchangeCount,
			HasModerator:  s.HasModerator,
			CreatedAt:     s.CreatedAt,
			LastUpdated:   s.LastUpdated,
		})
	}
	return out
}

// State derives the panel state block attached to round results.
func (e *Engine) State(sess *core.PanelSession) PanelState {
	return PanelState{
		Active:          true,
		ExchangeCount:   sess.ExchangeCount,
		TotalPersonas:   len(sess.PersonaIDs),
		HasModerator:    sess.HasModerator,
		ShouldSummarize: e.mod != nil && e.mod.ShouldSummarize(sess),
	}
}

// runRound drives one sequenced round and appends the resulting exchange.
// The round itself cannot fail; only the append can, when the session was
// deleted concurrently.
func (e *Engine) runRound(ctx context.Context, sess *core.PanelSession, message string, skip []string, observer discuss.Observer) (*core.PanelSession, []core.PanelResponse, error) {
	stop := e.logger.StartTimer("panel_round")

	responses := e.seq.GenerateRound(ctx, sess, message, skip, observer)

	updated, err := e.store.AppendExchange(sess.ID, core.Exchange{
		UserMessage: message,
		Responses:   responses,
	})
	if err != nil {
		return nil, nil, err
	}

	degraded := 0
	for _, r := range responses {
		if r.Degraded {
			degraded++
		}
	}
	e.logger.LogRound(sess.ID, updated.ExchangeCount, len(responses), degraded, stop())

	return updated, responses, nil
}

// resolveMembers turns the request's panel selection into a validated
// member list. Custom persona ids win over a named configuration; with
// neither, the registry's default configuration is used.
func (e *Engine) resolveMembers(req StartRequest) ([]string, error) {
	memberIDs := req.PersonaIDs
	if len(memberIDs) == 0 {
		switch {
		case req.PanelConfigID != "":
			cfg, err := e.registry.Config(req.PanelConfigID)
			if err != nil {
				return nil, core.NewValidationError("unknown panel config %q", req.PanelConfigID)
			}
			memberIDs = cfg.PersonaIDs
		default:
			cfg, ok := e.registry.DefaultConfig()
			if !ok {
				return nil, core.NewValidationError("panel_config or persona_ids is required")
			}
			memberIDs = cfg.PersonaIDs
		}
	}

	if err := core.ValidatePanelSize(memberIDs); err != nil {
		return nil, err
	}

	// Membership is checked for configured panels too; YAML-loaded configs
	// may name personas that were never registered.
	for _, id := range memberIDs {
		if _, err := e.registry.Persona(id); err != nil {
			return nil, core.NewValidationError("unknown persona %q", id)
		}
	}

	return memberIDs, nil
}

// memberNames resolves display names in panel order, falling back to the
// raw id for anything missing from the registry.
func (e *Engine) memberNames(memberIDs []string) []string {
	names := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if p, err := e.registry.Persona(id); err == nil {
			names = append(names, p.Name)
		} else {
			names = append(names, id)
		}
	}
	return names
}

// sweep removes expired sessions. Called at the start of every public
// operation; there is no background sweeper.
func (e *Engine) sweep() {
	if removed := e.store.Sweep(e.now(), e.cfg.SessionTTL); removed > 0 {
		e.logger.Info("Swept expired panel sessions", "removed", removed)
	}
}
