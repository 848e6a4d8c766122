package discuss

import (
	"context"
	"strings"
	"time"

	"github.com/hupe1980/panelmesh/core"
	"github.com/hupe1980/panelmesh/logging"
	"github.com/hupe1980/panelmesh/model"
)

// DefaultTurnTimeout bounds a single persona's generation call.
const DefaultTurnTimeout = 8 * time.Second

// degradedApology replaces a failed persona's reply. Same shape as a normal
// response; callers distinguish via the Degraded flag.
const degradedApology = "I'm sorry, I'm having trouble collecting my thoughts right now. Please continue with my colleagues while I gather myself."

// emptyReplyText stands in when a provider returns a well-formed but empty reply.
const emptyReplyText = "I need a moment to process this..."

// Observer is invoked after each persona's response is finalized, in panel
// order, on the sequencer's goroutine. It enables persona-by-persona
// streaming without giving up ordering.
type Observer func(resp core.PanelResponse)

// Options configure a Sequencer.
type Options struct {
	// TurnTimeout bounds each persona's generation call. A timed-out turn
	// degrades; it never aborts the round.
	TurnTimeout time.Duration

	// Window is the history window handed to the context builder.
	Window int

	// Logger receives per-turn telemetry. Defaults to the no-op logger.
	Logger logging.RoundLogger
}

// Sequencer drives one panel round: every member answers the user's message
// strictly in persona_ids order, each turn's context including the replies
// produced earlier in the same round.
//
// Key guarantees:
//   - Responses are produced and recorded in fixed panel order
//   - One persona's provider failure or timeout degrades only that entry
//   - A started round always runs to completion; ctx cancellation fails the
//     remaining turns fast instead of truncating the response list
type Sequencer struct {
	registry core.PersonaRegistry
	mdl      model.Model
	builder  *ContextBuilder
	timeout  time.Duration
	logger   logging.RoundLogger
}

// NewSequencer creates a Sequencer over the given registry and model.
func NewSequencer(registry core.PersonaRegistry, mdl model.Model, optFns ...func(o *Options)) *Sequencer {
	opts := Options{
		TurnTimeout: DefaultTurnTimeout,
		Window:      DefaultWindow,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.TurnTimeout <= 0 {
		opts.TurnTimeout = DefaultTurnTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Sequencer{
		registry: registry,
		mdl:      mdl,
		builder:  NewContextBuilder(func(o *ContextOptions) { o.Window = opts.Window }),
		timeout:  opts.TurnTimeout,
		logger:   opts.Logger,
	}
}

// GenerateRound produces one response per panel member not listed in skip,
// in persona_ids order. Members missing from the registry are skipped with a
// warning; a failing provider yields a degraded fallback entry. The returned
// slice is never truncated by individual failures.
func (s *Sequencer) GenerateRound(ctx context.Context, sess *core.PanelSession, userMessage string, skip []string, observer Observer) []core.PanelResponse {
	skipSet := make(map[string]struct{}, len(skip))
	for _, id := range skip {
		skipSet[id] = struct{}{}
	}

	members := s.sessionMembers(sess)

	responses := make([]core.PanelResponse, 0, len(sess.PersonaIDs))
	for _, id := range sess.PersonaIDs {
		if _, skipped := skipSet[id]; skipped {
			continue
		}

		p, err := s.registry.Persona(id)
		if err != nil {
			s.logger.Warn("Panel member missing from registry, skipping turn", "session_id", sess.ID, "persona_id", id)
			continue
		}

		resp := s.generateTurn(ctx, sess, p, userMessage, responses, members)
		responses = append(responses, resp)

		if observer != nil {
			observer(resp)
		}
	}

	return responses
}

// generateTurn runs a single persona's turn and never fails: provider errors
// and timeouts collapse into the degraded fallback.
func (s *Sequencer) generateTurn(ctx context.Context, sess *core.PanelSession, p *core.Persona, userMessage string, inRound []core.PanelResponse, members []*core.Persona) core.PanelResponse {
	built := s.builder.Build(sess, p, userMessage, inRound)

	turnCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	info := s.mdl.Info()
	start := time.Now()

	resp, err := s.mdl.Generate(turnCtx, model.Request{
		Instructions: built.Instructions,
		Prompt:       built.Prompt,
	})
	elapsed := time.Since(start)

	if err != nil {
		s.logger.LogGeneration(info.Name, 0, elapsed, false, core.NewProviderError(info.Provider, err))
		return core.PanelResponse{
			PersonaID:    p.ID,
			PersonaName:  p.Name,
			ResponseText: degradedApology,
			Mood:         core.MoodShocked,
			References:   []string{},
			Degraded:     true,
		}
	}

	tokens := 0
	if resp.Usage != nil {
		tokens = resp.Usage.TotalTokens
	}
	s.logger.LogGeneration(info.Name, tokens, elapsed, true, nil)

	text, mood := ParseReply(resp.Text)
	if strings.TrimSpace(text) == "" {
		text = emptyReplyText
	}

	return core.PanelResponse{
		PersonaID:    p.ID,
		PersonaName:  p.Name,
		ResponseText: text,
		Mood:         mood,
		References:   DetectReferences(text, p.ID, members),
	}
}

// sessionMembers resolves the session's member personas for reference
// detection. Unresolvable ids are dropped here and skipped by the turn loop.
func (s *Sequencer) sessionMembers(sess *core.PanelSession) []*core.Persona {
	members := make([]*core.Persona, 0, len(sess.PersonaIDs))
	for _, id := range sess.PersonaIDs {
		if p, err := s.registry.Persona(id); err == nil {
			members = append(members, p)
		}
	}
	return members
}
