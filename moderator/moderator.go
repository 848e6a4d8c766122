package moderator

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hupe1980/panelmesh/core"
	"github.com/hupe1980/panelmesh/discuss"
	"github.com/hupe1980/panelmesh/internal/util"
	"github.com/hupe1980/panelmesh/logging"
	"github.com/hupe1980/panelmesh/model"
)

const (
	// DefaultSummaryThreshold is the exchange count at which
	// ShouldSummarize starts returning true.
	DefaultSummaryThreshold = 3

	// DefaultSummaryWindow bounds how many recent exchanges feed a summary.
	DefaultSummaryWindow = 5
)

// Canned fallbacks used when the provider fails; same shape as real output.
const (
	fallbackIntro   = "Welcome! Today's panel is ready to discuss your concerns."
	fallbackSummary = "The panel has provided diverse perspectives on your situation. Key themes include understanding your feelings and finding practical solutions."
)

const introPrompt = `The panel includes: {{ oxford .names }}

Generate a brief, warm welcome message (1-2 sentences) introducing these panelists to the user.
Keep it professional but friendly.`

const summaryPrompt = `Review the following discussion and provide a concise summary:

{{ .discussion }}

Please respond in JSON format:
{
  "summary": "Brief summary of the discussion with key themes (3-5 sentences)",
  "key_insights": ["Insight 1", "Insight 2", "Insight 3"]
}

Provide 3 to 5 key insights. Credit specific panelists by name when mentioning their insights.`

// markdownFence matches fenced code blocks models like to wrap intros in.
var markdownFence = regexp.MustCompile("(?s)```.*?```")

// summaryReply is the document the summary prompt asks for.
type summaryReply struct {
	Summary     string   `json:"summary"`
	KeyInsights []string `json:"key_insights"`
}

// Options configure a Moderator.
type Options struct {
	// SummaryThreshold is the exchange count gating ShouldSummarize.
	SummaryThreshold int

	// SummaryWindow bounds how many recent exchanges feed Summarize.
	SummaryWindow int

	// Timeout bounds each moderator generation call.
	Timeout time.Duration

	// Logger receives telemetry. Defaults to the no-op logger.
	Logger logging.RoundLogger
}

// Moderator is the neutral, non-panelist role that frames a discussion. It
// holds the moderator profile, the persona registry for display names, and
// the generation model.
type Moderator struct {
	registry  core.PersonaRegistry
	profile   core.Persona
	mdl       model.Model
	threshold int
	window    int
	timeout   time.Duration
	logger    logging.RoundLogger
}

// New creates a Moderator speaking as the given profile.
func New(registry core.PersonaRegistry, profile core.Persona, mdl model.Model, optFns ...func(o *Options)) *Moderator {
	opts := Options{
		SummaryThreshold: DefaultSummaryThreshold,
		SummaryWindow:    DefaultSummaryWindow,
		Timeout:          discuss.DefaultTurnTimeout,
		Logger:           logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.SummaryThreshold <= 0 {
		opts.SummaryThreshold = DefaultSummaryThreshold
	}
	if opts.SummaryWindow <= 0 {
		opts.SummaryWindow = DefaultSummaryWindow
	}
	if opts.Timeout <= 0 {
		opts.Timeout = discuss.DefaultTurnTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Moderator{
		registry:  registry,
		profile:   profile,
		mdl:       mdl,
		threshold: opts.SummaryThreshold,
		window:    opts.SummaryWindow,
		timeout:   opts.Timeout,
		logger:    opts.Logger,
	}
}

// Profile returns the moderator's persona profile.
func (m *Moderator) Profile() core.Persona { return m.profile }

// Intro produces the moderator's one-time welcome, listing every panelist's
// display name in session order.
//
// It is only valid before the first round of a moderated session; calling it
// on a session without a moderator or with completed exchanges returns
// ValidationError. Provider failures degrade to a canned welcome instead of
// failing the call.
func (m *Moderator) Intro(ctx context.Context, sess *core.PanelSession) (core.PanelResponse, error) {
	if !sess.HasModerator {
		return core.PanelResponse{}, core.NewValidationError("session %s has no moderator", sess.ID)
	}
	if sess.ExchangeCount > 0 {
		return core.PanelResponse{}, core.NewValidationError("moderator intro is only valid before the first exchange, session %s has %d", sess.ID, sess.ExchangeCount)
	}

	prompt, err := util.RenderTemplate(introPrompt, map[string]any{"names": m.memberNames(sess)})
	if err != nil {
		return core.PanelResponse{}, fmt.Errorf("render intro prompt: %w", err)
	}

	text, err := m.generate(ctx, prompt)
	if err != nil {
		m.logger.Error("Moderator intro generation failed, using fallback", "session_id", sess.ID, "error", err)
		return m.introResponse(fallbackIntro, true), nil
	}

	text = strings.TrimSpace(markdownFence.ReplaceAllString(text, ""))
	if text == "" {
		text = fallbackIntro
	}

	return m.introResponse(text, false), nil
}

// ShouldSummarize reports whether the discussion has reached the point where
// offering a summary makes sense. It is a surfaced flag; callers decide
// whether to actually invoke Summarize.
func (m *Moderator) ShouldSummarize(sess *core.PanelSession) bool {
	return sess.HasModerator && sess.ExchangeCount >= m.threshold
}

// Summarize synthesizes the recent discussion into a ModeratorSummary. At
// most the last SummaryWindow exchanges feed the synthesis; the full history
// never does.
//
// Sessions without a moderator or without any completed exchange return
// ValidationError. Provider failures degrade to a canned summary; replies
// that cannot be parsed keep their raw text with no key insights.
func (m *Moderator) Summarize(ctx context.Context, sess *core.PanelSession) (*core.ModeratorSummary, error) {
	if !sess.HasModerator {
		return nil, core.NewValidationError("session %s has no moderator", sess.ID)
	}
	if sess.ExchangeCount == 0 {
		return nil, core.NewValidationError("session %s has no discussion to summarize", sess.ID)
	}

	prompt, err := util.RenderTemplate(summaryPrompt, map[string]any{"discussion": renderDiscussion(sess.RecentExchanges(m.window))})
	if err != nil {
		return nil, fmt.Errorf("render summary prompt: %w", err)
	}

	raw, err := m.generate(ctx, prompt)
	if err != nil {
		m.logger.Error("Moderator summary generation failed, using fallback", "session_id", sess.ID, "error", err)
		return &core.ModeratorSummary{
			ResponseText:     fallbackSummary,
			KeyInsights:      []string{},
			CreditedPersonas: []string{},
		}, nil
	}

	summary := parseSummary(raw)
	summary.CreditedPersonas = discuss.DetectReferences(summary.ResponseText, m.profile.ID, historyMembers(sess))

	return summary, nil
}

// generate runs one moderator model call under the configured timeout.
func (m *Moderator) generate(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	info := m.mdl.Info()
	start := time.Now()

	resp, err := m.mdl.Generate(callCtx, model.Request{
		Instructions: m.profile.Prompt,
		Prompt:       prompt,
	})
	elapsed := time.Since(start)

	if err != nil {
		perr := core.NewProviderError(info.Provider, err)
		m.logger.LogGeneration(info.Name, 0, elapsed, false, perr)
		return "", perr
	}

	tokens := 0
	if resp.Usage != nil {
		tokens = resp.Usage.TotalTokens
	}
	m.logger.LogGeneration(info.Name, tokens, elapsed, true, nil)

	return resp.Text, nil
}

func (m *Moderator) introResponse(text string, degraded bool) core.PanelResponse {
	return core.PanelResponse{
		PersonaID:    m.profile.ID,
		PersonaName:  m.profile.Name,
		ResponseText: text,
		Mood:         core.MoodNeutral,
		References:   []string{},
		Degraded:     degraded,
	}
}

// memberNames resolves the session's panelist display names in session
// order, falling back to the raw id for anything missing from the registry.
func (m *Moderator) memberNames(sess *core.PanelSession) []string {
	names := make([]string, 0, len(sess.PersonaIDs))
	for _, id := range sess.PersonaIDs {
		if p, err := m.registry.Persona(id); err == nil {
			names = append(names, p.Name)
		} else {
			names = append(names, id)
		}
	}
	return names
}

// parseSummary extracts the {summary, key_insights} document from raw,
// keeping the raw text when no document can be parsed.
func parseSummary(raw string) *core.ModeratorSummary {
	trimmed := strings.TrimSpace(raw)

	out := &core.ModeratorSummary{
		ResponseText: trimmed,
		KeyInsights:  []string{},
	}

	doc, ok := discuss.ExtractJSON(trimmed)
	if !ok {
		return out
	}

	var reply summaryReply
	if err := json.Unmarshal([]byte(doc), &reply); err != nil {
		return out
	}

	if s := strings.TrimSpace(reply.Summary); s != "" {
		out.ResponseText = s
	}
	if reply.KeyInsights != nil {
		out.KeyInsights = reply.KeyInsights
	}

	return out
}

// renderDiscussion flattens exchanges into the transcript form the summary
// prompt reviews.
func renderDiscussion(exchanges []core.Exchange) string {
	var lines []string
	for _, ex := range exchanges {
		lines = append(lines, fmt.Sprintf("User: %s", ex.UserMessage))
		for _, r := range ex.Responses {
			lines = append(lines, fmt.Sprintf("%s: %s", r.PersonaName, r.ResponseText))
		}
	}
	return strings.Join(lines, "\n")
}

// historyMembers collects the id/name pairs of everyone who actually spoke,
// so credit detection works even for personas later removed from the
// registry.
func historyMembers(sess *core.PanelSession) []*core.Persona {
	seen := map[string]bool{}
	var members []*core.Persona
	for _, ex := range sess.DiscussionHistory {
		for _, r := range ex.Responses {
			if seen[r.PersonaID] {
				continue
			}
			seen[r.PersonaID] = true
			members = append(members, &core.Persona{ID: r.PersonaID, Name: r.PersonaName})
		}
	}
	return members
}
