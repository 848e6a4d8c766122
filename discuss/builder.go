package discuss

import (
	"fmt"
	"strings"

	"github.com/hupe1980/panelmesh/core"
)

// DefaultWindow is the number of completed exchanges carried into a new
// turn's prompt. Only the most recent exchange is included so context size
// stays bounded as a discussion grows.
const DefaultWindow = 1

// CrossReferenceInstruction is appended to a prompt whenever colleagues have
// already spoken this round.
const CrossReferenceInstruction = "You may build on, challenge, or complement your colleagues' points; refer to them by name when you do."

// responseFormat steers the model toward the structured reply ParseReply
// expects; the mood alternatives come from the persona's vocabulary.
const responseFormat = `Please respond in JSON format with the following structure:
{
  "response": "Your therapeutic response (2-4 sentences)",
  "mood": "%s"
}

Respond now:`

// Context is the complete input for one persona's turn, split into the
// persona's static behavioral prompt and the assembled discussion prompt.
// Providers map Instructions to their system channel and Prompt to the user
// channel.
type Context struct {
	Instructions string
	Prompt       string
}

// ContextOptions tune prompt assembly.
type ContextOptions struct {
	// Window is the number of most recent completed exchanges included in
	// the prompt. Zero or negative falls back to DefaultWindow.
	Window int
}

// ContextBuilder assembles generation input for panel turns.
//
// Build is pure and fully deterministic given its inputs, which makes it the
// natural seam for unit testing the prompt layout.
type ContextBuilder struct {
	window int
}

// NewContextBuilder creates a ContextBuilder.
func NewContextBuilder(optFns ...func(o *ContextOptions)) *ContextBuilder {
	opts := ContextOptions{Window: DefaultWindow}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	return &ContextBuilder{window: opts.Window}
}

// Window returns the configured history window.
func (b *ContextBuilder) Window() int { return b.window }

// Build assembles the turn input for one persona.
//
// Layout, in order: the persona's behavioral prompt (verbatim, as
// Instructions), the user's current message, colleague replies already
// produced this round, then a condensed rendering of the last completed
// exchanges up to the configured window. History never includes the full
// discussion.
func (b *ContextBuilder) Build(sess *core.PanelSession, p *core.Persona, userMessage string, inRound []core.PanelResponse) Context {
	var parts []string

	parts = append(parts, "PANEL DISCUSSION CONTEXT:")
	parts = append(parts, fmt.Sprintf("You are participating in a panel discussion with %d therapeutic personas.", len(sess.PersonaIDs)))
	parts = append(parts, "Your goal is to provide your unique perspective while being aware of what others have said.")

	parts = append(parts, "", "USER'S MESSAGE:", userMessage)

	if len(inRound) > 0 {
		parts = append(parts, "", "PANELISTS WHO ALREADY RESPONDED THIS ROUND:")
		for _, resp := range inRound {
			parts = append(parts, fmt.Sprintf("%s said: %s", resp.PersonaName, resp.ResponseText))
		}
		parts = append(parts, "", CrossReferenceInstruction)
	} else {
		parts = append(parts, "", "You are the first panelist to respond this round.")
	}

	if recent := sess.RecentExchanges(b.window); len(recent) > 0 {
		parts = append(parts, "", "RECENT DISCUSSION:")
		for _, ex := range recent {
			parts = append(parts, fmt.Sprintf("Earlier, the user said: %q", ex.UserMessage))
			for _, resp := range ex.Responses {
				parts = append(parts, fmt.Sprintf("%s responded: %q", resp.PersonaName, resp.ResponseText))
			}
		}
	}

	parts = append(parts, "", fmt.Sprintf(responseFormat, moodAlternatives(p)))

	return Context{
		Instructions: p.Prompt,
		Prompt:       strings.Join(parts, "\n"),
	}
}

// moodAlternatives renders the persona's mood vocabulary as the pipe-joined
// list embedded in the response-format instruction.
func moodAlternatives(p *core.Persona) string {
	moods := p.MoodVocabulary()
	names := make([]string, len(moods))
	for i, m := range moods {
		names[i] = m.String()
	}
	return strings.Join(names, " | ")
}
