package model

import (
	"context"
	"strings"
	"sync"
)

// Request carries the input for a single generation call.
//
// Instructions holds the persona's behavioral prompt (the system message for
// chat-style providers). Prompt holds the fully assembled discussion context:
// the user's message plus any in-round colleague replies and recent history.
type Request struct {
	// Instructions is the system-level behavioral prompt.
	Instructions string `json:"instructions,omitempty"`

	// Prompt is the user-level content to respond to.
	Prompt string `json:"prompt"`
}

// TokenUsage captures token accounting reported by a provider, when available.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed output of a generation call.
type Response struct {
	// Text is the raw reply. Panelist replies are expected to be a small
	// JSON document, but callers must tolerate arbitrary prose.
	Text string `json:"text"`

	// Usage is optional; providers that do not report token counts leave
	// it nil.
	Usage *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// Model is the interface every provider adapter implements.
//
// Generate blocks until the reply is complete or ctx is done. Implementations
// must honor ctx cancellation and return the underlying error unwrapped
// enough for callers to recognize context.DeadlineExceeded.
type Model interface {
	// Generate produces a single complete reply for the request.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns metadata describing the underlying model.
	Info() Info
}

// mockRule is a canned reply keyed by a substring match.
type mockRule struct {
	match string
	text  string
}

// mockFailure is an injected error keyed by a substring match.
type mockFailure struct {
	match string
	err   error
}

// MockModel is a lightweight in-memory implementation of Model for tests and
// examples. Replies and failures are selected by substring match against the
// request's Instructions and Prompt, which makes it easy to script distinct
// behavior per persona without reproducing full prompts.
type MockModel struct {
	mu       sync.Mutex
	info     Info
	rules    []mockRule
	failures []mockFailure
	calls    []Request
}

// NewMockModel creates a MockModel with a generic identity.
func NewMockModel() *MockModel {
	return &MockModel{
		info: Info{Name: "mock-model", Provider: "mock"},
	}
}

// AddResponse registers a canned reply returned when match occurs in a
// request's Instructions or Prompt. Rules are checked in registration order;
// the first hit wins. An empty match matches every request.
func (m *MockModel) AddResponse(match, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{match: match, text: text})
}

// FailWhen registers an error returned when match occurs in a request's
// Instructions or Prompt. Failures take precedence over canned replies.
func (m *MockModel) FailWhen(match string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, mockFailure{match: match, err: err})
}

// Calls returns a copy of every request seen so far, in order.
func (m *MockModel) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// Generate implements the Model interface.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)

	haystack := req.Instructions + "\n" + req.Prompt
	for _, f := range m.failures {
		if f.match == "" || strings.Contains(haystack, f.match) {
			return nil, f.err
		}
	}
	for _, r := range m.rules {
		if r.match == "" || strings.Contains(haystack, r.match) {
			return &Response{Text: r.text}, nil
		}
	}
	return &Response{Text: defaultMockReply}, nil
}

// Info implements the Model interface.
func (m *MockModel) Info() Info {
	return m.info
}

const defaultMockReply = `{"response": "Mock response to your message.", "mood": "neutral"}`
