package testutil

import (
	"github.com/hupe1980/panelmesh/core"
)

// ResponseBuilder provides a fluent helper for constructing panel responses
// in tests. Example:
//
//	resp := NewResponseBuilder("dr-ada-sterling").Name("Dr. Ada Sterling").
//		Text("Try one thought record.").Refers("dr-sigmund-2000").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type ResponseBuilder struct {
	resp core.PanelResponse
}

// NewResponseBuilder creates a builder with mood neutral and an empty,
// non-nil references slice.
func NewResponseBuilder(personaID string) *ResponseBuilder {
	return &ResponseBuilder{resp: core.PanelResponse{
		PersonaID:  personaID,
		Mood:       core.MoodNeutral,
		References: []string{},
	}}
}

// Name sets the display name (chainable).
func (b *ResponseBuilder) Name(name string) *ResponseBuilder {
	b.resp.PersonaName = name
	return b
}

// Text sets the response text (chainable).
func (b *ResponseBuilder) Text(text string) *ResponseBuilder {
	b.resp.ResponseText = text
	return b
}

// Mood sets the emotional tone (chainable).
func (b *ResponseBuilder) Mood(m core.Mood) *ResponseBuilder {
	b.resp.Mood = m
	return b
}

// Refers records references to other panelists (chainable).
func (b *ResponseBuilder) Refers(ids ...string) *ResponseBuilder {
	b.resp.References = append(b.resp.References, ids...)
	return b
}

// Degraded marks the response as a fallback (chainable).
func (b *ResponseBuilder) Degraded() *ResponseBuilder {
	b.resp.Degraded = true
	return b
}

// Build returns the core.PanelResponse value.
func (b *ResponseBuilder) Build() core.PanelResponse {
	return b.resp
}

// Response is a shorthand for the common id/name/text/mood case.
func Response(id, name, text string, mood core.Mood) core.PanelResponse {
	return NewResponseBuilder(id).Name(name).Text(text).Mood(mood).Build()
}
