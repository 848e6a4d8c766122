// Package moderator implements the optional neutral moderator role of a
// panel: a one-time introduction before the first round, a surfaced
// should-summarize flag, and the synthesis of recent discussion into a
// ModeratorSummary with key insights and credited panelists.
//
// The moderator never participates in rounds and never blocks them. Provider
// failures on its calls degrade to canned texts instead of surfacing errors;
// only calling it in the wrong session state is an error.
package moderator
