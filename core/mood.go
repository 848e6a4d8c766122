package core

import "strings"

// Mood classifies the emotional register of a single response. The vocabulary
// is closed: generation output that claims any other mood is coerced to
// MoodNeutral at parse time.
type Mood string

const (
	MoodNeutral   Mood = "neutral"
	MoodThinking  Mood = "thinking"
	MoodAmused    Mood = "amused"
	MoodConcerned Mood = "concerned"
	MoodShocked   Mood = "shocked"
)

// AllMoods returns the full mood vocabulary in a fresh slice.
func AllMoods() []Mood {
	return []Mood{MoodNeutral, MoodThinking, MoodAmused, MoodConcerned, MoodShocked}
}

// Valid reports whether m is one of the five known moods.
func (m Mood) Valid() bool {
	switch m {
	case MoodNeutral, MoodThinking, MoodAmused, MoodConcerned, MoodShocked:
		return true
	}
	return false
}

// String returns the wire form of the mood.
func (m Mood) String() string { return string(m) }

// ParseMood normalizes s (trimming space, lowering case) and returns the
// matching mood. The second return is false when s names no known mood.
func ParseMood(s string) (Mood, bool) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if m.Valid() {
		return m, true
	}
	return MoodNeutral, false
}
