package core

import "testing"

func TestParseMood(t *testing.T) {
	cases := []struct {
		in   string
		want Mood
		ok   bool
	}{
		{"neutral", MoodNeutral, true},
		{"Amused", MoodAmused, true},
		{"  SHOCKED  ", MoodShocked, true},
		{"thinking", MoodThinking, true},
		{"concerned", MoodConcerned, true},
		{"furious", MoodNeutral, false},
		{"", MoodNeutral, false},
	}
	for _, tc := range cases {
		got, ok := ParseMood(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseMood(%q) = (%s, %v), want (%s, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestMoodValid(t *testing.T) {
	for _, m := range AllMoods() {
		if !m.Valid() {
			t.Errorf("mood %s should be valid", m)
		}
	}
	if Mood("bored").Valid() {
		t.Error("unknown mood should be invalid")
	}
	if len(AllMoods()) != 5 {
		t.Errorf("expected 5 moods, got %d", len(AllMoods()))
	}
}
