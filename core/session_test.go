package core

import (
	"testing"
	"time"
)

func TestPanelSession_AddExchangeNumbering(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewPanelSession("panel-abc", []string{"a", "b"}, false, now)

	for i := 1; i <= 3; i++ {
		later := now.Add(time.Duration(i) * time.Minute)
		ex := s.AddExchange(Exchange{UserMessage: "msg", Responses: []PanelResponse{}}, later)
		if ex.ExchangeNumber != i {
			t.Fatalf("exchange %d got number %d", i, ex.ExchangeNumber)
		}
		if s.ExchangeCount != i {
			t.Fatalf("after %d exchanges count is %d", i, s.ExchangeCount)
		}
		if !s.LastUpdated.Equal(later) {
			t.Errorf("LastUpdated not bumped on append")
		}
	}
	if err := s.checkInvariants(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

func TestPanelSession_CloneIndependence(t *testing.T) {
	now := time.Now()
	s := NewPanelSession("panel-xyz", []string{"a", "b", "c"}, true, now)
	s.AddExchange(Exchange{
		UserMessage: "hello",
		Responses: []PanelResponse{
			{PersonaID: "a", PersonaName: "A", ResponseText: "hi", Mood: MoodNeutral, References: []string{"b"}},
		},
	}, now)

	clone := s.Clone()
	if clone == s {
		t.Fatal("Clone should be a different pointer")
	}

	clone.PersonaIDs[0] = "mutated"
	clone.DiscussionHistory[0].Responses[0].ResponseText = "mutated"
	clone.DiscussionHistory[0].Responses[0].References[0] = "mutated"

	if s.PersonaIDs[0] != "a" {
		t.Error("original persona ids should be unaffected by clone mutation")
	}
	if s.DiscussionHistory[0].Responses[0].ResponseText != "hi" {
		t.Error("original responses should be unaffected by clone mutation")
	}
	if s.DiscussionHistory[0].Responses[0].References[0] != "b" {
		t.Error("original references should be unaffected by clone mutation")
	}
}

func TestPanelSession_RecentExchanges(t *testing.T) {
	now := time.Now()
	s := NewPanelSession("panel-win", []string{"a", "b"}, false, now)
	for i := 0; i < 4; i++ {
		s.AddExchange(Exchange{UserMessage: "m"}, now)
	}

	if got := s.RecentExchanges(0); len(got) != 0 {
		t.Fatalf("window 0 returned %d exchanges", len(got))
	}
	if got := s.RecentExchanges(2); len(got) != 2 || got[0].ExchangeNumber != 3 || got[1].ExchangeNumber != 4 {
		t.Fatalf("window 2 wrong: %+v", got)
	}
	if got := s.RecentExchanges(10); len(got) != 4 {
		t.Fatalf("window larger than history should return all, got %d", len(got))
	}
}

func TestPanelSession_LastExchange(t *testing.T) {
	now := time.Now()
	s := NewPanelSession("panel-last", []string{"a", "b"}, false, now)
	if _, ok := s.LastExchange(); ok {
		t.Fatal("empty history should report no last exchange")
	}
	s.AddExchange(Exchange{UserMessage: "first"}, now)
	s.AddExchange(Exchange{UserMessage: "second"}, now)
	ex, ok := s.LastExchange()
	if !ok || ex.UserMessage != "second" {
		t.Fatalf("unexpected last exchange: %+v ok=%v", ex, ok)
	}
}

func TestNewPanelSession_CopiesMembers(t *testing.T) {
	ids := []string{"a", "b"}
	s := NewPanelSession("panel-cp", ids, false, time.Now())
	ids[0] = "mutated"
	if s.PersonaIDs[0] != "a" {
		t.Error("session should hold its own copy of persona ids")
	}
	if !s.HasMember("b") || s.HasMember("zz") {
		t.Error("HasMember misreported membership")
	}
}

func TestValidatePanelSize(t *testing.T) {
	cases := []struct {
		n  int
		ok bool
	}{{0, false}, {1, false}, {2, true}, {3, true}, {4, true}, {5, false}}
	for _, tc := range cases {
		ids := make([]string, tc.n)
		err := ValidatePanelSize(ids)
		if tc.ok && err != nil {
			t.Errorf("size %d: unexpected error %v", tc.n, err)
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("size %d: expected error", tc.n)
			} else if !IsValidation(err) {
				t.Errorf("size %d: expected ValidationError, got %T", tc.n, err)
			}
		}
	}
}
