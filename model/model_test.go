package model

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMockModel_DefaultReply(t *testing.T) {
	m := NewMockModel()

	resp, err := m.Generate(context.Background(), Request{Prompt: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(resp.Text, "Mock response") {
		t.Fatalf("unexpected default reply: %q", resp.Text)
	}
}

func TestMockModel_SubstringMatch(t *testing.T) {
	m := NewMockModel()
	m.AddResponse("Dr. Ada Sterling", `{"response": "Try a thought record.", "mood": "thinking"}`)
	m.AddResponse("Captain Whiskers", `{"response": "Nap on it.", "mood": "amused"}`)

	resp, err := m.Generate(context.Background(), Request{
		Instructions: "You are Dr. Ada Sterling, a CBT specialist.",
		Prompt:       "I feel stuck.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(resp.Text, "thought record") {
		t.Fatalf("instructions match failed, got %q", resp.Text)
	}

	resp, err = m.Generate(context.Background(), Request{
		Prompt: "Captain Whiskers said: something wise.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(resp.Text, "Nap on it") {
		t.Fatalf("prompt match failed, got %q", resp.Text)
	}
}

func TestMockModel_FirstRuleWins(t *testing.T) {
	m := NewMockModel()
	m.AddResponse("panel", "first")
	m.AddResponse("panel", "second")

	resp, err := m.Generate(context.Background(), Request{Prompt: "panel question"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "first" {
		t.Fatalf("expected first registered rule, got %q", resp.Text)
	}
}

func TestMockModel_FailWhen(t *testing.T) {
	m := NewMockModel()
	wantErr := errors.New("simulated outage")
	m.AddResponse("Rex", "should never be returned")
	m.FailWhen("Rex", wantErr)

	_, err := m.Generate(context.Background(), Request{Instructions: "You are Dr. Rex Hardcastle."})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected injected failure, got %v", err)
	}

	// Other personas are unaffected.
	if _, err := m.Generate(context.Background(), Request{Instructions: "You are Dr. Luna Cosmos."}); err != nil {
		t.Fatalf("unexpected error for non-matching request: %v", err)
	}
}

func TestMockModel_RecordsCalls(t *testing.T) {
	m := NewMockModel()

	for _, prompt := range []string{"one", "two", "three"} {
		if _, err := m.Generate(context.Background(), Request{Prompt: prompt}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	calls := m.Calls()
	if len(calls) != 3 {
		t.Fatalf("expected 3 recorded calls, got %d", len(calls))
	}
	if calls[1].Prompt != "two" {
		t.Fatalf("calls out of order: %+v", calls)
	}
}

func TestMockModel_ContextCancelled(t *testing.T) {
	m := NewMockModel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Generate(ctx, Request{Prompt: "late"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(m.Calls()) != 0 {
		t.Fatalf("cancelled call must not be recorded")
	}
}
