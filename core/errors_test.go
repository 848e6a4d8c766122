package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorTaxonomyMatching(t *testing.T) {
	ve := NewValidationError("panel must have between %d and %d personas", 2, 4)
	nf := NewNotFoundError("session", "panel-gone")
	pe := NewProviderError("openai", context.DeadlineExceeded)

	if !IsValidation(ve) || IsValidation(nf) || IsValidation(pe) {
		t.Error("IsValidation misclassified")
	}
	if !IsNotFound(nf) || IsNotFound(ve) {
		t.Error("IsNotFound misclassified")
	}
	if !IsProvider(pe) || IsProvider(nf) {
		t.Error("IsProvider misclassified")
	}
}

func TestErrorWrapping(t *testing.T) {
	nf := NewNotFoundError("persona", "dr-unknown")
	wrapped := fmt.Errorf("resolving panel: %w", nf)

	if !IsNotFound(wrapped) {
		t.Fatal("wrapped NotFoundError not detected")
	}
	var got *NotFoundError
	if !errors.As(wrapped, &got) || got.Kind != "persona" || got.ID != "dr-unknown" {
		t.Fatalf("errors.As lost fields: %+v", got)
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	pe := NewProviderError("gemini", context.DeadlineExceeded)
	if !errors.Is(pe, context.DeadlineExceeded) {
		t.Error("ProviderError should unwrap to its cause")
	}
	if pe.Error() == "" {
		t.Error("ProviderError should render a message")
	}
}

func TestNewSessionIDFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewSessionID()
		if len(id) != len(SessionIDPrefix)+12 {
			t.Fatalf("unexpected id length: %q", id)
		}
		if id[:len(SessionIDPrefix)] != SessionIDPrefix {
			t.Fatalf("missing prefix: %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %q", id)
		}
		seen[id] = true
	}
}
