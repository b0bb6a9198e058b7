package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"billwise/internal/core"
)

func TestPromptEmbedsVocabularyAndText(t *testing.T) {
	p := Prompt("COFFEE 3.50\nBUS TICKET 2")

	if !strings.Contains(p, "Fees, Food, Transport, Stationary, Other") {
		t.Fatalf("prompt missing vocabulary: %q", p)
	}
	if !strings.Contains(p, "BUS TICKET 2") {
		t.Fatalf("prompt missing extracted text: %q", p)
	}
}

func TestCategorizeWithoutAPIKeyFailsAtCallTime(t *testing.T) {
	// Construction succeeds with no key; the failure surfaces on the call.
	c, err := New(context.Background(), "", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.Categorize(context.Background(), "some text")
	var ce *core.CategorizationError
	if !errors.As(err, &ce) {
		t.Fatalf("got %v, want CategorizationError", err)
	}
}

func TestNewDefaultsModel(t *testing.T) {
	c, err := New(context.Background(), "", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.model != "models/gemini-1.5-flash-latest" {
		t.Fatalf("model = %q", c.model)
	}
}
