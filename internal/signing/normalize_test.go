package signing

import (
	"testing"
)

func TestNormalizeCoercion(t *testing.T) {
	raw := []RawPlacement{
		{Page: float64(2), X: "12.5", Y: nil, SignatureType: "text", Signature: "Alice"},
		{Page: "3", X: float64(40), Y: float64(50), SignatureType: "draw", Signature: "data:..."},
	}

	out := NormalizePlacements(raw, 1000, 700)
	if len(out) != 2 {
		t.Fatalf("Expected 2 placements, got %d", len(out))
	}

	if out[0].Page != 2 {
		t.Errorf("Expected page 2, got %d", out[0].Page)
	}
	if out[0].X != 12.5 {
		t.Errorf("Numeric string should coerce: expected 12.5, got %v", out[0].X)
	}
	if out[0].Y != 0 {
		t.Errorf("Missing coordinate should coerce to 0, got %v", out[0].Y)
	}
	if out[1].Page != 3 {
		t.Errorf("Numeric string page should coerce: expected 3, got %d", out[1].Page)
	}

	// Declared viewport propagates to elements that carry none
	if out[0].PageWidth != 1000 || out[0].PageHeight != 700 {
		t.Errorf("Expected declared viewport 1000x700, got %vx%v", out[0].PageWidth, out[0].PageHeight)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	raw := []RawPlacement{{Page: float64(1), SignatureType: "text", Signature: "x"}}

	// No declared viewport at all: fall back to 800x600
	out := NormalizePlacements(raw, 0, 0)
	if out[0].PageWidth != 800 || out[0].PageHeight != 600 {
		t.Errorf("Expected default viewport 800x600, got %vx%v", out[0].PageWidth, out[0].PageHeight)
	}

	// Per-element dimensions win over the declared batch viewport
	raw[0].PageWidth = float64(595)
	raw[0].PageHeight = float64(842)
	out = NormalizePlacements(raw, 1000, 700)
	if out[0].PageWidth != 595 || out[0].PageHeight != 842 {
		t.Errorf("Element viewport should win, got %vx%v", out[0].PageWidth, out[0].PageHeight)
	}
}

func TestNormalizeOrderPreserved(t *testing.T) {
	raw := []RawPlacement{
		{Page: float64(1), SignatureType: "text", Signature: "first"},
		{Page: float64(1), SignatureType: "text", Signature: "second"},
		{Page: float64(1), SignatureType: "text", Signature: "third"},
	}
	out := NormalizePlacements(raw, 0, 0)
	for i, want := range []string{"first", "second", "third"} {
		if out[i].Signature != want {
			t.Errorf("Order not preserved at %d: got %s", i, out[i].Signature)
		}
	}
}

func TestNormalizeEmptyBatch(t *testing.T) {
	out := NormalizePlacements([]RawPlacement{}, 0, 0)
	if out == nil || len(out) != 0 {
		t.Errorf("Empty input should normalize to empty non-nil list, got %v", out)
	}
}
