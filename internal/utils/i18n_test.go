package utils

import "testing"

func TestT_Fallback(t *testing.T) {
	if got := T("fr", "quote.error"); got != "No se pudo obtener una frase." {
		t.Fatalf("fallback to es failed: %s", got)
	}
	if got := T("en", "title.exercises"); got != "Exercises" {
		t.Fatalf("en lookup failed: %s", got)
	}
	if got := T("es", "missing.key"); got != "missing.key" {
		t.Fatalf("expected key echo, got %s", got)
	}
}

func TestT_LocalesShareKeys(t *testing.T) {
	for key := range translations["es"] {
		if _, ok := translations["en"][key]; !ok {
			t.Fatalf("en is missing %q", key)
		}
	}
}
