package utils

import "testing"

var supportedLocales = []string{"es", "en"}

func TestDetermineLocale_QueryParamWins(t *testing.T) {
	got := DetermineLocale("en-GB", "es-ES,es;q=0.9", supportedLocales, "es")
	if got != "en" {
		t.Fatalf("want en, got %s", got)
	}
}

func TestDetermineLocale_AcceptLanguageOrder(t *testing.T) {
	got := DetermineLocale("", "es-MX,es;q=0.9,en;q=0.8", supportedLocales, "es")
	if got != "es" {
		t.Fatalf("want es, got %s", got)
	}
}

func TestDetermineLocale_AcceptLanguagePrefersHigherQ(t *testing.T) {
	got := DetermineLocale("", "es;q=0.3,en;q=0.8", supportedLocales, "es")
	if got != "en" {
		t.Fatalf("want en, got %s", got)
	}
}

func TestDetermineLocale_UnsupportedQueryIgnored(t *testing.T) {
	got := DetermineLocale("fr", "en-US", supportedLocales, "es")
	if got != "en" {
		t.Fatalf("want en from header, got %s", got)
	}
}

func TestDetermineLocale_ZeroWeightRejected(t *testing.T) {
	got := DetermineLocale("", "en;q=0", supportedLocales, "es")
	if got != "es" {
		t.Fatalf("want es default, got %s", got)
	}
}

func TestDetermineLocale_DefaultFallback(t *testing.T) {
	got := DetermineLocale("", "fr-FR,de;q=0.9", supportedLocales, "es")
	if got != "es" {
		t.Fatalf("want es fallback, got %s", got)
	}
}
