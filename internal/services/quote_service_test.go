package services

import (
	"context"
	"errors"
	"testing"
)

func TestQuoteRandomTranslates(t *testing.T) {
	client := &stubHTTPClient{resp: jsonResponse(200, `[{"q":"Act now.","a":"Anon","h":"<blockquote/>"}]`)}
	tr := &stubTranslator{fn: func(string) (string, error) { return "Actúa ya.", nil }}
	svc := NewQuoteService(client, NewBatchTranslator(tr, "en", "es"), "", 0)
	q, outcome, err := svc.Random(context.Background())
	if err != nil {
		t.Fatalf("Random error: %v", err)
	}
	if outcome != OutcomeTranslated {
		t.Fatalf("expected translated, got %v", outcome)
	}
	if q.Text != "Actúa ya." || q.Author != "Anon" || q.Original != "Act now." {
		t.Fatalf("unexpected quote %+v", q)
	}
	if client.req.URL.String() != DefaultQuoteURL {
		t.Fatalf("unexpected url %s", client.req.URL)
	}
}

func TestQuoteRandomTranslationFailureKeepsEnglish(t *testing.T) {
	client := &stubHTTPClient{resp: jsonResponse(200, `[{"q":"Act now.","a":"Anon"}]`)}
	tr := &stubTranslator{fn: func(string) (string, error) { return "", errors.New("offline") }}
	q, outcome, err := NewQuoteService(client, NewBatchTranslator(tr, "en", "es"), "", 0).Random(context.Background())
	if err != nil {
		t.Fatalf("Random error: %v", err)
	}
	if outcome != OutcomeFallback || q.Text != "Act now." {
		t.Fatalf("expected english fallback, got %v %q", outcome, q.Text)
	}
}

func TestQuoteRandomUpstreamErrors(t *testing.T) {
	cases := map[string]*stubHTTPClient{
		"network":   {err: errors.New("dial tcp: refused")},
		"status":    {resp: jsonResponse(503, "down")},
		"malformed": {resp: jsonResponse(200, `{"q":"not a list"}`)},
		"empty":     {resp: jsonResponse(200, `[]`)},
	}
	for name, client := range cases {
		if _, _, err := NewQuoteService(client, nil, "", 0).Random(context.Background()); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
