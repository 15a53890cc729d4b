package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestLocaleMiddleware(t *testing.T) {
	var got string
	h := LocaleMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got != "en" || rec.Header().Get("Content-Language") != "en" {
		t.Fatalf("want en, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "es" {
		t.Fatalf("want default es, got %q", got)
	}
}

func TestLocaleFromContextDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := LocaleFromContext(req.Context()); got != "es" {
		t.Fatalf("want es, got %q", got)
	}
}

func TestHeaderMiddlewares(t *testing.T) {
	h := NoStore(SecureHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rec.Header().Get("Cache-Control"), "no-store") {
		t.Fatalf("missing no-store header")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" || rec.Header().Get("Content-Security-Policy") == "" {
		t.Fatalf("missing security headers: %v", rec.Header())
	}
}

func TestFormTokenRoundTrip(t *testing.T) {
	ft, err := NewFormTokens("secret", time.Minute)
	if err != nil {
		t.Fatalf("NewFormTokens error: %v", err)
	}
	tok, err := ft.Issue("nutrition")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if err := ft.Verify(tok, "nutrition"); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if err := ft.Verify(tok, "other"); !errors.Is(err, ErrInvalidFormToken) {
		t.Fatalf("token must be bound to its form, got %v", err)
	}
	if err := ft.Verify("", "nutrition"); !errors.Is(err, ErrInvalidFormToken) {
		t.Fatalf("empty token must fail")
	}
}

func TestFormTokenExpires(t *testing.T) {
	ft, _ := NewFormTokens("secret", time.Minute)
	start := time.Now()
	ft.now = func() time.Time { return start }
	tok, _ := ft.Issue("nutrition")
	ft.now = func() time.Time { return start.Add(2 * time.Minute) }
	if err := ft.Verify(tok, "nutrition"); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestFormTokenKeysDiffer(t *testing.T) {
	a, _ := NewFormTokens("one", time.Minute)
	b, _ := NewFormTokens("two", time.Minute)
	tok, _ := a.Issue("nutrition")
	if err := b.Verify(tok, "nutrition"); err == nil {
		t.Fatalf("token signed with another secret must fail")
	}
	r1, _ := NewFormTokens("", time.Minute)
	r2, _ := NewFormTokens("", time.Minute)
	tok, _ = r1.Issue("nutrition")
	if err := r2.Verify(tok, "nutrition"); err == nil {
		t.Fatalf("random keys must differ")
	}
}

func TestCheckFormToken(t *testing.T) {
	ft, _ := NewFormTokens("secret", time.Minute)
	var calls, rejected int
	h := ft.CheckFormToken("nutrition")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if FormRejected(r.Context()) {
			rejected++
		}
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nutricion", nil))
	if calls != 1 || rejected != 0 {
		t.Fatalf("GET must pass through unflagged")
	}

	post := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/nutricion", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}
	if rec := post(url.Values{"alimento": {"apple"}}); rec.Code != http.StatusOK || calls != 2 || rejected != 1 {
		t.Fatalf("missing token must reach the handler flagged, got %d calls=%d rejected=%d", rec.Code, calls, rejected)
	}
	tok, _ := ft.Issue("nutrition")
	if rec := post(url.Values{"alimento": {"apple"}, FormTokenField: {tok}}); rec.Code != http.StatusOK || calls != 3 || rejected != 1 {
		t.Fatalf("valid token flagged: %d", rec.Code)
	}
}
