package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	ProviderGoogle = "google"
	ProviderLingva = "lingva"
	ProviderNone   = "none"
)

// batchDelimiter joins texts for a single provider call. Providers tend to
// reflow the surrounding spaces, so responses are split on batchMarker alone.
const (
	batchDelimiter = " ||| "
	batchMarker    = "|||"
)

// Translator is the external translation capability.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
	Available() bool
}

// NoopTranslator stands in when no provider is configured.
type NoopTranslator struct{}

func (NoopTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}

func (NoopTranslator) Available() bool { return false }

type TranslatorConfig struct {
	Provider string
	Endpoint string
	Timeout  time.Duration
}

// NewTranslator picks the provider once at startup. Unknown or empty providers
// yield a NoopTranslator.
func NewTranslator(cfg TranslatorConfig, client HTTPClient) Translator {
	if client == nil {
		client = http.DefaultClient
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderGoogle:
		return &GoogleTranslator{client: client, endpoint: cfg.Endpoint, timeout: cfg.Timeout}
	case ProviderLingva:
		return &LingvaTranslator{client: client, endpoint: cfg.Endpoint, timeout: cfg.Timeout}
	default:
		return NoopTranslator{}
	}
}

// GoogleTranslator talks to the keyless translate_a endpoint used by the public web widget.
type GoogleTranslator struct {
	client   HTTPClient
	endpoint string
	timeout  time.Duration
}

func (g *GoogleTranslator) Available() bool { return true }

func (g *GoogleTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	endpoint := strings.TrimSpace(g.endpoint)
	if endpoint == "" {
		endpoint = "https://translate.googleapis.com/translate_a/single"
	}
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	form := url.Values{}
	form.Set("q", text)

	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?"+q.Encode(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", NewInvalidError(err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")
	body, err := doRead(g.client, req)
	if err != nil {
		return "", err
	}
	return parseGoogleResponse(body)
}

// parseGoogleResponse concatenates the translated segments of a translate_a
// payload: [[["Hola","Hello",...],["mundo","world",...]],null,"en",...].
func parseGoogleResponse(body []byte) (string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return "", NewBadGatewayError("malformed translate response")
	}
	var segments [][]any
	if err := json.Unmarshal(raw[0], &segments); err != nil {
		return "", NewBadGatewayError("malformed translate segments")
	}
	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			sb.WriteString(s)
		}
	}
	if sb.Len() == 0 {
		return "", NewBadGatewayError("empty translation")
	}
	return sb.String(), nil
}

// LingvaTranslator uses a Lingva Translate instance (a Google Translate frontend).
type LingvaTranslator struct {
	client   HTTPClient
	endpoint string
	timeout  time.Duration
}

func (l *LingvaTranslator) Available() bool { return true }

func (l *LingvaTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(l.endpoint), "/")
	if base == "" {
		base = "https://lingva.ml"
	}
	u := fmt.Sprintf("%s/api/v1/%s/%s/%s", base, url.PathEscape(source), url.PathEscape(target), url.PathEscape(text))

	ctx, cancel := withTimeout(ctx, l.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", NewInvalidError(err.Error())
	}
	body, err := doRead(l.client, req)
	if err != nil {
		return "", err
	}
	var out struct {
		Translation string `json:"translation"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", NewBadGatewayError("malformed lingva response")
	}
	return out.Translation, nil
}

type BatchOutcome int

const (
	// OutcomeSkipped: nothing to translate, capability absent, or target equals source.
	OutcomeSkipped BatchOutcome = iota
	OutcomeTranslated
	// OutcomeFallback: the provider failed or altered the delimiters; originals returned.
	OutcomeFallback
)

func (o BatchOutcome) String() string {
	switch o {
	case OutcomeTranslated:
		return "translated"
	case OutcomeFallback:
		return "fallback"
	default:
		return "skipped"
	}
}

// BatchResult always carries len(input) texts. Err is set only for OutcomeFallback.
type BatchResult struct {
	Texts   []string
	Outcome BatchOutcome
	Err     error
}

type BatchTranslator struct {
	translator Translator
	source     string
	target     string
}

func NewBatchTranslator(t Translator, source, target string) *BatchTranslator {
	if t == nil {
		t = NoopTranslator{}
	}
	if source == "" {
		source = "en"
	}
	if target == "" {
		target = "es"
	}
	return &BatchTranslator{translator: t, source: source, target: target}
}

func (b *BatchTranslator) Available() bool { return b.translator.Available() }

// Batch translates texts with one provider call and never fails: on any error or
// part-count mismatch the originals come back unchanged.
func (b *BatchTranslator) Batch(ctx context.Context, texts []string) BatchResult {
	target := b.target
	if lang, ok := TargetLanguageFromContext(ctx); ok {
		target = lang
	}
	if len(texts) == 0 || !b.translator.Available() || target == b.source {
		return BatchResult{Texts: texts, Outcome: OutcomeSkipped}
	}
	block := strings.Join(texts, batchDelimiter)
	translated, err := b.translator.Translate(ctx, block, b.source, target)
	if err != nil {
		return BatchResult{Texts: texts, Outcome: OutcomeFallback, Err: err}
	}
	parts := strings.Split(translated, batchMarker)
	if len(parts) != len(texts) {
		return BatchResult{
			Texts:   texts,
			Outcome: OutcomeFallback,
			Err:     NewMismatchError(fmt.Sprintf("expected %d parts, got %d", len(texts), len(parts))),
		}
	}
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return BatchResult{Texts: out, Outcome: OutcomeTranslated}
}

type targetLangKey struct{}

// WithTargetLanguage overrides the batch target for one request.
func WithTargetLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, targetLangKey{}, lang)
}

func TargetLanguageFromContext(ctx context.Context) (string, bool) {
	lang, ok := ctx.Value(targetLangKey{}).(string)
	return lang, ok && lang != ""
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func doRead(client HTTPClient, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, NewBadGatewayError(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewBadGatewayError(err.Error())
	}
	if resp.StatusCode >= 300 {
		if len(body) > 256 {
			body = body[:256]
		}
		return nil, NewBadGatewayError(fmt.Sprintf("translate status %d: %s", resp.StatusCode, body))
	}
	return body, nil
}
