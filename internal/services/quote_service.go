package services

import (
	"context"
	"strings"
	"time"
)

const DefaultQuoteURL = "https://zenquotes.io/api/random"

type QuoteService struct {
	client     HTTPClient
	translator *BatchTranslator
	url        string
	timeout    time.Duration
}

func NewQuoteService(client HTTPClient, translator *BatchTranslator, url string, timeout time.Duration) *QuoteService {
	if url == "" {
		url = DefaultQuoteURL
	}
	if translator == nil {
		translator = NewBatchTranslator(nil, "", "")
	}
	return &QuoteService{client: client, translator: translator, url: url, timeout: timeout}
}

// Random fetches one quote and translates its text. Translation failures keep
// the English text; only fetch failures are returned.
func (s *QuoteService) Random(ctx context.Context) (*Quote, BatchOutcome, error) {
	var quotes []Quote
	if err := getJSON(ctx, s.client, s.url, nil, s.timeout, &quotes); err != nil {
		return nil, OutcomeSkipped, err
	}
	if len(quotes) == 0 || strings.TrimSpace(quotes[0].Text) == "" {
		return nil, OutcomeSkipped, NewBadGatewayError("empty quote payload")
	}
	q := quotes[0]
	q.Original = q.Text
	res := s.translator.Batch(ctx, []string{q.Text})
	q.Text = res.Texts[0]
	return &q, res.Outcome, nil
}
