package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

type ErrorCode string

const (
	ErrorInvalid    ErrorCode = "invalid"
	ErrorBadGateway ErrorCode = "bad_gateway"
	ErrorTimeout    ErrorCode = "timeout"
	ErrorMismatch   ErrorCode = "mismatch"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error    { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewBadGatewayError(msg string) error { return &ServiceError{Code: ErrorBadGateway, Message: msg} }
func NewTimeoutError(msg string) error    { return &ServiceError{Code: ErrorTimeout, Message: msg} }
func NewMismatchError(msg string) error   { return &ServiceError{Code: ErrorMismatch, Message: msg} }

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Quote is one ZenQuotes entry. Text holds the rendered (possibly translated) quote.
type Quote struct {
	Text     string `json:"q"`
	Author   string `json:"a"`
	Original string `json:"-"`
}

// Exercise mirrors an ExerciseDB record. Localized* fields are attached per request.
type Exercise struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	BodyPart         string   `json:"bodyPart"`
	Equipment        string   `json:"equipment"`
	Target           string   `json:"target"`
	GifURL           string   `json:"gifUrl"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
	Instructions     []string `json:"instructions"`
	Description      string   `json:"description"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`

	LocalizedDescription  string   `json:"-"`
	LocalizedInstructions []string `json:"-"`
}

type Nutrient struct {
	Key      string  `json:"-"`
	Label    string  `json:"label"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// getJSON performs one GET bounded by timeout and decodes a JSON body into out.
// Every failure is reported as a ServiceError so callers can take their fallback path.
func getJSON(ctx context.Context, client HTTPClient, url string, headers map[string]string, timeout time.Duration, out any) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewInvalidError(err.Error())
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return NewTimeoutError(err.Error())
		}
		return NewBadGatewayError(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return NewBadGatewayError(fmt.Sprintf("upstream status %d: %s", resp.StatusCode, b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewBadGatewayError("malformed payload: " + err.Error())
	}
	return nil
}
