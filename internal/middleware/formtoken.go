package middleware

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

// FormTokenField is the hidden input carrying the token.
const FormTokenField = "form_token"

var ErrInvalidFormToken = errors.New("invalid form token")

// FormTokens issues and checks short-lived signed tokens embedded in forms, so
// lookups can only be submitted from pages this server rendered.
type FormTokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewFormTokens derives the signing key from secret. An empty secret gets a
// random per-process key, which invalidates open forms on restart.
func NewFormTokens(secret string, ttl time.Duration) (*FormTokens, error) {
	ikm := []byte(secret)
	if secret == "" {
		ikm = make([]byte, 32)
		if _, err := rand.Read(ikm); err != nil {
			return nil, fmt.Errorf("generate form key: %w", err)
		}
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, nil, []byte("fitpages form token v1")), key); err != nil {
		return nil, fmt.Errorf("derive form key: %w", err)
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &FormTokens{key: key, ttl: ttl, now: time.Now}, nil
}

// Issue returns a token bound to the named form.
func (f *FormTokens) Issue(form string) (string, error) {
	now := f.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   form,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(f.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.key)
}

func (f *FormTokens) Verify(tok, form string) error {
	if tok == "" {
		return ErrInvalidFormToken
	}
	_, err := jwt.ParseWithClaims(tok, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) { return f.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(form),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(f.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormToken, err)
	}
	return nil
}

const formRejectedKey ctxKey = 2

// CheckFormToken verifies the token on POSTs to the named form. A bad token is
// logged and flagged on the request context for the handler to act on; the
// request itself always reaches next.
func (f *FormTokens) CheckFormToken(form string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				if err := f.Verify(r.PostFormValue(FormTokenField), form); err != nil {
					log.Printf("form %s rejected: %v", form, err)
					r = r.WithContext(context.WithValue(r.Context(), formRejectedKey, true))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FormRejected reports whether CheckFormToken refused this request's token.
func FormRejected(ctx context.Context) bool {
	v, _ := ctx.Value(formRejectedKey).(bool)
	return v
}
