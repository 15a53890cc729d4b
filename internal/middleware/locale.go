package middleware

import (
	"context"
	"net/http"

	"github.com/soaringjerry/fitpages/internal/utils"
)

type ctxKey int

const localeKey ctxKey = 1

// SupportedLocales lists UI locales; the first is the default.
var SupportedLocales = []string{"es", "en"}

// LocaleMiddleware extracts locale from query param (lang) or Accept-Language
// and stores it in request context.
func LocaleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		qLang := r.URL.Query().Get("lang")
		aLang := r.Header.Get("Accept-Language")
		locale := utils.DetermineLocale(qLang, aLang, SupportedLocales, SupportedLocales[0])
		w.Header().Add("Vary", "Accept-Language")
		w.Header().Set("Content-Language", locale)
		ctx := context.WithValue(r.Context(), localeKey, locale)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LocaleFromContext retrieves the locale stored by LocaleMiddleware.
func LocaleFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(localeKey).(string); ok && s != "" {
		return s
	}
	return SupportedLocales[0]
}
