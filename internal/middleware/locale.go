package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// LocaleParam is the chi URL parameter holding the locale prefix.
const LocaleParam = "locale"

// Locales is the subset of the message bundle the locale middleware needs.
type Locales interface {
	Fallback() string
	IsSupported(lang string) bool
	Resolve(acceptLang string) string
}

// Locale resolves the page locale from the {locale} path prefix. Unprefixed routes use the
// default locale; an explicit default prefix is served too since hreflang alternates link it.
// Unknown prefixes are passed to notFound, or answered with a plain 404 when it is nil.
func Locale(locales Locales, notFound http.Handler) func(http.Handler) http.Handler {
	if notFound == nil {
		notFound = http.NotFoundHandler()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := locales.Fallback()
			if prefix := strings.ToLower(chi.URLParam(r, LocaleParam)); prefix != "" {
				if !locales.IsSupported(prefix) {
					notFound.ServeHTTP(w, r)
					return
				}
				lang = prefix
			}

			ctx := WithLocale(r.Context(), lang)
			ctx = context.WithValue(ctx, ctxKeyPreferred, locales.Resolve(r.Header.Get("Accept-Language")))
			w.Header().Set("Content-Language", lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// VaryLocale sets Vary header for Accept-Language on dynamic responses
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r)
	})
}
