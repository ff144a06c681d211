package middleware

import (
	"context"
)

// context keys are unexported to avoid collisions
type ctxKey string

const (
	ctxKeyLocale    ctxKey = "locale"
	ctxKeyPreferred ctxKey = "preferred_locale"
)

// WithLocale stores the page locale in context.
func WithLocale(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKeyLocale, lang)
}

// LocaleFrom returns the page locale, or "" when the locale middleware did not run.
func LocaleFrom(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyLocale).(string)
	return v
}

// PreferredLocale returns the best supported match for the visitor's Accept-Language.
func PreferredLocale(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyPreferred).(string)
	return v
}
