package ogimage

import (
	"fmt"
	"strings"

	"x-chats.com/web/internal/catalog"
)

// DefaultPlaceholderPath is the generic social preview served when no site image applies.
const DefaultPlaceholderPath = "/images/og-image.jpg"

// FallbackPolicy selects what happens when the top site of a category has no hero image.
type FallbackPolicy int

const (
	// FallbackPlaceholder returns base URL + placeholder path without consulting other
	// categories.
	FallbackPlaceholder FallbackPolicy = iota
	// FallbackOverall retries with the top site of the whole catalog and returns an empty
	// string when that has no hero image either.
	FallbackOverall
)

// ParseFallbackPolicy maps configuration values ("placeholder", "overall") to a policy.
func ParseFallbackPolicy(v string) (FallbackPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "placeholder":
		return FallbackPlaceholder, nil
	case "overall":
		return FallbackOverall, nil
	default:
		return FallbackPlaceholder, fmt.Errorf("ogimage: unknown fallback policy %q", v)
	}
}

func (p FallbackPolicy) String() string {
	switch p {
	case FallbackOverall:
		return "overall"
	default:
		return "placeholder"
	}
}

// Resolver picks the hero image of the best ranked site as the Open Graph image.
type Resolver struct {
	catalog     *catalog.Catalog
	policy      FallbackPolicy
	placeholder string
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithPolicy sets the fallback policy.
func WithPolicy(p FallbackPolicy) Option {
	return func(r *Resolver) { r.policy = p }
}

// WithPlaceholder overrides the placeholder path used by FallbackPlaceholder.
func WithPlaceholder(path string) Option {
	return func(r *Resolver) {
		if strings.TrimSpace(path) != "" {
			r.placeholder = strings.TrimSpace(path)
		}
	}
}

// NewResolver builds a Resolver over c. A nil catalog behaves like an empty one.
func NewResolver(c *catalog.Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:     c,
		policy:      FallbackPlaceholder,
		placeholder: DefaultPlaceholderPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the configured fallback policy.
func (r *Resolver) Policy() FallbackPolicy { return r.policy }

// TopImage returns the raw hero path of the best site in category, following the
// configured fallback policy. The boolean is false when no candidate exists.
func (r *Resolver) TopImage(category string) (string, bool) {
	if r == nil {
		return "", false
	}
	if hero := topHero(r.catalog, &category); hero != "" {
		return hero, true
	}
	if r.policy == FallbackOverall {
		if hero := topHero(r.catalog, nil); hero != "" {
			return hero, true
		}
	}
	return "", false
}

// TopImageURL returns an absolute image URL for category. Hero values that are already
// absolute are returned unchanged, relative ones are joined to baseURL. When no hero is
// available the result is baseURL + placeholder (FallbackPlaceholder) or "" (FallbackOverall).
func (r *Resolver) TopImageURL(category, baseURL string) string {
	if hero, ok := r.TopImage(category); ok {
		return Absolute(hero, baseURL)
	}
	if r == nil || r.policy == FallbackOverall {
		return ""
	}
	return Absolute(r.placeholder, baseURL)
}

func topHero(c *catalog.Catalog, category *string) string {
	top, ok := c.Top(category)
	if !ok {
		return ""
	}
	return strings.TrimSpace(top.Hero)
}

// IsAbsolute reports whether ref carries an http(s) scheme.
func IsAbsolute(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Absolute joins ref to baseURL with exactly one slash between them. Absolute references are
// returned unchanged.
func Absolute(ref, baseURL string) string {
	if ref == "" || IsAbsolute(ref) {
		return ref
	}
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return base + ref
}
