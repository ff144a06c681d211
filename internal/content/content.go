// Package content loads localized markdown copy shown above category listings.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no markdown exists for a category in any candidate language.
var ErrNotFound = errors.New("content: not found")

const (
	defaultDir      = "content"
	defaultLang     = "en"
	defaultCacheTTL = 5 * time.Minute
	categoriesDir   = "categories"
)

// Category is the rendered copy for one category in one language.
type Category struct {
	Key       string
	Lang      string
	Title     string
	Summary   string
	Heading   string
	Body      template.HTML
	UpdatedAt time.Time
}

type frontMatter struct {
	Title     string `yaml:"title"`
	Summary   string `yaml:"summary"`
	Heading   string `yaml:"heading"`
	Lang      string `yaml:"lang"`
	UpdatedAt string `yaml:"updated_at"`
}

type cacheEntry struct {
	page    Category
	err     error
	expires time.Time
}

// Loader reads content/categories/<key>/<lang>.md files, renders them and keeps the results
// for a TTL. A Loader is safe for concurrent use.
type Loader struct {
	dir      string
	fallback string
	ttl      time.Duration
	now      func() time.Time
	md       goldmark.Markdown
	policy   *bluemonday.Policy

	mu    sync.RWMutex
	items map[string]cacheEntry
}

// Option customises a Loader.
type Option func(*Loader)

// WithTTL sets how long loaded pages are reused. Zero or negative disables caching.
func WithTTL(d time.Duration) Option {
	return func(l *Loader) { l.ttl = d }
}

// WithFallbackLang sets the language tried when the requested one has no file.
func WithFallbackLang(lang string) Option {
	return func(l *Loader) {
		if lang = strings.TrimSpace(strings.ToLower(lang)); lang != "" {
			l.fallback = lang
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLoader builds a Loader rooted at dir.
func NewLoader(dir string, opts ...Option) *Loader {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultDir
	}
	l := &Loader{
		dir:      dir,
		fallback: defaultLang,
		ttl:      defaultCacheTTL,
		now:      time.Now,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   newContentPolicy(),
		items:    map[string]cacheEntry{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func newContentPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span", "div")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

// Category returns the copy for key in lang, falling back to the loader's fallback language.
func (l *Loader) Category(key, lang string) (Category, error) {
	if l == nil {
		return Category{}, ErrNotFound
	}
	key = sanitizeSegment(key)
	lang = sanitizeSegment(lang)
	if key == "" {
		return Category{}, ErrNotFound
	}
	if lang == "" {
		lang = l.fallback
	}

	cacheKey := key + "|" + lang
	if entry, ok := l.cached(cacheKey); ok {
		return entry.page, entry.err
	}

	page, err := l.load(key, lang)
	l.store(cacheKey, page, err)
	return page, err
}

// Render converts markdown to sanitised HTML. Rendering failures yield an empty fragment.
func (l *Loader) Render(markdown string) template.HTML {
	if l == nil || strings.TrimSpace(markdown) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := l.md.Convert([]byte(markdown), &buf); err != nil {
		return ""
	}
	return template.HTML(l.policy.SanitizeBytes(buf.Bytes()))
}

func (l *Loader) load(key, lang string) (Category, error) {
	candidates := []string{lang}
	if lang != l.fallback {
		candidates = append(candidates, l.fallback)
	}
	for _, candidate := range candidates {
		page, err := l.read(key, candidate)
		if err == nil {
			return page, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return Category{}, err
	}
	return Category{}, ErrNotFound
}

func (l *Loader) read(key, lang string) (Category, error) {
	file := filepath.Join(l.dir, categoriesDir, key, lang+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		return Category{}, err
	}

	fm, body := splitFrontMatter(string(data))
	var front frontMatter
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Category{}, fmt.Errorf("content: parse front matter %s: %w", file, err)
		}
	}

	page := Category{
		Key:       key,
		Lang:      firstNonEmpty(strings.TrimSpace(front.Lang), lang),
		Title:     strings.TrimSpace(front.Title),
		Summary:   strings.TrimSpace(front.Summary),
		Heading:   strings.TrimSpace(front.Heading),
		Body:      l.Render(body),
		UpdatedAt: parseDate(front.UpdatedAt),
	}
	if page.UpdatedAt.IsZero() {
		if info, err := os.Stat(file); err == nil {
			page.UpdatedAt = info.ModTime()
		}
	}
	if page.Heading == "" {
		page.Heading = page.Title
	}
	return page, nil
}

func (l *Loader) cached(key string) (cacheEntry, bool) {
	if l.ttl <= 0 {
		return cacheEntry{}, false
	}
	l.mu.RLock()
	entry, ok := l.items[key]
	l.mu.RUnlock()
	if !ok || l.now().After(entry.expires) {
		return cacheEntry{}, false
	}
	return entry, true
}

func (l *Loader) store(key string, page Category, err error) {
	if l.ttl <= 0 {
		return
	}
	// parse failures are retried on the next request
	if err != nil && !errors.Is(err, ErrNotFound) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items[key] = cacheEntry{page: page, err: err, expires: l.now().Add(l.ttl)}
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	input = strings.ReplaceAll(input, "\r\n", "\n")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n")
		}
	}
	return "", input
}

func parseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// sanitizeSegment keeps a path segment from escaping the content directory.
func sanitizeSegment(s string) string {
	s = strings.Trim(strings.TrimSpace(strings.ToLower(s)), "/")
	if s == "" || strings.Contains(s, "..") || strings.ContainsAny(s, `/\`) {
		return ""
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
