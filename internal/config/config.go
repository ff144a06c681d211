package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"x-chats.com/web/internal/ogimage"
)

const (
	defaultEnvFile       = ".env"
	defaultPort          = "8080"
	defaultReadTimeout   = 15 * time.Second
	defaultWriteTimeout  = 15 * time.Second
	defaultIdleTimeout   = 60 * time.Second
	defaultHeaderTimeout = 10 * time.Second
	defaultSiteURL       = "https://x-chats.com"
	defaultSiteName      = "Top Chats"
	defaultLocale        = "en"
	defaultCatalogPath   = "data/sites.json"
	defaultLocalesDir    = "locales"
	defaultContentDir    = "content"
	defaultTemplatesDir  = "templates"
	defaultPublicDir     = "public"
	defaultContentTTL    = 5 * time.Minute
	defaultLogLevel      = "info"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Site      SiteConfig
	Data      DataConfig
	OG        OGConfig
	Dev       bool
	Log       LogConfig
	Analytics AnalyticsConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string { return ":" + s.Port }

// SiteConfig holds the public identity of the site used in metadata.
type SiteConfig struct {
	URL           string
	ImageURL      string
	Name          string
	DefaultLocale string
	// Locales restricts the served locales; empty means every dictionary found in LocalesDir.
	Locales []string
}

// DataConfig points at the read-only inputs.
type DataConfig struct {
	CatalogPath  string
	LocalesDir   string
	ContentDir   string
	ContentTTL   time.Duration
	TemplatesDir string
	PublicDir    string
}

// OGConfig controls Open Graph image selection.
type OGConfig struct {
	Fallback    ogimage.FallbackPolicy
	Placeholder string
}

// AnalyticsConfig holds the client-side tag identifiers; empty values disable the tag.
type AnalyticsConfig struct {
	GA4MeasurementID string
	GTMContainerID   string
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level string
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the configuration from defaults, .env overrides, environment variables and
// explicit values, in increasing order of precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	var invalid []string

	siteURL := firstWithDefault(lookup, defaultSiteURL, "TOPCHATS_SITE_URL", "NEXT_PUBLIC_SITE_URL", "NEXT_PUBLIC_BASE_URL")
	cfg := Config{
		Server: ServerConfig{
			Port:              firstWithDefault(lookup, defaultPort, "TOPCHATS_WEB_PORT", "PORT"),
			ReadTimeout:       durationWithDefault(lookup, "TOPCHATS_WEB_READ_TIMEOUT", defaultReadTimeout),
			ReadHeaderTimeout: durationWithDefault(lookup, "TOPCHATS_WEB_READ_HEADER_TIMEOUT", defaultHeaderTimeout),
			WriteTimeout:      durationWithDefault(lookup, "TOPCHATS_WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:       durationWithDefault(lookup, "TOPCHATS_WEB_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Site: SiteConfig{
			URL:           strings.TrimRight(siteURL, "/"),
			ImageURL:      strings.TrimRight(firstWithDefault(lookup, siteURL, "TOPCHATS_IMAGE_URL", "NEXT_PUBLIC_IMG_URL", "NEXT_PUBLIC_IMAGE_URL"), "/"),
			Name:          stringWithDefault(lookup, "TOPCHATS_SITE_NAME", defaultSiteName),
			DefaultLocale: strings.ToLower(stringWithDefault(lookup, "TOPCHATS_DEFAULT_LOCALE", defaultLocale)),
			Locales:       csvWithDefault(lookup, "TOPCHATS_LOCALES"),
		},
		Data: DataConfig{
			CatalogPath:  stringWithDefault(lookup, "TOPCHATS_CATALOG_PATH", defaultCatalogPath),
			LocalesDir:   stringWithDefault(lookup, "TOPCHATS_LOCALES_DIR", defaultLocalesDir),
			ContentDir:   stringWithDefault(lookup, "TOPCHATS_CONTENT_DIR", defaultContentDir),
			ContentTTL:   durationWithDefault(lookup, "TOPCHATS_CONTENT_TTL", defaultContentTTL),
			TemplatesDir: stringWithDefault(lookup, "TOPCHATS_TEMPLATES_DIR", defaultTemplatesDir),
			PublicDir:    stringWithDefault(lookup, "TOPCHATS_PUBLIC_DIR", defaultPublicDir),
		},
		OG: OGConfig{
			Placeholder: stringWithDefault(lookup, "TOPCHATS_OG_PLACEHOLDER", ogimage.DefaultPlaceholderPath),
		},
		Dev: boolWithDefault(lookup, "TOPCHATS_DEV", false) || boolWithDefault(lookup, "DEV", false),
		Log: LogConfig{
			Level: strings.ToLower(stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel)),
		},
		Analytics: AnalyticsConfig{
			GA4MeasurementID: stringWithDefault(lookup, "TOPCHATS_GA_MEASUREMENT_ID", ""),
			GTMContainerID:   stringWithDefault(lookup, "TOPCHATS_GTM_CONTAINER_ID", ""),
		},
	}

	policy, err := ogimage.ParseFallbackPolicy(stringWithDefault(lookup, "TOPCHATS_OG_FALLBACK", ""))
	if err != nil {
		invalid = append(invalid, "OG.Fallback")
	}
	cfg.OG.Fallback = policy

	for i, l := range cfg.Site.Locales {
		cfg.Site.Locales[i] = strings.ToLower(l)
	}

	if err := validateConfig(cfg, invalid); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config, invalid []string) error {
	missing := append([]string(nil), invalid...)

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	} else if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		missing = append(missing, "Server.Port")
	}
	if !strings.HasPrefix(cfg.Site.URL, "http://") && !strings.HasPrefix(cfg.Site.URL, "https://") {
		missing = append(missing, "Site.URL")
	}
	if cfg.Site.DefaultLocale == "" {
		missing = append(missing, "Site.DefaultLocale")
	}
	if len(cfg.Site.Locales) > 0 && !contains(cfg.Site.Locales, cfg.Site.DefaultLocale) {
		missing = append(missing, "Site.Locales")
	}
	if strings.TrimSpace(cfg.Data.CatalogPath) == "" {
		missing = append(missing, "Data.CatalogPath")
	}
	if cfg.Data.ContentTTL <= 0 {
		missing = append(missing, "Data.ContentTTL")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", path, err)
	}
	return values, nil
}

func contains(values []string, v string) bool {
	for _, item := range values {
		if item == v {
			return true
		}
	}
	return false
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

// firstWithDefault returns the first non-empty value among keys.
func firstWithDefault(lookup func(string) (string, bool), fallback string, keys ...string) string {
	for _, key := range keys {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string) []string {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
