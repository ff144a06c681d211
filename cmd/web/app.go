package main

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"x-chats.com/web/internal/catalog"
	"x-chats.com/web/internal/config"
	"x-chats.com/web/internal/content"
	"x-chats.com/web/internal/handlers"
	"x-chats.com/web/internal/i18n"
	mw "x-chats.com/web/internal/middleware"
	"x-chats.com/web/internal/observability"
	"x-chats.com/web/internal/ogimage"
	"x-chats.com/web/internal/seo"
)

// app bundles the read-only dependencies shared by every handler. All fields are safe for
// concurrent use once newApp returns.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	catalog   *catalog.Catalog
	messages  *i18n.Bundle
	resolver  *ogimage.Resolver
	meta      *seo.Builder
	content   *content.Loader
	views     *renderer
	metrics   *observability.Metrics
	analytics handlers.Analytics
}

func newApp(cfg config.Config, logger *zap.Logger) (*app, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	sites, err := catalog.Load(cfg.Data.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	messages, err := i18n.Load(cfg.Data.LocalesDir, cfg.Site.DefaultLocale, cfg.Site.Locales)
	if err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}

	resolver := ogimage.NewResolver(sites,
		ogimage.WithPolicy(cfg.OG.Fallback),
		ogimage.WithPlaceholder(cfg.OG.Placeholder),
	)
	meta := seo.NewBuilder(seo.Config{
		SiteURL:       cfg.Site.URL,
		ImageURL:      cfg.Site.ImageURL,
		SiteName:      cfg.Site.Name,
		DefaultLocale: cfg.Site.DefaultLocale,
		Locales:       messages.Supported(),
	}, resolver, messages)

	ttl := cfg.Data.ContentTTL
	if cfg.Dev {
		ttl = 0
	}
	loader := content.NewLoader(cfg.Data.ContentDir,
		content.WithTTL(ttl),
		content.WithFallbackLang(cfg.Site.DefaultLocale),
	)

	views, err := newRenderer(cfg.Data.TemplatesDir, cfg.Dev, messages.T)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	logger.Info("catalog loaded",
		zap.Int("sites", sites.Len()),
		zap.Strings("locales", messages.Supported()),
		zap.String("og_fallback", resolver.Policy().String()),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		catalog:  sites,
		messages: messages,
		resolver: resolver,
		meta:     meta,
		content:  loader,
		views:    views,
		metrics:  observability.NewMetrics(),
		analytics: handlers.Analytics{
			GA4MeasurementID: cfg.Analytics.GA4MeasurementID,
			GTMContainerID:   cfg.Analytics.GTMContainerID,
		},
	}, nil
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP.
	r.Use(middleware.RealIP)
	r.Use(observability.InjectLogger(a.logger))
	r.Use(observability.RequestLogger(a.metrics))
	r.Use(observability.Recovery(a.logger))
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
	r.Handle("/metrics", a.metrics.Handler())
	r.Handle("/assets/*", mw.AssetsWithCache("/assets", filepath.Join(a.cfg.Data.PublicDir, "assets")))
	r.Handle("/images/*", mw.AssetsWithCache("/images", filepath.Join(a.cfg.Data.PublicDir, "images")))

	r.Group(func(r chi.Router) {
		r.Use(mw.Locale(a.messages, http.HandlerFunc(a.notFound)))
		r.Use(mw.VaryLocale)
		a.pageRoutes(r)
	})
	r.Route("/{"+mw.LocaleParam+"}", func(r chi.Router) {
		r.Use(mw.Locale(a.messages, http.HandlerFunc(a.notFound)))
		r.Use(mw.VaryLocale)
		a.pageRoutes(r)
	})
	r.NotFound(a.notFound)
	return r
}

func (a *app) pageRoutes(r chi.Router) {
	r.Get("/", a.home)
	r.Get("/bbwchat", a.category(bbwChat))
	r.Get("/search", a.search)
	r.Get("/site", a.siteIndex)
	r.Get("/site/{slug}", a.site)
	r.Get("/login", a.login)
	r.Get("/signup", a.signup)
}
