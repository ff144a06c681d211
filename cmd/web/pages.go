package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"x-chats.com/web/internal/catalog"
	"x-chats.com/web/internal/content"
	"x-chats.com/web/internal/handlers"
	mw "x-chats.com/web/internal/middleware"
	"x-chats.com/web/internal/nav"
	"x-chats.com/web/internal/observability"
	"x-chats.com/web/internal/seo"
)

// bbwChat is the /bbwchat listing; its message block is indexPage.bbwChat.
var bbwChat = seo.CategoryPage{
	RouteSegment: "bbwchat",
	MessageKey:   "bbwChat",
	Category:     "bbw",
	DefaultTitle: "BBW Chat",
}

// pageRequest is the per-request state every handler starts from.
type pageRequest struct {
	lang string
	path string // without locale prefix
	ctx  seo.PageContext
}

func (a *app) request(r *http.Request) pageRequest {
	lang := mw.LocaleFrom(r.Context())
	if lang == "" {
		lang = a.messages.Fallback()
	}
	path := r.URL.Path
	if prefix := chi.URLParam(r, mw.LocaleParam); prefix != "" {
		path = strings.TrimPrefix(path, "/"+prefix)
	}
	if path == "" {
		path = "/"
	}
	return pageRequest{
		lang: lang,
		path: path,
		ctx:  seo.PageContext{Locale: lang, Path: r.URL.Path},
	}
}

func (a *app) pageData(r *http.Request, pr pageRequest, meta seo.Meta) handlers.PageData {
	pd := handlers.NewPageData(pr.lang, a.messages.Fallback(), a.messages.Supported(), pr.path, meta)
	pd.Analytics = a.analytics
	pd.PreferredLocale = mw.PreferredLocale(r.Context())
	return pd
}

func (a *app) home(w http.ResponseWriter, r *http.Request) {
	pr := a.request(r)
	meta := a.meta.Home(pr.ctx)
	a.renderListing(w, r, pr, meta, seo.HomeCategory, "top10chat")
}

func (a *app) category(page seo.CategoryPage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pr := a.request(r)
		meta := a.meta.Category(pr.ctx, page)
		a.renderListing(w, r, pr, meta, page.Category, page.RouteSegment)
	}
}

func (a *app) renderListing(w http.ResponseWriter, r *http.Request, pr pageRequest, meta seo.Meta, category, contentKey string) {
	prefix := nav.Prefix(pr.lang, a.messages.Fallback())
	cards := handlers.BuildCards(a.catalog.RankCategory(category), prefix, a.cfg.Site.ImageURL)
	meta.JSONLD = append(meta.JSONLD, handlers.ItemListJSONLD(meta.Title, a.cfg.Site.URL, cards))

	listing := &handlers.Listing{
		Category: category,
		Heading:  meta.Title,
		Cards:    cards,
	}
	if page, ok := a.categoryContent(r, contentKey, pr.lang); ok {
		listing.Content = &page
		if page.Heading != "" {
			listing.Heading = page.Heading
		}
	}

	pd := a.pageData(r, pr, meta)
	pd.Listing = listing
	a.views.render(w, r, http.StatusOK, "listing", pd)
}

// categoryContent loads the editorial copy for a listing. Missing copy only hides the section.
func (a *app) categoryContent(r *http.Request, key, lang string) (content.Category, bool) {
	page, err := a.content.Category(key, lang)
	if err == nil {
		return page, true
	}
	if !errors.Is(err, content.ErrNotFound) {
		observability.FromContext(r.Context()).Warn("category content unavailable",
			zap.String("category", key), zap.String("lang", lang), zap.Error(err))
	}
	return content.Category{}, false
}

func (a *app) search(w http.ResponseWriter, r *http.Request) {
	pr := a.request(r)
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	meta := a.meta.Search(pr.ctx, query)

	var cards []handlers.Card
	if query != "" {
		cards = handlers.BuildCards(a.catalog.Search(query), nav.Prefix(pr.lang, a.messages.Fallback()), a.cfg.Site.ImageURL)
	}

	pd := a.pageData(r, pr, meta)
	pd.Search = &handlers.SearchResults{Query: query, Cards: cards}
	a.views.render(w, r, http.StatusOK, "search", pd)
}

func (a *app) siteIndex(w http.ResponseWriter, r *http.Request) {
	pr := a.request(r)
	meta := a.meta.SiteIndex(pr.ctx)
	cards := handlers.BuildCards(a.catalog.Rank(nil), nav.Prefix(pr.lang, a.messages.Fallback()), a.cfg.Site.ImageURL)
	meta.JSONLD = append(meta.JSONLD, handlers.ItemListJSONLD(meta.Title, a.cfg.Site.URL, cards))

	pd := a.pageData(r, pr, meta)
	pd.Listing = &handlers.Listing{Heading: meta.Title, Cards: cards}
	a.views.render(w, r, http.StatusOK, "listing", pd)
}

func (a *app) site(w http.ResponseWriter, r *http.Request) {
	pr := a.request(r)
	slug := chi.URLParam(r, "slug")
	record, err := a.catalog.BySlug(slug)
	if err != nil {
		a.notFound(w, r)
		return
	}

	meta := a.meta.Site(pr.ctx, seo.SitePage{Slug: record.Slug, Title: record.Title, Summary: record.Summary})
	prefix := nav.Prefix(pr.lang, a.messages.Fallback())
	card := handlers.BuildCards([]catalog.SiteRecord{record}, prefix, a.cfg.Site.ImageURL)[0]

	// rank the site within the whole catalog so the detail page shows its real position
	ranked := a.catalog.Rank(nil)
	related := make([]catalog.SiteRecord, 0, 4)
	for i, s := range ranked {
		if s.Slug == record.Slug {
			card.Rank = i + 1
			continue
		}
		if len(related) < cap(related) && sharesCategory(s, record) {
			related = append(related, s)
		}
	}

	overview := a.message(pr.lang, "singlePageBySlug."+record.Slug+".overview")
	if overview == "" {
		overview = record.Summary
	}

	pd := a.pageData(r, pr, meta)
	pd.Breadcrumbs = nav.Breadcrumbs(prefix, pr.path, card.Title)
	pd.Site = &handlers.SiteDetail{
		Card:     card,
		Overview: a.content.Render(overview),
		Related:  handlers.BuildCards(related, prefix, a.cfg.Site.ImageURL),
	}
	a.views.render(w, r, http.StatusOK, "site", pd)
}

// message looks key up in lang then the default locale; unlike T it yields "" when missing.
func (a *app) message(lang, key string) string {
	if v, ok := a.messages.Lookup(lang, key); ok {
		return v
	}
	v, _ := a.messages.Lookup(a.messages.Fallback(), key)
	return v
}

func sharesCategory(a, b catalog.SiteRecord) bool {
	for _, c := range b.Categories {
		if a.InCategory(c) {
			return true
		}
	}
	return false
}

func (a *app) login(w http.ResponseWriter, r *http.Request) {
	pr := a.request(r)
	pd := a.pageData(r, pr, a.meta.Login(pr.ctx))
	prefix := nav.Prefix(pr.lang, a.messages.Fallback())
	pd.Auth = &handlers.AuthForm{Kind: "login", AltHref: nav.Localize(prefix, "/signup"), AltLabel: "auth.signup"}
	a.views.render(w, r, http.StatusOK, "auth", pd)
}

func (a *app) signup(w http.ResponseWriter, r *http.Request) {
	pr := a.request(r)
	pd := a.pageData(r, pr, a.meta.Signup(pr.ctx))
	prefix := nav.Prefix(pr.lang, a.messages.Fallback())
	pd.Auth = &handlers.AuthForm{Kind: "signup", AltHref: nav.Localize(prefix, "/login"), AltLabel: "auth.login"}
	a.views.render(w, r, http.StatusOK, "auth", pd)
}

func (a *app) notFound(w http.ResponseWriter, r *http.Request) {
	pr := a.request(r)
	title := a.messages.T(pr.lang, "notFound.title")
	meta := seo.Meta{
		Title:  title,
		Robots: &seo.Robots{},
	}
	pd := a.pageData(r, pr, meta)
	pd.Breadcrumbs = nil
	a.views.render(w, r, http.StatusNotFound, "notfound", pd)
}
