package handlers

import (
	"html/template"

	"x-chats.com/web/internal/content"
	"x-chats.com/web/internal/nav"
	"x-chats.com/web/internal/seo"
)

// PageData is the view model every page renders through the shared layout.
type PageData struct {
	Lang      string
	SEO       seo.Meta
	Analytics Analytics

	// Path is the request path without the locale prefix; Prefix is "" or "/<locale>".
	Path            string
	Prefix          string
	Nav             []nav.RenderedItem
	Breadcrumbs     []nav.Crumb
	Languages       []nav.LanguageLink
	PreferredLocale string

	// Optional per-page view model payloads
	Listing *Listing
	Search  *SearchResults
	Site    *SiteDetail
	Auth    *AuthForm
}

// Listing is a ranked grid of sites with optional editorial copy.
type Listing struct {
	Category string
	Heading  string
	Content  *content.Category
	Cards    []Card
}

// SearchResults is the search page payload.
type SearchResults struct {
	Query string
	Cards []Card
}

// SiteDetail is the single site page payload.
type SiteDetail struct {
	Card     Card
	Overview template.HTML
	Related  []Card
}

// AuthForm describes the login and sign-up shells. Submissions are not handled here.
type AuthForm struct {
	Kind     string // "login" or "signup"
	AltHref  string
	AltLabel string
}

// NewPageData fills the layout fields shared by every page.
func NewPageData(lang, defaultLang string, locales []string, path string, meta seo.Meta) PageData {
	prefix := nav.Prefix(lang, defaultLang)
	return PageData{
		Lang:        lang,
		SEO:         meta,
		Path:        path,
		Prefix:      prefix,
		Nav:         nav.Build(prefix, path),
		Breadcrumbs: nav.Breadcrumbs(prefix, path, ""),
		Languages:   nav.Languages(locales, lang, defaultLang, path),
	}
}
