package seo

import (
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"x-chats.com/web/internal/format"
	"x-chats.com/web/internal/ogimage"
)

const (
	// ImageWidth and ImageHeight are the Open Graph preview dimensions.
	ImageWidth  = 1200
	ImageHeight = 630

	twitterCard     = "summary_large_image"
	defaultOGType   = "website"
	defaultSiteName = "Top Chats"
	defaultLocale   = "en"

	// HomeCategory ranks the landing page and every page without its own category.
	HomeCategory = "top10chat"
)

// ImageResolver yields the preview image of the top ranked site of a category.
type ImageResolver interface {
	TopImageURL(category, baseURL string) string
}

// Messages is the read side of the locale dictionary.
type Messages interface {
	Lookup(lang, key string) (string, bool)
	Safe(lang string) string
	Supported() []string
}

// Config carries the explicit site configuration metadata is built from.
type Config struct {
	SiteURL       string
	ImageURL      string
	SiteName      string
	DefaultLocale string
	Locales       []string
	Now           func() time.Time
}

// PageContext describes the request a page is rendered for.
type PageContext struct {
	Locale string
	// Path is the request path. When empty or "/" the page URL is derived from locale and route.
	Path string
}

// CategoryPage maps a listing route to its dataset category and message block.
type CategoryPage struct {
	RouteSegment string // "bbwchat"
	MessageKey   string // "bbwChat" => indexPage.bbwChat.seo
	Category     string // "bbw"
	DefaultTitle string
}

// SitePage identifies a single site. Title and Summary come from the catalog and are used
// when the locale dictionary has no copy for the slug.
type SitePage struct {
	Slug    string
	Title   string
	Summary string
}

// Builder assembles per-route metadata.
type Builder struct {
	cfg      Config
	images   ImageResolver
	messages Messages
	strip    *bluemonday.Policy
}

// NewBuilder constructs a Builder. Missing config values fall back to sensible defaults:
// ImageURL to SiteURL, SiteName to "Top Chats", Locales to the dictionary's locales.
func NewBuilder(cfg Config, images ImageResolver, messages Messages) *Builder {
	cfg.SiteURL = strings.TrimSpace(cfg.SiteURL)
	if strings.TrimSpace(cfg.ImageURL) == "" {
		cfg.ImageURL = cfg.SiteURL
	}
	if cfg.SiteName == "" {
		cfg.SiteName = defaultSiteName
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = defaultLocale
	}
	if len(cfg.Locales) == 0 && messages != nil {
		cfg.Locales = messages.Supported()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Builder{
		cfg:      cfg,
		images:   images,
		messages: messages,
		strip:    bluemonday.StrictPolicy(),
	}
}

// Home builds metadata for the landing page.
func (b *Builder) Home(pc PageContext) Meta {
	locale := b.locale(pc.Locale)
	now := b.cfg.Now()
	const fallbackTitle = "Top 10 Chat Sites"

	title := format.FillYear(firstNonEmpty(b.msg(locale, "indexPage.seo.title"), fallbackTitle), now)
	ogTitle := format.FillYear(firstNonEmpty(
		b.msg(locale, "indexPage.seo.openGraph.title"),
		b.msg(locale, "indexPage.seo.title"),
		fallbackTitle,
	), now)
	description := b.msg(locale, "indexPage.seo.description")
	ogDescription := firstNonEmpty(b.msg(locale, "indexPage.seo.openGraph.description"), description)

	image := b.msg(locale, "indexPage.seo.openGraph.image")
	if image == "" {
		image = b.topImage(HomeCategory)
	} else {
		image = ogimage.Absolute(image, b.cfg.ImageURL)
	}

	m := Meta{
		MetadataBase: b.metadataBase(b.msg(locale, "indexPage.seo.metadataBase")),
		Title:        title,
		Description:  description,
		Alternates:   b.alternates(locale, ""),
		Robots:       &Robots{Index: true, Follow: true},
	}
	m.OpenGraph = OpenGraph{
		Type:        firstNonEmpty(b.msg(locale, "indexPage.seo.openGraph.type"), defaultOGType),
		Title:       ogTitle,
		Description: ogDescription,
		URL:         b.pageURL(pc, locale, ""),
		SiteName:    firstNonEmpty(b.msg(locale, "indexPage.seo.openGraph.siteName"), b.cfg.SiteName),
		Locale:      locale,
	}
	b.attachImage(&m, image, ogTitle, ogDescription)
	m.JSONLD = []string{
		JSON(WebSite(m.OpenGraph.SiteName, b.siteBase(), b.siteBase()+"/search?q=")),
		JSON(Organization(m.OpenGraph.SiteName, b.siteBase(), "")),
	}
	return m
}

// Category builds metadata for a category listing. The category's own seo block is layered
// over indexPage.seo field by field.
func (b *Builder) Category(pc PageContext, page CategoryPage) Meta {
	locale := b.locale(pc.Locale)
	now := b.cfg.Now()
	route := "/" + strings.Trim(page.RouteSegment, "/")
	cat := "indexPage." + page.MessageKey + ".seo"
	idx := "indexPage.seo"
	layered := func(field string) string {
		return firstNonEmpty(b.msg(locale, cat+"."+field), b.msg(locale, idx+"."+field))
	}

	title := format.FillYear(firstNonEmpty(layered("title"), page.DefaultTitle), now)
	ogTitle := format.FillYear(firstNonEmpty(layered("openGraph.title"), layered("title"), page.DefaultTitle), now)
	description := layered("description")
	ogDescription := firstNonEmpty(layered("openGraph.description"), description)

	base := b.msg(locale, cat+".metadataBase")
	if base == "" {
		base = b.msg(locale, idx+".metadataBase")
	}

	m := Meta{
		MetadataBase: b.metadataBase(base),
		Title:        title,
		Description:  description,
		Alternates:   b.alternates(locale, route),
		Robots:       &Robots{Index: true, Follow: true},
	}
	m.OpenGraph = OpenGraph{
		Type:        firstNonEmpty(layered("openGraph.type"), defaultOGType),
		Title:       ogTitle,
		Description: ogDescription,
		URL:         b.pageURL(pc, locale, route),
		SiteName:    firstNonEmpty(layered("openGraph.siteName"), b.cfg.SiteName),
		Locale:      locale,
	}
	b.attachImage(&m, b.topImage(page.Category), ogTitle, ogDescription)
	m.JSONLD = []string{JSON(BreadcrumbList([]BreadcrumbItem{
		{Name: b.cfg.SiteName, Item: b.siteBase() + "/"},
		{Name: title, Item: m.OpenGraph.URL},
	}))}
	return m
}

// Search builds metadata for the search page. A non-empty query is capitalised and
// templated into the title, description and keywords.
func (b *Builder) Search(pc PageContext, query string) Meta {
	locale := b.locale(pc.Locale)
	query = strings.TrimSpace(query)

	title := firstNonEmpty(b.msg(locale, "searchPage.seo.title"), "Search - Find the Best Adult Chat Sites")
	description := firstNonEmpty(b.msg(locale, "searchPage.seo.description"),
		"Search and discover the top adult chat sites, cam sites, and live sex chat platforms.")
	keywords := firstNonEmpty(b.msg(locale, "searchPage.seo.keywords"),
		"search adult chat, find cam sites, adult sites search")

	if query != "" {
		q := format.Capitalize(query, locale)
		title = fillQuery(firstNonEmpty(b.msg(locale, "searchPage.seo.queryTitle"),
			"{query} Online Chatroom | {query} Video Chat With Online Girls, Live Cam Chat!"), q)
		description = fillQuery(firstNonEmpty(b.msg(locale, "searchPage.seo.queryDescription"),
			"Welcome to {query} Camchat, Random Video Chat With Real {query} Girls. Start Datings & Flirting With {query} Beauties Over Webcam {query}."), q)
		keywords = q + ", " + keywords
	}

	pageURL := b.pageURL(pc, locale, "/search")
	if query != "" {
		pageURL += "?q=" + encodeURIComponent(query)
	}

	m := Meta{
		MetadataBase: b.cfg.SiteURL,
		Title:        title,
		Description:  description,
		Keywords:     keywords,
		Robots:       &Robots{Index: true, Follow: true},
	}
	m.OpenGraph = OpenGraph{
		Type:        defaultOGType,
		Title:       title,
		Description: description,
		URL:         pageURL,
		SiteName:    b.cfg.SiteName,
		Locale:      locale,
	}
	b.attachImage(&m, b.topImage(HomeCategory), title, description)
	return m
}

// Site builds metadata for a single site review page.
func (b *Builder) Site(pc PageContext, page SitePage) Meta {
	locale := b.locale(pc.Locale)
	slug := strings.TrimSpace(page.Slug)
	prefix := "singlePageBySlug." + slug

	title := firstNonEmpty(b.msg(locale, prefix+".metadata.title"), page.Title, slug)
	description := b.msg(locale, prefix+".metadata.description")
	if description == "" {
		description = b.plainText(firstNonEmpty(
			b.msg(locale, prefix+".excerpt"),
			b.msg(locale, prefix+".overview"),
			page.Summary,
		))
	}
	if description == "" {
		description = "Discover " + title + " - Premium adult cam site with live performers and interactive chat."
	}
	category := firstNonEmpty(b.msg(locale, prefix+".metadata.category"), "adult")

	capitalized := format.Capitalize(title, locale)
	fullTitle := capitalized + " - #1 Video Chat with Girls | Official Site | " + strconv.Itoa(b.cfg.Now().Year())
	route := "/site/" + slug

	m := Meta{
		MetadataBase: b.cfg.SiteURL,
		Title:        fullTitle,
		Description:  description,
		Keywords:     strings.Join([]string{capitalized, title, "adult cam", "live chat", "cam site", category}, ", "),
		Alternates:   b.alternates(locale, route),
		Robots:       &Robots{Index: true, Follow: true},
	}
	m.OpenGraph = OpenGraph{
		Type:        defaultOGType,
		Title:       fullTitle,
		Description: description,
		URL:         b.pageURL(pc, locale, route),
		SiteName:    b.cfg.SiteName,
		Locale:      locale,
	}
	b.attachImage(&m, b.topImage(HomeCategory), fullTitle, description)
	m.JSONLD = []string{JSON(BreadcrumbList([]BreadcrumbItem{
		{Name: b.cfg.SiteName, Item: b.siteBase() + "/"},
		{Name: "Sites", Item: b.siteBase() + "/site"},
		{Name: capitalized, Item: m.OpenGraph.URL},
	}))}
	return m
}

// SiteIndex builds metadata for the list of all sites.
func (b *Builder) SiteIndex(pc PageContext) Meta {
	locale := b.locale(pc.Locale)
	m := b.static(pc, locale, "/site", "sitesPage.seo",
		"Sites",
		"Browse all top-rated live chat and cam sites reviewed for your best online experience.")
	m.Keywords = firstNonEmpty(b.msg(locale, "sitesPage.seo.keywords"), "Chat Sites, Cam Sites, Top Chat Platforms")
	m.Robots = &Robots{Index: true, Follow: true}
	return m
}

// Login builds metadata for the login shell. It carries neither robots nor alternates.
func (b *Builder) Login(pc PageContext) Meta {
	locale := b.locale(pc.Locale)
	return b.static(pc, locale, "/login", "loginPage.seo",
		"Login - Top Chats",
		"Login to access premium features and connect with live cam models.")
}

// Signup builds metadata for the sign-up shell. It carries neither robots nor alternates.
func (b *Builder) Signup(pc PageContext) Meta {
	locale := b.locale(pc.Locale)
	return b.static(pc, locale, "/signup", "signupPage.seo",
		"Sign Up - Top Chats",
		"Create an account to access premium features and connect with live cam models.")
}

func (b *Builder) static(pc PageContext, locale, route, key, title, description string) Meta {
	title = firstNonEmpty(b.msg(locale, key+".title"), title)
	description = firstNonEmpty(b.msg(locale, key+".description"), description)
	m := Meta{
		MetadataBase: b.cfg.SiteURL,
		Title:        title,
		Description:  description,
	}
	m.OpenGraph = OpenGraph{
		Type:        defaultOGType,
		Title:       title,
		Description: description,
		URL:         b.pageURL(pc, locale, route),
		SiteName:    b.cfg.SiteName,
		Locale:      locale,
	}
	b.attachImage(&m, b.topImage(HomeCategory), title, description)
	return m
}

// attachImage sets og:image and twitter fields. An empty image URL leaves the image lists
// empty rather than emitting a broken tag.
func (b *Builder) attachImage(m *Meta, image, alt, description string) {
	m.Twitter = Twitter{
		Card:        twitterCard,
		Title:       alt,
		Description: description,
	}
	if image == "" {
		return
	}
	m.OpenGraph.Images = []Image{{URL: image, Width: ImageWidth, Height: ImageHeight, Alt: alt}}
	m.Twitter.Images = []string{image}
}

func (b *Builder) topImage(category string) string {
	if b.images == nil {
		return ""
	}
	return b.images.TopImageURL(category, b.cfg.ImageURL)
}

func (b *Builder) locale(raw string) string {
	if b.messages == nil {
		if raw == "" {
			return b.cfg.DefaultLocale
		}
		return raw
	}
	return b.messages.Safe(raw)
}

func (b *Builder) msg(locale, key string) string {
	if b.messages == nil {
		return ""
	}
	v, _ := b.messages.Lookup(locale, key)
	return strings.TrimSpace(v)
}

func (b *Builder) plainText(s string) string {
	if s == "" {
		return ""
	}
	// StrictPolicy leaves entity-escaped text; templates escape again on output.
	return strings.Join(strings.Fields(html.UnescapeString(b.strip.Sanitize(s))), " ")
}

func (b *Builder) siteBase() string {
	return strings.TrimRight(b.cfg.SiteURL, "/")
}

// localizedPath returns route for the default locale and /<locale><route> otherwise. The
// empty route is the landing page.
func (b *Builder) localizedPath(locale, route string) string {
	if locale == b.cfg.DefaultLocale {
		if route == "" {
			return "/"
		}
		return route
	}
	return "/" + locale + route
}

func (b *Builder) pageURL(pc PageContext, locale, route string) string {
	if pc.Path != "" && pc.Path != "/" {
		return b.siteBase() + pc.Path
	}
	p := b.localizedPath(locale, route)
	if p == "/" {
		return b.siteBase()
	}
	return b.siteBase() + p
}

var deploymentSuffix = regexp.MustCompile(`/e-01(/|$)`)

// alternates lists one URL per supported locale. The alternates origin drops the /e-01
// deployment segment the site is sometimes mounted under.
func (b *Builder) alternates(locale, route string) *Alternates {
	origin := deploymentSuffix.ReplaceAllString(b.cfg.SiteURL, "$1")
	origin = strings.TrimRight(origin, "/")
	langs := make([]Alternate, 0, len(b.cfg.Locales))
	for _, loc := range b.cfg.Locales {
		path := "/" + loc + route
		langs = append(langs, Alternate{Hreflang: loc, Href: origin + path})
	}
	return &Alternates{
		Canonical: b.localizedPath(locale, route),
		Languages: langs,
	}
}

// metadataBase resolves a configured metadata base: absolute values are used as-is, relative
// values are appended to the site URL and empty values yield the site URL.
func (b *Builder) metadataBase(v string) string {
	if v == "" {
		return b.cfg.SiteURL
	}
	if ogimage.IsAbsolute(v) {
		return v
	}
	return b.cfg.SiteURL + v
}

func fillQuery(tmpl, q string) string {
	return strings.ReplaceAll(tmpl, "{query}", q)
}

// encodeURIComponent escapes like the browser function of the same name: spaces become %20.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
