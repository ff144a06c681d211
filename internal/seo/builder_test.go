package seo

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x-chats.com/web/internal/catalog"
	"x-chats.com/web/internal/i18n"
	"x-chats.com/web/internal/ogimage"
)

var bbwPage = CategoryPage{RouteSegment: "bbwchat", MessageKey: "bbwChat", Category: "bbw", DefaultTitle: "BBW Chat"}

func newTestBuilder(t *testing.T, siteURL string, dicts map[string]map[string]string) *Builder {
	t.Helper()
	c := catalog.New([]catalog.SiteRecord{
		{Slug: "alpha", Rating: 4, Categories: []string{"top10chat"}, Hero: "/images/alpha.jpg"},
		{Slug: "beta", Rating: 5, Categories: []string{"top10chat", "bbw"}, Hero: "/images/beta.jpg"},
		{Slug: "gamma", Rating: 5, Performers: "2,000", Categories: []string{"bbw"}, Hero: "https://cdn.example.com/gamma.jpg"},
	})
	if dicts == nil {
		dicts = map[string]map[string]string{"en": {}, "de": {}}
	}
	return NewBuilder(Config{
		SiteURL:  siteURL,
		ImageURL: "https://img.example.com/",
		Locales:  []string{"de", "en"},
		Now:      func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) },
	}, ogimage.NewResolver(c), i18n.New("en", dicts))
}

func TestHomeUsesMessagesAndYear(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(t, "https://x-chats.com", map[string]map[string]string{
		"en": {
			"indexPage.seo.title":                 "Best Chat Sites {year}",
			"indexPage.seo.description":           "Ranked chat sites.",
			"indexPage.seo.openGraph.siteName":    "X Chats",
			"indexPage.seo.openGraph.description": "OG description",
		},
		"de": {},
	})

	m := b.Home(PageContext{Locale: "en"})
	require.Equal(t, "Best Chat Sites 2026", m.Title)
	require.Equal(t, "Best Chat Sites 2026", m.OpenGraph.Title)
	require.Equal(t, "Ranked chat sites.", m.Description)
	require.Equal(t, "OG description", m.OpenGraph.Description)
	require.Equal(t, "OG description", m.Twitter.Description)
	require.Equal(t, "X Chats", m.OpenGraph.SiteName)
	require.Equal(t, "https://x-chats.com", m.OpenGraph.URL)
	require.Equal(t, "https://x-chats.com", m.MetadataBase)
	require.Equal(t, "/", m.Alternates.Canonical)
	require.Equal(t, "https://x-chats.com/", m.CanonicalURL())
	require.Equal(t, []Alternate{
		{Hreflang: "de", Href: "https://x-chats.com/de"},
		{Hreflang: "en", Href: "https://x-chats.com/en"},
	}, m.Alternates.Languages)
	require.Equal(t, "index, follow", m.Robots.String())
	require.Equal(t, "summary_large_image", m.Twitter.Card)

	require.Len(t, m.OpenGraph.Images, 1)
	img := m.OpenGraph.Images[0]
	// beta is the only top10chat site rated 5.
	require.Equal(t, "https://img.example.com/images/beta.jpg", img.URL)
	require.Equal(t, 1200, img.Width)
	require.Equal(t, 630, img.Height)
	require.Equal(t, m.OpenGraph.Title, img.Alt)
	require.Equal(t, []string{img.URL}, m.Twitter.Images)
	require.Len(t, m.JSONLD, 2)
	require.Contains(t, m.JSONLD[0], `"@type":"WebSite"`)
}

func TestHomeFallbacksForUnknownLocale(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(t, "https://x-chats.com/", nil)
	m := b.Home(PageContext{Locale: "xx"})
	require.Equal(t, "Top 10 Chat Sites", m.Title)
	require.Equal(t, "en", m.OpenGraph.Locale)
	require.Equal(t, "Top Chats", m.OpenGraph.SiteName)
	require.Equal(t, "website", m.OpenGraph.Type)

	de := b.Home(PageContext{Locale: "de"})
	require.Equal(t, "/de", de.Alternates.Canonical)
	require.Equal(t, "https://x-chats.com/de", de.OpenGraph.URL)
}

func TestHomeOpenGraphImageOverride(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]string{
		"/static/og.png":                "https://img.example.com/static/og.png",
		"static/og.png":                 "https://img.example.com/static/og.png",
		"https://cdn.example.com/og.png": "https://cdn.example.com/og.png",
	} {
		b := newTestBuilder(t, "https://x-chats.com", map[string]map[string]string{
			"en": {"indexPage.seo.openGraph.image": raw},
		})
		m := b.Home(PageContext{Locale: "en"})
		require.Equal(t, want, m.OpenGraph.Images[0].URL, raw)
	}
}

func TestMetadataBaseResolution(t *testing.T) {
	t.Parallel()

	rel := newTestBuilder(t, "https://x-chats.com", map[string]map[string]string{
		"en": {"indexPage.seo.metadataBase": "/e-01"},
	})
	require.Equal(t, "https://x-chats.com/e-01", rel.Home(PageContext{Locale: "en"}).MetadataBase)

	abs := newTestBuilder(t, "https://x-chats.com", map[string]map[string]string{
		"en": {"indexPage.seo.metadataBase": "https://other.example.com"},
	})
	require.Equal(t, "https://other.example.com", abs.Home(PageContext{Locale: "en"}).MetadataBase)
}

func TestCategoryLayersOverIndexSEO(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(t, "https://x-chats.com/e-01/", map[string]map[string]string{
		"en": {
			"indexPage.seo.title":                     "Index {year}",
			"indexPage.seo.description":               "Index description",
			"indexPage.seo.openGraph.siteName":        "Index Site",
			"indexPage.bbwChat.seo.title":             "BBW Cams {year}",
			"indexPage.bbwChat.seo.openGraph.title":   "BBW OG",
			"indexPage.bbwChat.seo.openGraph.siteName": "",
		},
		"de": {},
	})

	m := b.Category(PageContext{Locale: "en"}, bbwPage)
	require.Equal(t, "BBW Cams 2026", m.Title)
	require.Equal(t, "BBW OG", m.OpenGraph.Title)
	require.Equal(t, "Index description", m.Description)
	require.Equal(t, "Index Site", m.OpenGraph.SiteName)
	require.Equal(t, "/bbwchat", m.Alternates.Canonical)
	require.Equal(t, "https://x-chats.com/e-01/bbwchat", m.OpenGraph.URL)
	require.Equal(t, "https://x-chats.com/de/bbwchat", m.Alternates.Languages[0].Href)
	// gamma: rating 5 with more performers than beta, absolute hero kept as-is.
	require.Equal(t, "https://cdn.example.com/gamma.jpg", m.OpenGraph.Images[0].URL)

	de := b.Category(PageContext{Locale: "de", Path: "/de/bbwchat"}, bbwPage)
	require.Equal(t, "BBW Chat", de.Title)
	require.Equal(t, "/de/bbwchat", de.Alternates.Canonical)
	require.Equal(t, "https://x-chats.com/e-01/de/bbwchat", de.OpenGraph.URL)
}

func TestCategoryWithoutSitesUsesPlaceholder(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(t, "https://x-chats.com", nil)
	m := b.Category(PageContext{Locale: "en"}, CategoryPage{RouteSegment: "latinachat", MessageKey: "latinaChat", Category: "latina", DefaultTitle: "Latina Chat"})
	require.Equal(t, "https://img.example.com/images/og-image.jpg", m.OpenGraph.Images[0].URL)
}

func TestSearchQueryTemplating(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(t, "https://x-chats.com", nil)

	empty := b.Search(PageContext{Locale: "en"}, "   ")
	require.Equal(t, "Search - Find the Best Adult Chat Sites", empty.Title)
	require.Equal(t, "https://x-chats.com/search", empty.OpenGraph.URL)
	require.Nil(t, empty.Alternates)

	m := b.Search(PageContext{Locale: "de"}, " big WOMEN ")
	require.Equal(t, "Big Women Online Chatroom | Big Women Video Chat With Online Girls, Live Cam Chat!", m.Title)
	require.True(t, strings.HasPrefix(m.Description, "Welcome to Big Women Camchat"))
	require.Equal(t, "Big Women, search adult chat, find cam sites, adult sites search", m.Keywords)
	require.Equal(t, "https://x-chats.com/de/search?q=big%20WOMEN", m.OpenGraph.URL)
	require.Equal(t, m.Title, m.Twitter.Title)
	require.Equal(t, "https://img.example.com/images/beta.jpg", m.Twitter.Images[0])

	withPath := b.Search(PageContext{Locale: "en", Path: "/search"}, "asian")
	require.Equal(t, "https://x-chats.com/search?q=asian", withPath.OpenGraph.URL)
}

func TestSiteFallbackChain(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(t, "https://x-chats.com", map[string]map[string]string{
		"en": {
			"singlePageBySlug.rabbitscams.metadata.title":    "rabbits cams",
			"singlePageBySlug.rabbitscams.metadata.category": "bbw",
			"singlePageBySlug.rabbitscams.excerpt":           "<p>Hop <b>in</b>   now</p>",
			"singlePageBySlug.other.overview":                "Overview text",
		},
		"de": {},
	})

	m := b.Site(PageContext{Locale: "en"}, SitePage{Slug: "rabbitscams"})
	require.Equal(t, "Rabbits Cams - #1 Video Chat with Girls | Official Site | 2026", m.Title)
	require.Equal(t, "Hop in now", m.Description)
	require.Equal(t, "Rabbits Cams, rabbits cams, adult cam, live chat, cam site, bbw", m.Keywords)
	require.Equal(t, "/site/rabbitscams", m.Alternates.Canonical)
	require.Equal(t, "https://x-chats.com/site/rabbitscams", m.OpenGraph.URL)
	require.Len(t, m.JSONLD, 1)

	other := b.Site(PageContext{Locale: "en"}, SitePage{Slug: "other"})
	require.Equal(t, "Overview text", other.Description)
	require.True(t, strings.HasPrefix(other.Title, "Other - "))

	fromCatalog := b.Site(PageContext{Locale: "de"}, SitePage{Slug: "zeta", Title: "Zeta Live", Summary: "Zeta summary"})
	require.True(t, strings.HasPrefix(fromCatalog.Title, "Zeta Live - "))
	require.Equal(t, "Zeta summary", fromCatalog.Description)
	require.Equal(t, "/de/site/zeta", fromCatalog.Alternates.Canonical)

	bare := b.Site(PageContext{Locale: "en"}, SitePage{Slug: "nobody"})
	require.Equal(t, "Discover nobody - Premium adult cam site with live performers and interactive chat.", bare.Description)
	assert.Contains(t, bare.Keywords, "adult")
}

func TestStaticPages(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(t, "https://x-chats.com", nil)

	login := b.Login(PageContext{Locale: "en"})
	require.Equal(t, "Login - Top Chats", login.Title)
	require.Nil(t, login.Robots)
	require.Nil(t, login.Alternates)
	require.Equal(t, "https://x-chats.com/login", login.OpenGraph.URL)

	signup := b.Signup(PageContext{Locale: "de"})
	require.Equal(t, "Sign Up - Top Chats", signup.Title)
	require.Equal(t, "https://x-chats.com/de/signup", signup.OpenGraph.URL)
	require.Nil(t, signup.Robots)

	sites := b.SiteIndex(PageContext{Locale: "en"})
	require.Equal(t, "Sites", sites.Title)
	require.Equal(t, "Chat Sites, Cam Sites, Top Chat Platforms", sites.Keywords)
	require.NotNil(t, sites.Robots)
	require.Equal(t, "https://img.example.com/images/beta.jpg", sites.OpenGraph.Images[0].URL)
}

func TestEmptyImageOmitsTags(t *testing.T) {
	t.Parallel()

	empty := catalog.New(nil)
	b := NewBuilder(Config{SiteURL: "https://x-chats.com"},
		ogimage.NewResolver(empty, ogimage.WithPolicy(ogimage.FallbackOverall)),
		i18n.New("en", map[string]map[string]string{"en": {}}))
	m := b.Home(PageContext{Locale: "en"})
	require.Empty(t, m.OpenGraph.Images)
	require.Empty(t, m.Twitter.Images)
	require.Equal(t, "summary_large_image", m.Twitter.Card)
}
