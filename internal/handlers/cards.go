package handlers

import (
	"x-chats.com/web/internal/catalog"
	"x-chats.com/web/internal/format"
	"x-chats.com/web/internal/nav"
	"x-chats.com/web/internal/ogimage"
	"x-chats.com/web/internal/seo"
)

// Card is one ranked site as rendered in a grid.
type Card struct {
	Rank       int
	Slug       string
	Title      string
	Href       string // internal review page
	VisitURL   string // external site
	Hero       string
	Logo       string
	Summary    string
	Performers string
	Rating     string
	TopRated   bool
	Categories []string
}

// BuildCards converts ranked sites to cards. Ranks start at 1 and follow the slice order;
// image references are resolved against imageBase.
func BuildCards(sites []catalog.SiteRecord, prefix, imageBase string) []Card {
	cards := make([]Card, 0, len(sites))
	for i, s := range sites {
		c := Card{
			Rank:       i + 1,
			Slug:       s.Slug,
			Title:      s.Title,
			Href:       nav.Localize(prefix, "/site/"+s.Slug),
			VisitURL:   s.URL,
			Summary:    s.Summary,
			Performers: format.FmtPerformers(s.PerformerCount(), s.Performers),
			Rating:     format.FmtRating(s.Score()),
			TopRated:   s.Score() == 5,
			Categories: append([]string(nil), s.Categories...),
		}
		if c.Title == "" {
			c.Title = s.Slug
		}
		if s.Hero != "" {
			c.Hero = ogimage.Absolute(s.Hero, imageBase)
		}
		if s.Logo != "" {
			c.Logo = ogimage.Absolute(s.Logo, imageBase)
		}
		cards = append(cards, c)
	}
	return cards
}

// ItemListJSONLD renders cards as a schema.org ItemList.
func ItemListJSONLD(name, siteURL string, cards []Card) string {
	items := make([]seo.RankedItem, 0, len(cards))
	for _, c := range cards {
		items = append(items, seo.RankedItem{
			Name:  c.Title,
			URL:   siteURL + c.Href,
			Image: c.Hero,
		})
	}
	return seo.JSON(seo.ItemList(name, items))
}
