package seo

import "strings"

// Image is an Open Graph image entry.
type Image struct {
	URL    string
	Width  int
	Height int
	Alt    string
}

type OpenGraph struct {
	Type        string
	Title       string
	Description string
	URL         string
	SiteName    string
	Locale      string
	Images      []Image
}

type Twitter struct {
	Card        string
	Title       string
	Description string
	Images      []string
}

// Alternate is a hreflang link.
type Alternate struct {
	Hreflang string
	Href     string
}

type Alternates struct {
	// Canonical is a root-relative path resolved against Meta.MetadataBase.
	Canonical string
	Languages []Alternate
}

type Robots struct {
	Index  bool
	Follow bool
}

// String renders the robots meta content.
func (r Robots) String() string {
	index, follow := "noindex", "nofollow"
	if r.Index {
		index = "index"
	}
	if r.Follow {
		follow = "follow"
	}
	return index + ", " + follow
}

// Meta is everything a page emits into <head>. Nil Alternates/Robots are omitted.
type Meta struct {
	MetadataBase string
	Title        string
	Description  string
	Keywords     string
	OpenGraph    OpenGraph
	Twitter      Twitter
	Alternates   *Alternates
	Robots       *Robots
	JSONLD       []string
}

// CanonicalURL resolves the canonical path against MetadataBase.
func (m Meta) CanonicalURL() string {
	if m.Alternates == nil || m.Alternates.Canonical == "" {
		return ""
	}
	c := m.Alternates.Canonical
	if strings.HasPrefix(c, "http://") || strings.HasPrefix(c, "https://") || m.MetadataBase == "" {
		return c
	}
	base := strings.TrimRight(m.MetadataBase, "/")
	if c == "/" {
		return base + "/"
	}
	return base + c
}
