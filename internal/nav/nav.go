package nav

import (
	"path"
	"strings"
)

// Item represents a top-level navigation item.
type Item struct {
	Path     string // unprefixed, e.g. "/bbwchat"
	LabelKey string // i18n key, e.g. "nav.bbwchat"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Active   bool
}

// Crumb represents a breadcrumb entry. If LabelKey is empty, use Label.
type Crumb struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// LanguageLink points at the current page in another locale.
type LanguageLink struct {
	Code   string
	Href   string
	Active bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Path: "/", LabelKey: "nav.home"},
	{Path: "/bbwchat", LabelKey: "nav.bbwchat"},
	{Path: "/site", LabelKey: "nav.sites"},
	{Path: "/search", LabelKey: "nav.search"},
}

// Prefix returns the path prefix for locale: empty for the default locale, "/<locale>" otherwise.
func Prefix(locale, defaultLocale string) string {
	if locale == "" || locale == defaultLocale {
		return ""
	}
	return "/" + locale
}

// Localize prefixes an unprefixed path with prefix.
func Localize(prefix, p string) string {
	if p == "" || p == "/" {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	return prefix + p
}

// Build renders navigation items with active state given the current unprefixed path.
func Build(prefix, currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:     Localize(prefix, it.Path),
			LabelKey: it.LabelKey,
			Active:   isActive(it.Path, currentPath),
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// Breadcrumbs builds breadcrumb entries from the current unprefixed path.
// Known top-level sections use nav label keys; deeper segments use leaf when given, otherwise
// a prettified segment.
func Breadcrumbs(prefix, currentPath, leaf string) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: Localize(prefix, "/"), LabelKey: "nav.home", Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	clean := path.Clean("/" + strings.TrimPrefix(currentPath, "/"))
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")

	top := "/" + parts[0]
	labelKey := ""
	for _, it := range Main {
		if it.Path == top {
			labelKey = it.LabelKey
			break
		}
	}
	crumbs = append(crumbs, Crumb{
		Href:     Localize(prefix, top),
		LabelKey: labelKey,
		Label:    titleFromSegment(parts[0]),
		Active:   len(parts) == 1,
	})

	href := top
	for i := 1; i < len(parts); i++ {
		href = href + "/" + parts[i]
		label := titleFromSegment(parts[i])
		last := i == len(parts)-1
		if last && leaf != "" {
			label = leaf
		}
		crumbs = append(crumbs, Crumb{Href: Localize(prefix, href), Label: label, Active: last})
	}
	return crumbs
}

// Languages links currentPath in every locale, default locale unprefixed.
func Languages(locales []string, current, defaultLocale, currentPath string) []LanguageLink {
	out := make([]LanguageLink, 0, len(locales))
	for _, l := range locales {
		out = append(out, LanguageLink{
			Code:   l,
			Href:   Localize(Prefix(l, defaultLocale), currentPath),
			Active: l == current,
		})
	}
	return out
}

func titleFromSegment(seg string) string {
	if seg == "" {
		return seg
	}
	s := strings.ReplaceAll(seg, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] -= 'a' - 'A'
	}
	return string(r)
}
