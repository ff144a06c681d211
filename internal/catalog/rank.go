package catalog

import (
	"cmp"
	"errors"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// topRating is the prestige tier: a site rated exactly 5 outranks any differently rated site.
const topRating = 5

type rankedSite struct {
	site       SiteRecord
	index      int
	rating     float64
	performers int64
}

// Rank orders the catalog best-first. When category is non-nil only sites tagged with it are
// kept. Sites are ordered by rating (a rating of exactly 5 first, then higher ratings), then by
// performer count, then by their position in the unfiltered catalog. The catalog itself is
// never reordered; the result is a fresh slice and is empty, not nil, when nothing matches.
func (c *Catalog) Rank(category *string) []SiteRecord {
	if c == nil {
		return []SiteRecord{}
	}
	candidates := make([]rankedSite, 0, len(c.sites))
	for i, s := range c.sites {
		if category != nil && !s.InCategory(*category) {
			continue
		}
		candidates = append(candidates, rankedSite{
			site:       s,
			index:      i,
			rating:     s.Score(),
			performers: s.PerformerCount(),
		})
	}
	slices.SortFunc(candidates, compareRanked)

	out := make([]SiteRecord, 0, len(candidates))
	for _, r := range candidates {
		out = append(out, r.site.clone())
	}
	return out
}

// RankCategory is Rank for a single category; an empty category ranks the whole catalog.
func (c *Catalog) RankCategory(category string) []SiteRecord {
	if category == "" {
		return c.Rank(nil)
	}
	return c.Rank(&category)
}

// Top returns the best site for category, or false when no site matches.
func (c *Catalog) Top(category *string) (SiteRecord, bool) {
	ranked := c.Rank(category)
	if len(ranked) == 0 {
		return SiteRecord{}, false
	}
	return ranked[0], true
}

// compareRanked is a strict total order: it is equivalent to sorting by the key
// (rating == 5 desc, rating desc, performers desc, index asc).
func compareRanked(a, b rankedSite) int {
	if a.rating != b.rating {
		if a.rating == topRating {
			return -1
		}
		if b.rating == topRating {
			return 1
		}
		if a.rating > b.rating {
			return -1
		}
		return 1
	}
	if a.performers != b.performers {
		if a.performers > b.performers {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.index, b.index)
}

// ParsePerformers extracts a performer count from strings such as "1,200+" or " 50 ".
// Commas, plus signs and whitespace are dropped and the leading base-10 integer of what
// remains is returned. Missing or unparseable input yields 0; values too large for int64
// saturate.
func ParsePerformers(s string) int64 {
	if s == "" {
		return 0
	}
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || r == '+' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	end := 0
	if end < len(cleaned) && cleaned[end] == '-' {
		end++
	}
	digitsStart := end
	for end < len(cleaned) && cleaned[end] >= '0' && cleaned[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}
	n, err := strconv.ParseInt(cleaned[:end], 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return n
}
