package catalog

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func slugs(sites []SiteRecord) []string {
	out := make([]string, 0, len(sites))
	for _, s := range sites {
		out = append(out, s.Slug)
	}
	return out
}

func TestParsePerformers(t *testing.T) {
	t.Parallel()

	cases := map[string]int64{
		"1,200+":        1200,
		"":              0,
		"  50 ":         50,
		"garbage":       0,
		"+":             0,
		"12k":           12,
		"1 000 000":     1000000,
		"-5":            -5,
		"99999999999999999999": math.MaxInt64,
	}
	for in, want := range cases {
		assert.Equalf(t, want, ParsePerformers(in), "ParsePerformers(%q)", in)
	}
}

func TestRankEndToEndScenario(t *testing.T) {
	t.Parallel()

	c := New([]SiteRecord{
		{Slug: "first", Rating: 4, Performers: "100", Categories: []string{"bbw"}, Hero: "/images/first.jpg"},
		{Slug: "second", Rating: 5, Performers: "10", Categories: []string{"bbw"}, Hero: "/images/second.jpg"},
		{Slug: "third", Rating: 5, Performers: "50", Categories: []string{"bbw"}, Hero: "/images/third.jpg"},
	})

	got := c.Rank(strPtr("bbw"))
	require.Equal(t, []string{"third", "second", "first"}, slugs(got))
}

func TestRankTopRatingOverridesHigherNumbers(t *testing.T) {
	t.Parallel()

	c := New([]SiteRecord{
		{Slug: "seven", Rating: 7},
		{Slug: "five", Rating: 5},
		{Slug: "six", Rating: 6},
		{Slug: "four-half", Rating: 4.5},
	})

	require.Equal(t, []string{"five", "seven", "six", "four-half"}, slugs(c.Rank(nil)))
}

func TestRankTieBreakKeepsCatalogOrder(t *testing.T) {
	t.Parallel()

	c := New([]SiteRecord{
		{Slug: "a", Rating: 4, Performers: "1,000", Categories: []string{"x"}},
		{Slug: "b", Rating: 3, Categories: []string{"y"}},
		{Slug: "c", Rating: 4, Performers: "1000+", Categories: []string{"x"}},
		{Slug: "d", Rating: 4, Performers: " 1000 ", Categories: []string{"x"}},
	})

	require.Equal(t, []string{"a", "c", "d"}, slugs(c.Rank(strPtr("x"))))
	require.Equal(t, []string{"a", "c", "d", "b"}, slugs(c.Rank(nil)))
}

func TestRankMissingRatingIsZero(t *testing.T) {
	t.Parallel()

	c, err := Parse([]byte(`[
		{"slug": "none", "performers": "900"},
		{"slug": "null", "rating": null, "performers": "10"},
		{"slug": "text", "rating": "abc", "performers": "20"},
		{"slug": "one", "rating": 1}
	]`), "json")
	require.NoError(t, err)

	require.Equal(t, []string{"one", "none", "text", "null"}, slugs(c.Rank(nil)))
}

func TestRankCategoryFilter(t *testing.T) {
	t.Parallel()

	c := New([]SiteRecord{
		{Slug: "a", Rating: 3, Categories: []string{"bbw", "top10chat"}},
		{Slug: "b", Rating: 4, Categories: []string{"top10chat"}},
		{Slug: "c", Rating: 2, Categories: []string{"bbw"}},
		{Slug: "d", Rating: 5},
	})

	bbw := c.Rank(strPtr("bbw"))
	require.Equal(t, []string{"a", "c"}, slugs(bbw))
	for _, s := range bbw {
		assert.Contains(t, s.Categories, "bbw")
	}
	require.Len(t, c.Rank(nil), 4)
	require.Empty(t, c.Rank(strPtr("missing")))
	require.NotNil(t, c.Rank(strPtr("missing")))
	require.Equal(t, slugs(c.Rank(nil)), slugs(c.RankCategory("")))
}

func TestRankIsDeterministicAndDoesNotMutateCatalog(t *testing.T) {
	t.Parallel()

	records := []SiteRecord{
		{Slug: "a", Rating: 2, Performers: "5"},
		{Slug: "b", Rating: 5, Performers: "1"},
		{Slug: "c", Rating: 2, Performers: "7"},
	}
	c := New(records)
	first := slugs(c.Rank(nil))
	for i := 0; i < 10; i++ {
		require.Equal(t, first, slugs(c.Rank(nil)))
	}
	require.Equal(t, []string{"a", "b", "c"}, slugs(c.Sites()))

	ranked := c.Rank(nil)
	ranked[0].Categories = append(ranked[0].Categories, "mutated")
	ranked[0].Title = "mutated"
	top, ok := c.Top(nil)
	require.True(t, ok)
	require.Empty(t, top.Title)
	require.Empty(t, top.Categories)
}

func TestCompareRankedIsTransitive(t *testing.T) {
	t.Parallel()

	ratings := []float64{0, 1, 3, 4.5, 5, 6, 7}
	performers := []int64{0, 10, 50}
	var sites []rankedSite
	idx := 0
	for _, r := range ratings {
		for _, p := range performers {
			sites = append(sites, rankedSite{index: idx, rating: r, performers: p})
			idx++
		}
	}

	for _, a := range sites {
		require.Zero(t, compareRanked(a, a))
		for _, b := range sites {
			require.Equal(t, -compareRanked(b, a), compareRanked(a, b), "antisymmetry %v %v", a, b)
			for _, c := range sites {
				if compareRanked(a, b) < 0 && compareRanked(b, c) < 0 {
					require.Negative(t, compareRanked(a, c), fmt.Sprintf("transitivity %v %v %v", a, b, c))
				}
			}
		}
	}
}

func TestTwoTopRatedSitesResolveByPerformers(t *testing.T) {
	t.Parallel()

	a := rankedSite{index: 0, rating: 5, performers: 10}
	b := rankedSite{index: 1, rating: 5, performers: 50}
	require.Positive(t, compareRanked(a, b))
	require.Negative(t, compareRanked(b, a))
}

func TestNilCatalogIsEmpty(t *testing.T) {
	t.Parallel()

	var c *Catalog
	require.Empty(t, c.Rank(nil))
	require.Zero(t, c.Len())
	_, ok := c.Top(strPtr("bbw"))
	require.False(t, ok)
	_, err := c.BySlug("x")
	require.ErrorIs(t, err, ErrNotFound)
}
