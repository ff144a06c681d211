package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a site cannot be located in the catalog.
var ErrNotFound = errors.New("catalog: not found")

// SiteRecord is a single reviewed chat site as it appears in the static dataset.
type SiteRecord struct {
	ID         string   `json:"id" yaml:"id"`
	Slug       string   `json:"slug" yaml:"slug"`
	Title      string   `json:"title" yaml:"title"`
	Categories []string `json:"categories" yaml:"categories"`
	Hero       string   `json:"hero,omitempty" yaml:"hero"`
	Logo       string   `json:"logo,omitempty" yaml:"logo"`
	URL        string   `json:"url,omitempty" yaml:"url"`
	Summary    string   `json:"summary,omitempty" yaml:"summary"`
	Performers string   `json:"performers,omitempty" yaml:"performers"`
	Rating     Rating   `json:"rating" yaml:"rating"`
}

// InCategory reports whether the record is tagged with category.
func (s SiteRecord) InCategory(category string) bool {
	return slices.Contains(s.Categories, category)
}

// Score returns the numeric rating, mapping absent or non-finite values to zero.
func (s SiteRecord) Score() float64 {
	v := float64(s.Rating)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// PerformerCount returns the parsed performer count of the record.
func (s SiteRecord) PerformerCount() int64 {
	return ParsePerformers(s.Performers)
}

func (s SiteRecord) clone() SiteRecord {
	cp := s
	cp.Categories = slices.Clone(s.Categories)
	return cp
}

// Rating is a review score. Values that are missing, null or not numeric decode to zero
// instead of failing the whole dataset.
type Rating float64

// UnmarshalJSON accepts numbers and numeric strings; anything else becomes zero.
func (r *Rating) UnmarshalJSON(b []byte) error {
	*r = 0
	raw := strings.TrimSpace(string(b))
	if raw == "" || raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		*r = Rating(v)
	}
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML datasets.
func (r *Rating) UnmarshalYAML(node *yaml.Node) error {
	*r = 0
	if node == nil || node.Kind != yaml.ScalarNode {
		return nil
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(node.Value), 64); err == nil {
		*r = Rating(v)
	}
	return nil
}

// Catalog is an immutable, ordered collection of sites. The order of the source dataset is
// preserved and is the final tie-breaker of every ranking.
type Catalog struct {
	sites  []SiteRecord
	bySlug map[string]int
}

// New builds a catalog from records, copying them so later changes to the input are not
// observed.
func New(records []SiteRecord) *Catalog {
	c := &Catalog{
		sites:  make([]SiteRecord, 0, len(records)),
		bySlug: make(map[string]int, len(records)),
	}
	for _, rec := range records {
		c.sites = append(c.sites, rec.clone())
		slug := strings.ToLower(strings.TrimSpace(rec.Slug))
		if slug == "" {
			continue
		}
		if _, dup := c.bySlug[slug]; !dup {
			c.bySlug[slug] = len(c.sites) - 1
		}
	}
	return c
}

// Load reads a catalog file. Files ending in .yaml or .yml are decoded as YAML, everything
// else as JSON. The document is a top-level list of site records.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	c, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog document in the given format ("json" or "yaml").
func Parse(data []byte, format string) (*Catalog, error) {
	var records []SiteRecord
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case "json", "":
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return New(records), nil
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.sites)
}

// Sites returns a copy of all records in dataset order.
func (c *Catalog) Sites() []SiteRecord {
	if c == nil {
		return []SiteRecord{}
	}
	out := make([]SiteRecord, 0, len(c.sites))
	for _, s := range c.sites {
		out = append(out, s.clone())
	}
	return out
}

// BySlug looks a site up by its slug, case-insensitively.
func (c *Catalog) BySlug(slug string) (SiteRecord, error) {
	if c == nil {
		return SiteRecord{}, ErrNotFound
	}
	idx, ok := c.bySlug[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return SiteRecord{}, ErrNotFound
	}
	return c.sites[idx].clone(), nil
}

// Search returns the ranked sites whose title, slug or one of the categories contains query,
// ignoring case. An empty query matches every site.
func (c *Catalog) Search(query string) []SiteRecord {
	ranked := c.Rank(nil)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ranked
	}
	out := make([]SiteRecord, 0, len(ranked))
	for _, s := range ranked {
		if matches(s, q) {
			out = append(out, s)
		}
	}
	return out
}

func matches(s SiteRecord, q string) bool {
	if strings.Contains(strings.ToLower(s.Title), q) || strings.Contains(strings.ToLower(s.Slug), q) {
		return true
	}
	for _, c := range s.Categories {
		if strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}
	return false
}
