package recommend

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/codeatlas/kgqa-backend/internal/domain"
)

// FallbackProvider serves a deterministic catalog of introductory items,
// independent of the query. It is the reason the recommender can promise
// a populated, success-status result to every caller.
type FallbackProvider struct {
	catalog []CatalogItem
}

type CatalogItem struct {
	Title     string   `yaml:"title"`
	Tags      []string `yaml:"tags"`
	Rationale string   `yaml:"rationale"`
}

type catalogFile struct {
	Items []CatalogItem `yaml:"items"`
}

// defaultCatalog covers the canonical first problems of each major topic.
var defaultCatalog = []CatalogItem{
	{Title: "Two Sum", Tags: []string{"Array", "Hash Table"}, Rationale: "A classic starting point for array and hash-table thinking."},
	{Title: "Binary Search", Tags: []string{"Array", "Binary Search"}, Rationale: "Foundation for every divide-and-conquer lookup."},
	{Title: "Reverse Linked List", Tags: []string{"Linked List"}, Rationale: "The standard introduction to pointer manipulation."},
	{Title: "Valid Parentheses", Tags: []string{"Stack", "String"}, Rationale: "Introduces stack-based matching."},
	{Title: "Maximum Subarray", Tags: []string{"Array", "Dynamic Programming"}, Rationale: "A gentle first dynamic-programming problem."},
}

func NewFallbackProvider(catalog []CatalogItem) *FallbackProvider {
	if len(catalog) == 0 {
		catalog = defaultCatalog
	}
	return &FallbackProvider{catalog: catalog}
}

// LoadCatalog reads a YAML catalog override. An unset path uses the
// built-in defaults.
func LoadCatalog(path string) ([]CatalogItem, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fallback catalog: read %s: %w", path, err)
	}
	var parsed catalogFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("fallback catalog: parse %s: %w", path, err)
	}
	items := make([]CatalogItem, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Title == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Items returns min(k, catalog size) items, all tagged fallback.
func (p *FallbackProvider) Items(k int) []domain.RecommendationItem {
	if k <= 0 {
		k = 1
	}
	if k > len(p.catalog) {
		k = len(p.catalog)
	}
	out := make([]domain.RecommendationItem, 0, k)
	for _, entry := range p.catalog[:k] {
		out = append(out, domain.RecommendationItem{
			Title:      entry.Title,
			Scores:     domain.ScoreComponents{},
			SharedTags: append([]string(nil), entry.Tags...),
			Rationale:  entry.Rationale,
			Strength:   domain.StrengthFallback,
		})
	}
	return out
}
