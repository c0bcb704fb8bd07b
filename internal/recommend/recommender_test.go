package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/codeatlas/kgqa-backend/internal/domain"
	"github.com/codeatlas/kgqa-backend/internal/platform/logger"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	return f.vec, f.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

func newTestRecommender(t *testing.T, embedder Embedder, cfg Config) *Recommender {
	t.Helper()
	return New(embedder, NewFallbackProvider(nil), testLogger(t), cfg)
}

func TestRecommendEmptyPoolServesFallback(t *testing.T) {
	r := newTestRecommender(t, &fakeEmbedder{vec: []float32{1, 0}}, Config{})

	result := r.Recommend(context.Background(), Query{Title: "UnknownConceptXYZ"}, nil, 3)
	if len(result.Recommendations) != 3 {
		t.Fatalf("expected exactly 3 fallback items, got %d", len(result.Recommendations))
	}
	for _, item := range result.Recommendations {
		if item.Strength != domain.StrengthFallback {
			t.Fatalf("expected fallback strength, got %v", item.Strength)
		}
	}
	if result.Note == "" {
		t.Fatalf("fallback result should record an internal note")
	}
}

func TestRecommendEmbedderErrorServesFallback(t *testing.T) {
	r := newTestRecommender(t, &fakeEmbedder{err: errors.New("backend down")}, Config{})
	pool := []Candidate{{Title: "Two Sum", Tags: []string{"Array"}}}

	result := r.Recommend(context.Background(), Query{Title: "arrays"}, pool, 2)
	if len(result.Recommendations) == 0 {
		t.Fatalf("recommend must never return empty")
	}
	for _, item := range result.Recommendations {
		if item.Strength != domain.StrengthFallback {
			t.Fatalf("expected fallback strength, got %v", item.Strength)
		}
	}
}

func TestRecommendDirectMatchShortCircuits(t *testing.T) {
	// The embedder would fail; a direct title match must win before
	// scoring ever runs.
	r := newTestRecommender(t, &fakeEmbedder{err: errors.New("down")}, Config{})
	pool := []Candidate{
		{Title: "Two Sum", Tags: []string{"Array"}},
		{Title: "Three Sum", Tags: []string{"Array"}},
	}

	result := r.Recommend(context.Background(), Query{Title: "two sum"}, pool, 5)
	if len(result.Recommendations) != 1 {
		t.Fatalf("direct match should return a single item, got %d", len(result.Recommendations))
	}
	item := result.Recommendations[0]
	if item.Strength != domain.StrengthDirectMatch {
		t.Fatalf("expected direct_match, got %v", item.Strength)
	}
	if item.Scores.HybridScore != 1.0 {
		t.Fatalf("direct match should score 1.0, got %v", item.Scores.HybridScore)
	}
}

func TestRecommendRanksByHybridScore(t *testing.T) {
	r := newTestRecommender(t, &fakeEmbedder{vec: []float32{1, 0}}, Config{})
	pool := []Candidate{
		{Title: "Far", Tags: []string{"Graph"}, Embedding: []float32{0, 1}},
		{Title: "Near", Tags: []string{"Array"}, Embedding: []float32{1, 0}},
	}

	result := r.Recommend(context.Background(), Query{Title: "arrays", Tags: []string{"Array"}}, pool, 2)
	if len(result.Recommendations) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Recommendations))
	}
	if result.Recommendations[0].Title != "Near" {
		t.Fatalf("expected Near ranked first, got %q", result.Recommendations[0].Title)
	}
	top := result.Recommendations[0].Scores
	if top.HybridScore <= result.Recommendations[1].Scores.HybridScore {
		t.Fatalf("ranking not descending: %v vs %v", top, result.Recommendations[1].Scores)
	}
	if top.HybridScore < 0 || top.HybridScore > 1 {
		t.Fatalf("hybrid score out of range: %v", top.HybridScore)
	}
}

func TestRecommendTiesBreakOnTagOverlap(t *testing.T) {
	// Identical embeddings and identical Jaccard (2/4 vs 1/2); the
	// candidate sharing more tags outright wins the tie.
	r := newTestRecommender(t, &fakeEmbedder{vec: []float32{1, 0}}, Config{})
	pool := []Candidate{
		{Title: "OneShared", Tags: []string{"Array"}, Embedding: []float32{1, 0}},
		{Title: "TwoShared", Tags: []string{"Array", "Hash Table", "Greedy", "Stack"}, Embedding: []float32{1, 0}},
	}
	query := Query{Title: "x", Tags: []string{"Array", "Hash Table"}}

	result := r.Recommend(context.Background(), query, pool, 2)
	if result.Recommendations[0].Title != "TwoShared" {
		t.Fatalf("tie should break on overlap count, got %q first", result.Recommendations[0].Title)
	}
}

func TestRecommendStrengthThreshold(t *testing.T) {
	r := newTestRecommender(t, &fakeEmbedder{vec: []float32{1, 0}}, Config{StrongThreshold: 0.6})
	pool := []Candidate{
		{Title: "Strong", Tags: []string{"Array"}, Embedding: []float32{1, 0}},
		{Title: "Weak", Tags: []string{"Graph"}, Embedding: []float32{0, 1}},
	}

	result := r.Recommend(context.Background(), Query{Title: "x", Tags: []string{"Array"}}, pool, 2)
	byTitle := map[string]domain.Strength{}
	for _, item := range result.Recommendations {
		byTitle[item.Title] = item.Strength
	}
	if byTitle["Strong"] != domain.StrengthStrong {
		t.Fatalf("high scorer should be strong, got %v", byTitle["Strong"])
	}
	if byTitle["Weak"] != domain.StrengthBasic {
		t.Fatalf("low scorer should be basic, got %v", byTitle["Weak"])
	}
}

func TestRecommendDiversityCap(t *testing.T) {
	r := newTestRecommender(t, &fakeEmbedder{vec: []float32{1, 0}}, Config{DiversityCap: 1})
	pool := []Candidate{
		{Title: "A1", Tags: []string{"Array"}, Embedding: []float32{1, 0}},
		{Title: "A2", Tags: []string{"Array"}, Embedding: []float32{1, 0}},
		{Title: "G1", Tags: []string{"Graph"}, Embedding: []float32{0.5, 0.5}},
	}
	query := Query{Title: "x", Tags: []string{"Array", "Graph"}}

	result := r.Recommend(context.Background(), query, pool, 3)
	arrayCount := 0
	for _, item := range result.Recommendations {
		if len(item.SharedTags) > 0 && item.SharedTags[0] == "Array" {
			arrayCount++
		}
	}
	if arrayCount > 1 {
		t.Fatalf("diversity cap violated: %d Array-primary items", arrayCount)
	}
}

func TestRecommendKZeroStillReturnsOne(t *testing.T) {
	r := newTestRecommender(t, nil, Config{})
	result := r.Recommend(context.Background(), Query{Title: "anything"}, nil, 0)
	if len(result.Recommendations) < 1 {
		t.Fatalf("k<=0 must still produce at least one item")
	}
}

func TestFallbackProviderBoundedByCatalog(t *testing.T) {
	p := NewFallbackProvider(nil)
	items := p.Items(100)
	if len(items) == 0 || len(items) > len(defaultCatalog) {
		t.Fatalf("unexpected fallback size %d", len(items))
	}
}

func TestWeightsNormalized(t *testing.T) {
	r := newTestRecommender(t, &fakeEmbedder{vec: []float32{1, 0}}, Config{Alpha: 7, Beta: 3})
	if r.alpha+r.beta < 0.999 || r.alpha+r.beta > 1.001 {
		t.Fatalf("weights not normalized: alpha=%v beta=%v", r.alpha, r.beta)
	}
}
