package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/codeatlas/kgqa-backend/internal/domain"
	"github.com/codeatlas/kgqa-backend/internal/platform/logger"
)

// Embedder produces a vector for a piece of text. Implementations live in
// internal/platform/embed; tests use fakes.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Config struct {
	// Alpha weights embedding similarity, Beta weights tag similarity.
	// They are normalized so Alpha+Beta=1 at construction.
	Alpha           float64
	Beta            float64
	StrongThreshold float64
	// DiversityCap limits how many top-k items may share a primary tag.
	// Zero disables the cap.
	DiversityCap int
}

type Query struct {
	Title string
	Tags  []string
	// Embedding, when set, skips the Embedder call.
	Embedding []float32
}

type Candidate struct {
	Title     string
	Tags      []string
	Embedding []float32
	Detail    *domain.NodeDetail
}

// Result is always a success from the caller's point of view. Note
// records why the fallback ran, for logs only.
type Result struct {
	Recommendations []domain.RecommendationItem
	Note            string
}

// Recommender blends embedding-space similarity with tag overlap and
// guarantees a non-empty result through the fallback provider.
type Recommender struct {
	embedder Embedder
	fallback *FallbackProvider
	log      *logger.Logger
	alpha    float64
	beta     float64
	strong   float64
	divCap   int
}

func New(embedder Embedder, fallback *FallbackProvider, log *logger.Logger, cfg Config) *Recommender {
	alpha, beta := cfg.Alpha, cfg.Beta
	if alpha <= 0 && beta <= 0 {
		alpha, beta = 0.7, 0.3
	}
	total := alpha + beta
	if total <= 0 {
		alpha, beta, total = 0.7, 0.3, 1.0
	}
	alpha /= total
	beta /= total

	strong := cfg.StrongThreshold
	if strong <= 0 || strong >= 1 {
		strong = 0.6
	}
	if fallback == nil {
		fallback = NewFallbackProvider(nil)
	}
	return &Recommender{
		embedder: embedder,
		fallback: fallback,
		log:      log.With("component", "Recommender"),
		alpha:    alpha,
		beta:     beta,
		strong:   strong,
		divCap:   cfg.DiversityCap,
	}
}

// Recommend never errors and never returns an empty list for k >= 1. An
// empty candidate pool or a failing embedding backend routes through the
// fallback provider with a success status either way.
func (r *Recommender) Recommend(ctx context.Context, query Query, pool []Candidate, k int) Result {
	if k <= 0 {
		k = 1
	}

	if item, ok := r.directMatch(query, pool); ok {
		return Result{Recommendations: []domain.RecommendationItem{item}}
	}

	if len(pool) == 0 {
		return r.fallbackResult(k, "empty candidate pool")
	}

	queryEmb, note := r.queryEmbedding(ctx, query)
	if note != "" {
		r.log.Warn("embedding unavailable, serving fallback", "note", note)
		return r.fallbackResult(k, note)
	}

	ranked := r.rank(query, queryEmb, pool)
	if len(ranked) == 0 {
		return r.fallbackResult(k, "primary pipeline returned zero candidates")
	}
	if r.divCap > 0 {
		ranked = capByPrimaryTag(ranked, r.divCap)
	}
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return Result{Recommendations: ranked}
}

func (r *Recommender) directMatch(query Query, pool []Candidate) (domain.RecommendationItem, bool) {
	title := strings.TrimSpace(query.Title)
	if title == "" {
		return domain.RecommendationItem{}, false
	}
	for _, cand := range pool {
		if strings.EqualFold(strings.TrimSpace(cand.Title), title) {
			return domain.RecommendationItem{
				Title: cand.Title,
				Scores: domain.ScoreComponents{
					EmbeddingSimilarity: 1,
					TagSimilarity:       1,
					HybridScore:         1,
				},
				SharedTags: append([]string(nil), cand.Tags...),
				Rationale:  fmt.Sprintf("%q directly matches this item", title),
				Strength:   domain.StrengthDirectMatch,
				Detail:     cand.Detail,
			}, true
		}
	}
	return domain.RecommendationItem{}, false
}

func (r *Recommender) queryEmbedding(ctx context.Context, query Query) ([]float32, string) {
	if len(query.Embedding) > 0 {
		return query.Embedding, ""
	}
	if r.embedder == nil {
		return nil, "no embedding backend configured"
	}
	emb, err := r.embedder.Embed(ctx, query.Title)
	if err != nil {
		return nil, fmt.Sprintf("embedding backend error: %v", err)
	}
	return emb, ""
}

type scoredItem struct {
	item    domain.RecommendationItem
	overlap int
}

func (r *Recommender) rank(query Query, queryEmb []float32, pool []Candidate) []domain.RecommendationItem {
	scored := make([]scoredItem, 0, len(pool))
	for _, cand := range pool {
		embSim := embeddingSimilarity(queryEmb, cand.Embedding)
		tagSim, shared := tagSimilarity(query.Tags, cand.Tags)
		hybrid := clamp01(r.alpha*embSim + r.beta*tagSim)

		strength := domain.StrengthBasic
		if hybrid >= r.strong {
			strength = domain.StrengthStrong
		}
		scored = append(scored, scoredItem{
			item: domain.RecommendationItem{
				Title: cand.Title,
				Scores: domain.ScoreComponents{
					EmbeddingSimilarity: embSim,
					TagSimilarity:       tagSim,
					HybridScore:         hybrid,
				},
				SharedTags: shared,
				Rationale:  rationale(embSim, shared),
				Strength:   strength,
				Detail:     cand.Detail,
			},
			overlap: len(shared),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].item.Scores.HybridScore != scored[j].item.Scores.HybridScore {
			return scored[i].item.Scores.HybridScore > scored[j].item.Scores.HybridScore
		}
		return scored[i].overlap > scored[j].overlap
	})

	out := make([]domain.RecommendationItem, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.item)
	}
	return out
}

// capByPrimaryTag keeps at most cap items per leading shared tag so the
// top of the list is not a run of near-duplicates.
func capByPrimaryTag(items []domain.RecommendationItem, limit int) []domain.RecommendationItem {
	counts := map[string]int{}
	out := make([]domain.RecommendationItem, 0, len(items))
	for _, item := range items {
		primary := ""
		if len(item.SharedTags) > 0 {
			primary = strings.ToLower(item.SharedTags[0])
		}
		if primary != "" {
			if counts[primary] >= limit {
				continue
			}
			counts[primary]++
		}
		out = append(out, item)
	}
	return out
}

func (r *Recommender) fallbackResult(k int, note string) Result {
	return Result{
		Recommendations: r.fallback.Items(k),
		Note:            note,
	}
}

func rationale(embSim float64, shared []string) string {
	switch {
	case len(shared) > 0 && embSim > 0:
		return fmt.Sprintf("shares %s and is close in embedding space (%.2f)", strings.Join(shared, ", "), embSim)
	case len(shared) > 0:
		return "shares " + strings.Join(shared, ", ")
	case embSim > 0:
		return fmt.Sprintf("close in embedding space (%.2f)", embSim)
	default:
		return "related item"
	}
}
