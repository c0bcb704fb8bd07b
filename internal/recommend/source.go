package recommend

import (
	"context"

	"github.com/codeatlas/kgqa-backend/internal/domain"
	"github.com/codeatlas/kgqa-backend/internal/graph"
	"github.com/codeatlas/kgqa-backend/internal/platform/logger"
)

// Source produces a candidate pool for a query. Errors from a source are
// survivable: the recommender substitutes the fallback catalog.
type Source interface {
	Candidates(ctx context.Context, queryTitle string, limit int) ([]Candidate, error)
}

// GraphSource draws candidates from the knowledge graph via keyword
// search. Tags and precomputed embeddings ride on node properties.
type GraphSource struct {
	acc graph.Accessor
	log *logger.Logger
}

func NewGraphSource(acc graph.Accessor, log *logger.Logger) *GraphSource {
	return &GraphSource{acc: acc, log: log.With("component", "GraphSource")}
}

func (s *GraphSource) Candidates(ctx context.Context, queryTitle string, limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = 20
	}
	hits, err := s.acc.Search(ctx, queryTitle, limit)
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		if hit.Kind != domain.KindProblem {
			continue
		}
		title := hit.Name()
		if title == "" {
			continue
		}
		out = append(out, Candidate{
			Title:     title,
			Tags:      candidateTags(hit, s.log),
			Embedding: candidateEmbedding(hit),
		})
	}
	return out, nil
}

func candidateTags(entity domain.RawEntity, log *logger.Logger) []string {
	raw, ok := entity.Properties["tags"]
	if !ok {
		return nil
	}
	switch val := raw.(type) {
	case []any:
		return graph.NormalizeTags(val, log)
	case []string:
		anyVals := make([]any, len(val))
		for i, s := range val {
			anyVals[i] = s
		}
		return graph.NormalizeTags(anyVals, log)
	default:
		return graph.NormalizeTags([]any{raw}, log)
	}
}

func candidateEmbedding(entity domain.RawEntity) []float32 {
	raw, ok := entity.Properties["embedding"]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]float32, 0, len(list))
	for _, v := range list {
		switch num := v.(type) {
		case float64:
			out = append(out, float32(num))
		case int64:
			out = append(out, float32(num))
		default:
			return nil
		}
	}
	return out
}
