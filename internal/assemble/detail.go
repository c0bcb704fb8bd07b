package assemble

import (
	"context"
	"fmt"

	"github.com/codeatlas/kgqa-backend/internal/domain"
	"github.com/codeatlas/kgqa-backend/internal/graph"
)

const detailNeighborLimit = 50

// NodeDetail builds the per-entity detail view: basic display attributes
// plus connected algorithms, data structures and techniques grouped by
// kind. BasicInfo is always populated when the entity resolves.
func (a *Assembler) NodeDetail(ctx context.Context, key domain.EntityKey) (*domain.NodeDetail, error) {
	entity, err := a.acc.GetEntity(ctx, key.Kind, key.Key)
	if err != nil {
		return nil, err
	}

	detail := &domain.NodeDetail{
		BasicInfo:      basicInfo(entity),
		Algorithms:     []domain.TagRecord{},
		DataStructures: []domain.TagRecord{},
		Techniques:     []domain.TagRecord{},
		Related:        []domain.EntityKey{},
	}

	edges, err := a.acc.GetNeighbors(ctx, key, detailNeighborLimit, nil)
	if err != nil {
		return nil, fmt.Errorf("detail neighbors of %s: %w", key, err)
	}
	neighbors := a.enrichNeighbors(ctx, edges)

	seenTag := map[string]struct{}{}
	seenRelated := map[string]struct{}{}
	for _, neighbor := range neighbors {
		name := neighbor.Name()
		if name == "" {
			continue
		}
		switch neighbor.Kind {
		case domain.KindAlgorithm, domain.KindDataStructure, domain.KindTechnique:
			if _, dup := seenTag[string(neighbor.Kind)+"|"+name]; dup {
				continue
			}
			seenTag[string(neighbor.Kind)+"|"+name] = struct{}{}
			rec := tagRecord(neighbor)
			switch neighbor.Kind {
			case domain.KindAlgorithm:
				detail.Algorithms = append(detail.Algorithms, rec)
			case domain.KindDataStructure:
				detail.DataStructures = append(detail.DataStructures, rec)
			case domain.KindTechnique:
				detail.Techniques = append(detail.Techniques, rec)
			}
		default:
			related := neighbor.EntityKey()
			if _, dup := seenRelated[related.String()]; dup {
				continue
			}
			seenRelated[related.String()] = struct{}{}
			detail.Related = append(detail.Related, related)
		}
	}

	return detail, nil
}

func basicInfo(entity domain.RawEntity) *domain.BasicInfo {
	props, _ := graph.Sanitize(entity.Properties, nil).(map[string]any)
	return &domain.BasicInfo{
		Title:       entity.Name(),
		Kind:        entity.Kind,
		Description: propString(props, "description"),
		Difficulty:  propString(props, "difficulty"),
		Platform:    propString(props, "platform"),
		Category:    propString(props, "category"),
	}
}

func tagRecord(entity domain.RawEntity) domain.TagRecord {
	props, _ := graph.Sanitize(entity.Properties, nil).(map[string]any)
	return domain.TagRecord{
		Name:        entity.Name(),
		Description: propString(props, "description"),
		Category:    propString(props, "category"),
	}
}

func propString(props map[string]any, key string) string {
	if props == nil {
		return ""
	}
	if s, ok := props[key].(string); ok {
		return s
	}
	return ""
}
