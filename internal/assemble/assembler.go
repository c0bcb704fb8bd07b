package assemble

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/codeatlas/kgqa-backend/internal/domain"
	"github.com/codeatlas/kgqa-backend/internal/graph"
	"github.com/codeatlas/kgqa-backend/internal/platform/logger"
)

type Config struct {
	DefaultMaxNeighbors int
	MaxConcurrency      int
}

// Assembler builds bounded, visualization-ready subgraphs around a center
// entity.
type Assembler struct {
	acc         graph.Accessor
	log         *logger.Logger
	defaultMax  int
	concurrency int64
}

func New(acc graph.Accessor, log *logger.Logger, cfg Config) *Assembler {
	defaultMax := cfg.DefaultMaxNeighbors
	if defaultMax <= 0 {
		defaultMax = 10
	}
	concurrency := cfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	return &Assembler{
		acc:         acc,
		log:         log.With("component", "Assembler"),
		defaultMax:  defaultMax,
		concurrency: int64(concurrency),
	}
}

// Assemble returns the 1-hop neighborhood of center as GraphData. A
// center with no neighbors yields a valid single-node graph; a center
// that does not resolve yields (nil, graph.ErrNotFound) so callers can
// tell "not found" apart from "found but isolated".
func (a *Assembler) Assemble(ctx context.Context, center domain.EntityKey, maxNeighbors int, relFilter []string) (*domain.GraphData, error) {
	if maxNeighbors <= 0 {
		maxNeighbors = a.defaultMax
	}

	entity, err := a.acc.GetEntity(ctx, center.Kind, center.Key)
	if err != nil {
		return nil, err
	}

	edges, err := a.acc.GetNeighbors(ctx, center, maxNeighbors, relFilter)
	if err != nil {
		return nil, fmt.Errorf("assemble neighbors of %s: %w", center, err)
	}
	neighbors := a.enrichNeighbors(ctx, edges)

	nodes := make([]domain.GraphNode, 0, len(edges)+1)
	nodes = append(nodes, graphNode(entity, center, true))

	outEdges := make([]domain.GraphEdge, 0, len(edges))
	seen := map[string]struct{}{center.String(): {}}
	for i, edge := range edges {
		neighbor := neighbors[i]
		key := neighbor.EntityKey()
		if key.Key == "" {
			continue
		}
		if _, dup := seen[key.String()]; !dup {
			seen[key.String()] = struct{}{}
			nodes = append(nodes, graphNode(neighbor, key, false))
		}
		outEdges = append(outEdges, domain.GraphEdge{
			Source:       center,
			Target:       key,
			Relationship: edge.Relationship,
			Properties:   sanitizeProps(edge.Properties, a.log),
		})
	}

	return &domain.GraphData{
		Nodes:      nodes,
		Edges:      outEdges,
		CenterNode: center,
		LayoutType: domain.LayoutForce,
	}, nil
}

// enrichNeighbors fills in full display attributes for each neighbor.
// Fetches for distinct neighbors run concurrently under a bounded
// semaphore; results land by input index, so output order never depends
// on scheduling. A failed enrich keeps the stub from the edge read.
func (a *Assembler) enrichNeighbors(ctx context.Context, edges []domain.RawEdge) []domain.RawEntity {
	out := make([]domain.RawEntity, len(edges))
	sem := semaphore.NewWeighted(a.concurrency)
	var wg sync.WaitGroup
	for i, edge := range edges {
		out[i] = edge.Neighbor
		if edge.Neighbor.Name() == "" {
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(i int, stub domain.RawEntity) {
			defer wg.Done()
			defer sem.Release(1)
			full, err := a.acc.GetEntity(ctx, stub.Kind, stub.Name())
			if err == nil && full.Present {
				out[i] = full
			}
		}(i, edge.Neighbor)
	}
	// Wait for every launched fetch, cancelled context included, so no
	// goroutine writes out after it is returned.
	wg.Wait()
	return out
}

func graphNode(entity domain.RawEntity, key domain.EntityKey, isCenter bool) domain.GraphNode {
	props, _ := graph.Sanitize(entity.Properties, nil).(map[string]any)
	return domain.GraphNode{
		ID:         key,
		Label:      entity.Name(),
		Kind:       entity.Kind,
		Properties: props,
		IsCenter:   isCenter,
		Clickable:  true,
	}
}

func sanitizeProps(props map[string]any, log *logger.Logger) map[string]any {
	if len(props) == 0 {
		return nil
	}
	clean, _ := graph.Sanitize(props, log).(map[string]any)
	return clean
}
