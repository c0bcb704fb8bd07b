package graph

import (
	"context"
	"errors"

	"github.com/codeatlas/kgqa-backend/internal/domain"
)

// ErrNotFound marks a lookup that reached the graph and matched nothing.
// Callers use it to tell resolution failures apart from upstream outages.
var ErrNotFound = errors.New("graph: entity not found")

// Accessor is the narrow read contract this core consumes from the graph
// database. Results are structured RawEntity/RawEdge values; driver
// handles never cross this boundary.
type Accessor interface {
	GetEntity(ctx context.Context, kind domain.EntityKind, key string) (domain.RawEntity, error)
	GetNeighbors(ctx context.Context, center domain.EntityKey, limit int, relFilter []string) ([]domain.RawEdge, error)
	Search(ctx context.Context, keyword string, limit int) ([]domain.RawEntity, error)
}
