package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/codeatlas/kgqa-backend/internal/domain"
	"github.com/codeatlas/kgqa-backend/internal/platform/logger"
	"github.com/codeatlas/kgqa-backend/internal/platform/neo4jdb"
)

type StoreConfig struct {
	Timeout    time.Duration
	MaxRetries int
}

// Store implements Accessor against Neo4j. Every call runs in its own
// read session with a bounded timeout and at most MaxRetries re-attempts
// on transient driver errors.
type Store struct {
	client  *neo4jdb.Client
	log     *logger.Logger
	timeout time.Duration
	retries int
}

func NewStore(client *neo4jdb.Client, log *logger.Logger, cfg StoreConfig) *Store {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &Store{
		client:  client,
		log:     log.With("store", "Neo4jGraph"),
		timeout: timeout,
		retries: retries,
	}
}

func (s *Store) GetEntity(ctx context.Context, kind domain.EntityKind, key string) (domain.RawEntity, error) {
	label := kind.Label()
	if label == "" {
		return domain.Missing, fmt.Errorf("graph: unknown entity kind %q", kind)
	}
	query := fmt.Sprintf(`
MATCH (n:%s)
WHERE n.name = $name OR n.title = $name
RETURN n, labels(n) AS labels
LIMIT 1`, label)

	var entity domain.RawEntity
	err := s.read(ctx, func(cctx context.Context, session neo4j.SessionWithContext) error {
		res, err := session.Run(cctx, query, map[string]any{"name": key})
		if err != nil {
			return err
		}
		if !res.Next(cctx) {
			if err := res.Err(); err != nil {
				return err
			}
			return ErrNotFound
		}
		rec := res.Record()
		entity = entityFromRecord(rec, "n", "labels")
		_, err = res.Consume(cctx)
		return err
	})
	if err != nil {
		return domain.Missing, err
	}
	if !entity.Present {
		return domain.Missing, ErrNotFound
	}
	return entity, nil
}

func (s *Store) GetNeighbors(ctx context.Context, center domain.EntityKey, limit int, relFilter []string) ([]domain.RawEdge, error) {
	label := center.Kind.Label()
	if label == "" {
		return nil, fmt.Errorf("graph: unknown entity kind %q", center.Kind)
	}
	if limit <= 0 {
		limit = 10
	}

	filter := ""
	params := map[string]any{"name": center.Key, "limit": limit}
	if len(relFilter) > 0 {
		filter = "AND type(r) IN $rels"
		params["rels"] = relFilter
	}
	query := fmt.Sprintf(`
MATCH (c:%s)-[r]-(m)
WHERE (c.name = $name OR c.title = $name) %s
RETURN type(r) AS rel, properties(r) AS rel_props, m, labels(m) AS labels
LIMIT $limit`, label, filter)

	var edges []domain.RawEdge
	err := s.read(ctx, func(cctx context.Context, session neo4j.SessionWithContext) error {
		res, err := session.Run(cctx, query, params)
		if err != nil {
			return err
		}
		edges = edges[:0]
		for res.Next(cctx) {
			rec := res.Record()
			neighbor := entityFromRecord(rec, "m", "labels")
			if !neighbor.Present || neighbor.Name() == "" {
				continue
			}
			rel := ""
			if v, ok := rec.Get("rel"); ok {
				if str, ok := v.(string); ok {
					rel = str
				}
			}
			props := map[string]any{}
			if v, ok := rec.Get("rel_props"); ok {
				if m, ok := v.(map[string]any); ok {
					props = m
				}
			}
			edges = append(edges, domain.RawEdge{
				From:         center,
				Relationship: rel,
				Properties:   props,
				Neighbor:     neighbor,
			})
		}
		return res.Err()
	})
	if err != nil {
		return nil, err
	}
	return edges, nil
}

func (s *Store) Search(ctx context.Context, keyword string, limit int) ([]domain.RawEntity, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
MATCH (n)
WHERE toLower(coalesce(n.name, n.title, '')) CONTAINS toLower($kw)
RETURN n, labels(n) AS labels
LIMIT $limit`

	var hits []domain.RawEntity
	err := s.read(ctx, func(cctx context.Context, session neo4j.SessionWithContext) error {
		res, err := session.Run(cctx, query, map[string]any{"kw": keyword, "limit": limit})
		if err != nil {
			return err
		}
		hits = hits[:0]
		for res.Next(cctx) {
			entity := entityFromRecord(res.Record(), "n", "labels")
			if entity.Present && entity.Name() != "" {
				hits = append(hits, entity)
			}
		}
		return res.Err()
	})
	if err != nil {
		return nil, err
	}
	return hits, nil
}

// read runs fn in a fresh read session on a detached timeout context, so
// an aborted caller lets the in-flight query finish instead of tearing
// down the session.
func (s *Store) read(ctx context.Context, fn func(context.Context, neo4j.SessionWithContext) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		session := s.client.Driver.NewSession(cctx, neo4j.SessionConfig{
			AccessMode:   neo4j.AccessModeRead,
			DatabaseName: s.client.Database,
		})
		err := fn(cctx, session)
		_ = session.Close(cctx)
		cancel()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrNotFound) {
			return err
		}
		lastErr = err
		if !neo4j.IsRetryable(err) {
			break
		}
		s.log.Warn("graph read failed, retrying", "attempt", attempt+1, "error", err)
	}
	return lastErr
}

func entityFromRecord(rec *neo4j.Record, nodeKey, labelsKey string) domain.RawEntity {
	raw, ok := rec.Get(nodeKey)
	if !ok {
		return domain.Missing
	}
	node, ok := raw.(dbtype.Node)
	if !ok {
		return domain.Missing
	}
	labels := node.Labels
	if v, ok := rec.Get(labelsKey); ok {
		if list, ok := v.([]any); ok {
			labels = labels[:0]
			for _, l := range list {
				if s, ok := l.(string); ok {
					labels = append(labels, s)
				}
			}
		}
	}
	return domain.RawEntity{
		Present:    true,
		Kind:       kindFromLabels(labels),
		Labels:     labels,
		Properties: node.Props,
	}
}

func kindFromLabels(labels []string) domain.EntityKind {
	for _, label := range labels {
		if kind, ok := domain.ParseKind(label); ok {
			return kind
		}
	}
	return domain.KindConcept
}
