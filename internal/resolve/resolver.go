package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/codeatlas/kgqa-backend/internal/domain"
	"github.com/codeatlas/kgqa-backend/internal/graph"
	"github.com/codeatlas/kgqa-backend/internal/platform/logger"
)

// ErrMalformedID rejects identifiers whose encoding cannot be decoded;
// resolution is never attempted for these.
var ErrMalformedID = errors.New("resolve: malformed identifier encoding")

// ResolutionError reports an identifier that decoded cleanly but matched
// no entity. It wraps graph.ErrNotFound so errors.Is keeps working at the
// HTTP boundary.
type ResolutionError struct {
	RawID     string
	Attempted []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve: no entity for %q (attempted %s)", e.RawID, strings.Join(e.Attempted, ", "))
}

func (e *ResolutionError) Unwrap() error { return graph.ErrNotFound }

type Config struct {
	FuzzyThreshold float64
	SearchLimit    int
}

// Resolver maps arbitrary caller-supplied identifiers to canonical
// EntityKeys. Lookup order: kind hint, static kind priority, keyword
// search above a similarity threshold.
type Resolver struct {
	acc    graph.Accessor
	cache  *EntityCache
	log    *logger.Logger
	thresh float64
	limit  int
}

func NewResolver(acc graph.Accessor, cache *EntityCache, log *logger.Logger, cfg Config) *Resolver {
	thresh := cfg.FuzzyThreshold
	if thresh <= 0 || thresh > 1 {
		thresh = 0.6
	}
	limit := cfg.SearchLimit
	if limit <= 0 {
		limit = 10
	}
	return &Resolver{
		acc:    acc,
		cache:  cache,
		log:    log.With("component", "Resolver"),
		thresh: thresh,
		limit:  limit,
	}
}

func (r *Resolver) Resolve(ctx context.Context, rawID string, hint *domain.EntityKind) (domain.EntityKey, error) {
	// PathUnescape rather than QueryUnescape: a literal '+' in a display
	// name must survive decoding.
	decoded, err := url.PathUnescape(rawID)
	if err != nil {
		return domain.EntityKey{}, fmt.Errorf("%w: %q", ErrMalformedID, rawID)
	}
	decoded = strings.TrimSpace(decoded)
	if decoded == "" {
		return domain.EntityKey{}, fmt.Errorf("%w: empty identifier", ErrMalformedID)
	}

	// A canonical kind:key encoding bypasses legacy decoding entirely.
	if key, err := domain.ParseEntityKey(decoded); err == nil {
		if _, lookupErr := r.acc.GetEntity(ctx, key.Kind, key.Key); lookupErr == nil {
			return key, nil
		} else if !errors.Is(lookupErr, graph.ErrNotFound) {
			return domain.EntityKey{}, lookupErr
		}
	}

	name, hadPrefix := stripLegacyPrefix(decoded)
	candidates := candidateNames(name)

	if r.cache != nil {
		if key, ok := r.cache.Get(ctx, cacheKey(name, hint)); ok {
			return key, nil
		}
	}

	attempted := make([]string, 0, 4)

	kinds := domain.KindPriority
	if hint != nil {
		kinds = append([]domain.EntityKind{*hint}, withoutKind(domain.KindPriority, *hint)...)
	}
	for _, kind := range kinds {
		for _, candidate := range candidates {
			attempted = append(attempted, string(kind)+":"+candidate)
			entity, err := r.acc.GetEntity(ctx, kind, candidate)
			if err == nil {
				key := entity.EntityKey()
				r.cachePut(ctx, cacheKey(name, hint), key)
				return key, nil
			}
			if !errors.Is(err, graph.ErrNotFound) {
				return domain.EntityKey{}, err
			}
		}
	}

	key, ok, err := r.fuzzy(ctx, name, &attempted)
	if err != nil {
		return domain.EntityKey{}, err
	}
	if ok {
		r.cachePut(ctx, cacheKey(name, hint), key)
		return key, nil
	}

	r.log.Debug("identifier unresolved", "raw_id", rawID, "had_prefix", hadPrefix, "attempted", attempted)
	return domain.EntityKey{}, &ResolutionError{RawID: rawID, Attempted: attempted}
}

func (r *Resolver) fuzzy(ctx context.Context, name string, attempted *[]string) (domain.EntityKey, bool, error) {
	*attempted = append(*attempted, "search:"+name)
	hits, err := r.acc.Search(ctx, name, r.limit)
	if err != nil {
		if errors.Is(err, graph.ErrNotFound) {
			return domain.EntityKey{}, false, nil
		}
		return domain.EntityKey{}, false, err
	}

	bestScore := 0.0
	var best domain.RawEntity
	for _, hit := range hits {
		score := similarity(name, hit.Name())
		if score > bestScore {
			bestScore = score
			best = hit
		}
	}
	if bestScore < r.thresh || !best.Present {
		return domain.EntityKey{}, false, nil
	}
	return best.EntityKey(), true, nil
}

func (r *Resolver) cachePut(ctx context.Context, key string, val domain.EntityKey) {
	if r.cache != nil {
		r.cache.Put(ctx, key, val)
	}
}

func cacheKey(name string, hint *domain.EntityKind) string {
	if hint == nil {
		return name
	}
	return string(*hint) + "|" + name
}

func withoutKind(kinds []domain.EntityKind, drop domain.EntityKind) []domain.EntityKind {
	out := make([]domain.EntityKind, 0, len(kinds))
	for _, k := range kinds {
		if k != drop {
			out = append(out, k)
		}
	}
	return out
}

// similarity is a case-insensitive containment ratio: the length of the
// shorter string over the longer when one contains the other, zero
// otherwise. Cheap, deterministic, and good enough to gate search hits.
func similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if !strings.Contains(longer, shorter) {
		return 0
	}
	return float64(len(shorter)) / float64(len(longer))
}
