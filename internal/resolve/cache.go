package resolve

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/codeatlas/kgqa-backend/internal/domain"
	"github.com/codeatlas/kgqa-backend/internal/platform/envutil"
	"github.com/codeatlas/kgqa-backend/internal/platform/logger"
)

// EntityCache is a read-through cache of resolved identifiers. Entries
// are keyed by immutable inputs and replaced wholesale, never patched, so
// concurrent readers always see a complete value. Misses and redis
// hiccups degrade to a live lookup.
type EntityCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewEntityCacheFromEnv returns nil when REDIS_ADDR is unset; the
// resolver treats a nil cache as cache-off.
func NewEntityCacheFromEnv(log *logger.Logger) (*EntityCache, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	ttl := time.Duration(envutil.Int("RESOLVE_CACHE_TTL_SECONDS", 300)) * time.Second
	return &EntityCache{
		log: log.With("client", "EntityCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (c *EntityCache) Get(ctx context.Context, key string) (domain.EntityKey, bool) {
	if c == nil || c.rdb == nil {
		return domain.EntityKey{}, false
	}
	raw, err := c.rdb.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		return domain.EntityKey{}, false
	}
	var out domain.EntityKey
	if err := json.Unmarshal(raw, &out); err != nil || out.IsZero() {
		return domain.EntityKey{}, false
	}
	return out, true
}

func (c *EntityCache) Put(ctx context.Context, key string, val domain.EntityKey) {
	if c == nil || c.rdb == nil || val.IsZero() {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, redisKey(key), raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed (continuing)", "error", err)
	}
}

func (c *EntityCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func redisKey(key string) string {
	return "resolve:entity:" + key
}
