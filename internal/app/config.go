package app

import (
	"time"

	"github.com/codeatlas/kgqa-backend/internal/assemble"
	"github.com/codeatlas/kgqa-backend/internal/graph"
	"github.com/codeatlas/kgqa-backend/internal/platform/envutil"
	"github.com/codeatlas/kgqa-backend/internal/platform/logger"
	"github.com/codeatlas/kgqa-backend/internal/recommend"
	"github.com/codeatlas/kgqa-backend/internal/resolve"
)

// Config gathers every tunable of the core. Recommender weights and the
// diversity cap are configuration on purpose: no "correct" value is
// asserted anywhere in the code.
type Config struct {
	HTTPAddr        string
	Store           graph.StoreConfig
	Resolver        resolve.Config
	Assembler       assemble.Config
	Recommender     recommend.Config
	FallbackCatalog string
	Environment     string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		HTTPAddr: envutil.Str("HTTP_ADDR", ":8080"),
		Store: graph.StoreConfig{
			Timeout:    time.Duration(envutil.Int("GRAPH_TIMEOUT_SECONDS", 5)) * time.Second,
			MaxRetries: envutil.Int("GRAPH_MAX_RETRIES", 2),
		},
		Resolver: resolve.Config{
			FuzzyThreshold: envutil.Float("RESOLVE_FUZZY_THRESHOLD", 0.6),
			SearchLimit:    envutil.Int("RESOLVE_SEARCH_LIMIT", 10),
		},
		Assembler: assemble.Config{
			DefaultMaxNeighbors: envutil.Int("GRAPH_MAX_NEIGHBORS", 10),
			MaxConcurrency:      envutil.Int("GRAPH_FETCH_CONCURRENCY", 5),
		},
		Recommender: recommend.Config{
			Alpha:           envutil.Float("RECO_ALPHA", 0.7),
			Beta:            envutil.Float("RECO_BETA", 0.3),
			StrongThreshold: envutil.Float("RECO_STRONG_THRESHOLD", 0.6),
			DiversityCap:    envutil.Int("RECO_DIVERSITY_CAP", 2),
		},
		FallbackCatalog: envutil.Str("RECO_FALLBACK_CATALOG", ""),
		Environment:     envutil.Str("APP_ENV", "development"),
	}
	log.Info("config loaded",
		"http_addr", cfg.HTTPAddr,
		"graph_timeout", cfg.Store.Timeout,
		"reco_alpha", cfg.Recommender.Alpha,
		"reco_beta", cfg.Recommender.Beta,
	)
	return cfg
}
