package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeatlas/kgqa-backend/internal/app"
	"github.com/codeatlas/kgqa-backend/internal/assemble"
	"github.com/codeatlas/kgqa-backend/internal/graph"
	"github.com/codeatlas/kgqa-backend/internal/http/handlers"
	"github.com/codeatlas/kgqa-backend/internal/observability"
	"github.com/codeatlas/kgqa-backend/internal/platform/embed"
	"github.com/codeatlas/kgqa-backend/internal/platform/envutil"
	"github.com/codeatlas/kgqa-backend/internal/platform/logger"
	"github.com/codeatlas/kgqa-backend/internal/platform/neo4jdb"
	"github.com/codeatlas/kgqa-backend/internal/recommend"
	"github.com/codeatlas/kgqa-backend/internal/resolve"
	"github.com/codeatlas/kgqa-backend/internal/server"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := app.LoadConfig(log)

	ctx := context.Background()
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "kgqa-backend",
		Environment: cfg.Environment,
		Version:     envutil.Str("APP_VERSION", "dev"),
	})

	// Graph database is the one hard dependency of this service.
	graphClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Fatal("Could not init Neo4j client", "error", err)
	}
	if graphClient == nil {
		log.Fatal("NEO4J_URI is required")
	}
	defer graphClient.Close(ctx)

	entityCache, err := resolve.NewEntityCacheFromEnv(log)
	if err != nil {
		log.Warn("Redis cache unavailable, resolving without cache", "error", err)
		entityCache = nil
	}
	if entityCache != nil {
		defer entityCache.Close()
	}

	embedder, err := embed.NewFromEnv(log)
	if err != nil {
		log.Warn("Embedding client init failed, recommendations will fall back", "error", err)
	}

	store := graph.NewStore(graphClient, log, cfg.Store)
	resolver := resolve.NewResolver(store, entityCache, log, cfg.Resolver)
	assembler := assemble.New(store, log, cfg.Assembler)

	catalog, err := recommend.LoadCatalog(cfg.FallbackCatalog)
	if err != nil {
		log.Warn("Fallback catalog load failed, using built-in defaults", "error", err)
	}
	fallback := recommend.NewFallbackProvider(catalog)

	var recoEmbedder recommend.Embedder
	if embedder != nil {
		recoEmbedder = embedder
	}
	recommender := recommend.New(recoEmbedder, fallback, log, cfg.Recommender)
	source := recommend.NewGraphSource(store, log)

	router := server.NewRouter(server.RouterConfig{
		HealthHandler:    handlers.NewHealthHandler(),
		NodeHandler:      handlers.NewNodeHandler(resolver, assembler, log),
		RecommendHandler: handlers.NewRecommendHandler(recommender, source, log),
		TracingEnabled:   otelShutdown != nil,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", "error", err)
		}
	}()

	stopCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-stopCtx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown incomplete", "error", err)
	}
	if otelShutdown != nil {
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Warn("otel shutdown incomplete", "error", err)
		}
	}
}
