package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/codeatlas/kgqa-backend/internal/assemble"
	"github.com/codeatlas/kgqa-backend/internal/domain"
	"github.com/codeatlas/kgqa-backend/internal/graph"
	"github.com/codeatlas/kgqa-backend/internal/platform/logger"
	"github.com/codeatlas/kgqa-backend/internal/recommend"
	"github.com/codeatlas/kgqa-backend/internal/resolve"
)

type fakeAccessor struct {
	entities  map[string]domain.RawEntity
	neighbors map[string][]domain.RawEdge
}

func entityFor(kind domain.EntityKind, name string) domain.RawEntity {
	return domain.RawEntity{
		Present:    true,
		Kind:       kind,
		Labels:     []string{kind.Label()},
		Properties: map[string]any{"name": name},
	}
}

func (f *fakeAccessor) GetEntity(_ context.Context, kind domain.EntityKind, key string) (domain.RawEntity, error) {
	if e, ok := f.entities[string(kind)+"|"+key]; ok {
		return e, nil
	}
	return domain.Missing, graph.ErrNotFound
}

func (f *fakeAccessor) GetNeighbors(_ context.Context, center domain.EntityKey, limit int, _ []string) ([]domain.RawEdge, error) {
	edges := f.neighbors[center.String()]
	if limit > 0 && len(edges) > limit {
		edges = edges[:limit]
	}
	return edges, nil
}

func (f *fakeAccessor) Search(context.Context, string, int) ([]domain.RawEntity, error) {
	return nil, nil
}

type emptySource struct{}

func (emptySource) Candidates(context.Context, string, int) ([]recommend.Candidate, error) {
	return nil, nil
}

func testRouter(t *testing.T, acc graph.Accessor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}

	resolver := resolve.NewResolver(acc, nil, log, resolve.Config{})
	asm := assemble.New(acc, log, assemble.Config{})
	reco := recommend.New(nil, recommend.NewFallbackProvider(nil), log, recommend.Config{})

	nodeHandler := NewNodeHandler(resolver, asm, log)
	recoHandler := NewRecommendHandler(reco, emptySource{}, log)

	router := gin.New()
	router.GET("/api/node/:id/details", nodeHandler.Details)
	router.GET("/api/node/:id/graph", nodeHandler.Graph)
	router.POST("/api/recommend", recoHandler.Recommend)
	return router
}

func backtrackingAccessor() *fakeAccessor {
	center := domain.EntityKey{Kind: domain.KindAlgorithm, Key: "Backtracking"}
	return &fakeAccessor{
		entities: map[string]domain.RawEntity{
			"algorithm|Backtracking": entityFor(domain.KindAlgorithm, "Backtracking"),
			"problem|N-Queens":       entityFor(domain.KindProblem, "N-Queens"),
		},
		neighbors: map[string][]domain.RawEdge{
			center.String(): {
				{From: center, Relationship: "SOLVES", Neighbor: entityFor(domain.KindProblem, "N-Queens")},
			},
		},
	}
}

func TestNodeDetailsNotFoundIs404WithErrorEnvelope(t *testing.T) {
	router := testRouter(t, &fakeAccessor{entities: map[string]domain.RawEntity{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/node/NonexistentTitle/details?node_type=problem", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Fatalf("404 must carry an error envelope, got %v", body)
	}
	if _, ok := body["basic_info"]; ok {
		t.Fatalf("404 must not carry basic_info, got %v", body)
	}
}

func TestNodeDetailsSuccessHasBasicInfo(t *testing.T) {
	router := testRouter(t, backtrackingAccessor())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/node/Backtracking/details?node_type=algorithm", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var detail domain.NodeDetail
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if detail.BasicInfo == nil || detail.BasicInfo.Title != "Backtracking" {
		t.Fatalf("basic_info missing: %s", w.Body.String())
	}
}

func TestNodeGraphPayloadShape(t *testing.T) {
	router := testRouter(t, backtrackingAccessor())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/node/gsrc_Backtracking/graph", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		GraphData    *domain.GraphData `json:"graph_data"`
		EntitiesUsed []string          `json:"entities_used"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.GraphData == nil || len(body.GraphData.Nodes) == 0 {
		t.Fatalf("renderable graph expected, got %s", w.Body.String())
	}
	if len(body.EntitiesUsed) != 1 {
		t.Fatalf("entities_used missing: %v", body.EntitiesUsed)
	}
}

func TestNodeGraphMalformedIDIs400(t *testing.T) {
	router := testRouter(t, backtrackingAccessor())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/node/bad%25zzid/graph", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRecommendAlwaysSucceedsWithPopulatedList(t *testing.T) {
	router := testRouter(t, &fakeAccessor{})

	payload, _ := json.Marshal(map[string]any{"query_title": "UnknownConceptXYZ", "k": 3})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/recommend", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Recommendations []domain.RecommendationItem `json:"recommendations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(body.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(body.Recommendations))
	}
	for _, item := range body.Recommendations {
		if item.Strength != domain.StrengthFallback {
			t.Fatalf("expected fallback strength, got %v", item.Strength)
		}
	}
}

func TestRecommendMissingTitleIs400(t *testing.T) {
	router := testRouter(t, &fakeAccessor{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/recommend", bytes.NewReader([]byte(`{"k": 3}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
