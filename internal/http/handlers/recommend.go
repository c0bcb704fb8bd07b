package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeatlas/kgqa-backend/internal/http/response"
	"github.com/codeatlas/kgqa-backend/internal/platform/logger"
	"github.com/codeatlas/kgqa-backend/internal/recommend"
)

type RecommendHandler struct {
	reco   *recommend.Recommender
	source recommend.Source
	log    *logger.Logger
}

func NewRecommendHandler(reco *recommend.Recommender, source recommend.Source, log *logger.Logger) *RecommendHandler {
	return &RecommendHandler{
		reco:   reco,
		source: source,
		log:    log.With("handler", "Recommend"),
	}
}

type recommendRequest struct {
	QueryTitle string   `json:"query_title" binding:"required"`
	K          int      `json:"k"`
	Tags       []string `json:"tags"`
}

// Recommend serves POST /api/recommend. A well-formed request always gets
// a 200 with a populated list; candidate-source and embedding failures
// surface as fallback items, never as errors.
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.K <= 0 {
		req.K = 5
	}

	ctx := c.Request.Context()
	pool, err := h.source.Candidates(ctx, req.QueryTitle, req.K*4)
	if err != nil {
		h.log.Warn("candidate source failed, recommender will fall back", "error", err)
		pool = nil
	}

	result := h.reco.Recommend(ctx, recommend.Query{Title: req.QueryTitle, Tags: req.Tags}, pool, req.K)
	if result.Note != "" {
		h.log.Info("served fallback recommendations", "note", result.Note, "query_title", req.QueryTitle)
	}
	response.RespondOK(c, gin.H{"recommendations": result.Recommendations})
}
