package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeatlas/kgqa-backend/internal/graph"
	"github.com/codeatlas/kgqa-backend/internal/http/response"
	"github.com/codeatlas/kgqa-backend/internal/platform/apierr"
	"github.com/codeatlas/kgqa-backend/internal/resolve"
)

// respondForError maps the core error taxonomy onto HTTP statuses:
// resolution misses are 404, malformed identifiers are 400, everything
// else from the graph is a 502 because there is no meaningful fallback
// for "show me this specific node".
func respondForError(c *gin.Context, err error) {
	var apiErr *apierr.Error
	switch {
	case errors.Is(err, resolve.ErrMalformedID):
		response.RespondError(c, http.StatusBadRequest, "malformed_id", err)
	case errors.Is(err, graph.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.As(err, &apiErr) && apiErr.Status != 0:
		response.RespondError(c, apiErr.Status, apiErr.Code, err)
	default:
		response.RespondError(c, http.StatusBadGateway, "upstream_unavailable", err)
	}
}
