package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codeatlas/kgqa-backend/internal/assemble"
	"github.com/codeatlas/kgqa-backend/internal/domain"
	"github.com/codeatlas/kgqa-backend/internal/http/response"
	"github.com/codeatlas/kgqa-backend/internal/platform/logger"
	"github.com/codeatlas/kgqa-backend/internal/resolve"
)

type NodeHandler struct {
	resolver *resolve.Resolver
	asm      *assemble.Assembler
	log      *logger.Logger
}

func NewNodeHandler(resolver *resolve.Resolver, asm *assemble.Assembler, log *logger.Logger) *NodeHandler {
	return &NodeHandler{
		resolver: resolver,
		asm:      asm,
		log:      log.With("handler", "Node"),
	}
}

// Details serves GET /api/node/:id/details?node_type=. 404 carries an
// error envelope, never an empty-but-200 detail object.
func (h *NodeHandler) Details(c *gin.Context) {
	key, err := h.resolveParam(c)
	if err != nil {
		respondForError(c, err)
		return
	}

	detail, err := h.asm.NodeDetail(c.Request.Context(), key)
	if err != nil {
		respondForError(c, err)
		return
	}
	response.RespondOK(c, detail)
}

// Graph serves GET /api/node/:id/graph?limit=&relations=. The payload
// carries graph_data as an object or null; clients render only a
// non-empty node list.
func (h *NodeHandler) Graph(c *gin.Context) {
	key, err := h.resolveParam(c)
	if err != nil {
		respondForError(c, err)
		return
	}

	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	var relations []string
	if raw := strings.TrimSpace(c.Query("relations")); raw != "" {
		for _, rel := range strings.Split(raw, ",") {
			if rel = strings.TrimSpace(rel); rel != "" {
				relations = append(relations, rel)
			}
		}
	}

	data, err := h.asm.Assemble(c.Request.Context(), key, limit, relations)
	if err != nil {
		respondForError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"graph_data":    data,
		"entities_used": []string{key.String()},
	})
}

func (h *NodeHandler) resolveParam(c *gin.Context) (domain.EntityKey, error) {
	var hint *domain.EntityKind
	if raw := c.Query("node_type"); raw != "" {
		if kind, ok := domain.ParseKind(raw); ok {
			hint = &kind
		}
	}
	return h.resolver.Resolve(c.Request.Context(), c.Param("id"), hint)
}
