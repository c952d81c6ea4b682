package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quillgraph/quill/internal/store"
)

// HealthHandler reports whether the database is reachable.
type HealthHandler struct {
	store *store.Store
}

// NewHealthHandler creates a HealthHandler for s.
func NewHealthHandler(s *store.Store) *HealthHandler {
	return &HealthHandler{store: s}
}

// Check pings the database.
func (h *HealthHandler) Check(ctx *gin.Context) {
	if err := h.store.Ping(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
