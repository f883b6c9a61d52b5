package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/strokeguard-backend/internal/artifact"
)

type HealthHandler struct {
	store *artifact.Store
}

func NewHealthHandler(store *artifact.Store) *HealthHandler { return &HealthHandler{store: store} }

// GET /healthz
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /readyz
// A degraded store still answers 200: everything except scoring keeps serving.
func (h *HealthHandler) Ready(c *gin.Context) {
	state := h.store.State()
	c.JSON(http.StatusOK, gin.H{
		"status":       state.String(),
		"model_loaded": state == artifact.StateLoaded,
	})
}
