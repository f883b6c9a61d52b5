package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/strokeguard-backend/internal/artifact"
)

type ModelHandler struct {
	store *artifact.Store
}

func NewModelHandler(store *artifact.Store) *ModelHandler {
	return &ModelHandler{store: store}
}

type modelResponse struct {
	Loaded    bool                `json:"loaded"`
	Status    string              `json:"status"`
	Columns   []string            `json:"columns"`
	Encoders  map[string][]string `json:"encoders"`
	ModelType string              `json:"model_type,omitempty"`
	Threshold float64             `json:"threshold,omitempty"`
}

// GET /model
func (h *ModelHandler) Describe(c *gin.Context) {
	out := modelResponse{
		Status:   h.store.State().String(),
		Columns:  []string{},
		Encoders: map[string][]string{},
	}
	if b, ok := h.store.Bundle(); ok {
		out.Loaded = true
		out.Columns = b.Schema()
		out.Encoders = b.EncoderClasses()
		out.ModelType = b.Model().Type()
		out.Threshold = b.Model().Threshold()
	}
	c.JSON(http.StatusOK, out)
}
