package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Advisor interface {
	Advice(ctx context.Context, inputs any) string
	Fact(ctx context.Context) string
}

type AdviceHandler struct {
	advisor Advisor
}

func NewAdviceHandler(advisor Advisor) *AdviceHandler {
	return &AdviceHandler{advisor: advisor}
}

type askRequest struct {
	Inputs any `json:"inputs"`
}

// POST /ask_ai
// Always 200: upstream trouble is reported inside ai_response.
func (h *AdviceHandler) AskAI(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		req.Inputs = nil
	}
	c.JSON(http.StatusOK, gin.H{"ai_response": h.advisor.Advice(c.Request.Context(), req.Inputs)})
}

// GET /get_fact
func (h *AdviceHandler) GetFact(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fact": h.advisor.Fact(c.Request.Context())})
}
