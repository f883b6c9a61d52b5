package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/strokeguard-backend/internal/dataset"
	"github.com/yungbote/strokeguard-backend/internal/http/response"
)

type DatasetReader interface {
	CrossTab(ctx context.Context, attribute string) ([]dataset.StatRow, error)
	Choices(ctx context.Context) (map[string][]string, error)
	FeatureColumns() []string
}

type StatsHandler struct {
	ds DatasetReader
}

func NewStatsHandler(ds DatasetReader) *StatsHandler {
	return &StatsHandler{ds: ds}
}

type statsResponse struct {
	Labels   []string `json:"labels"`
	Stroke   []int64  `json:"stroke"`
	NoStroke []int64  `json:"no_stroke"`
}

// GET /stats_data/:attribute
func (h *StatsHandler) StatsData(c *gin.Context) {
	rows, err := h.ds.CrossTab(c.Request.Context(), c.Param("attribute"))
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, dataset.ErrInvalidAttribute) {
			response.RespondError(c, http.StatusBadRequest, "Invalid attribute")
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "Stats unavailable")
		return
	}

	out := statsResponse{
		Labels:   make([]string, len(rows)),
		Stroke:   make([]int64, len(rows)),
		NoStroke: make([]int64, len(rows)),
	}
	for i, r := range rows {
		out.Labels[i] = r.Label
		out.Stroke[i] = r.Positive
		out.NoStroke[i] = r.Negative
	}
	response.RespondOK(c, out)
}

// GET /form_options
func (h *StatsHandler) FormOptions(c *gin.Context) {
	choices, err := h.ds.Choices(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		response.RespondError(c, http.StatusInternalServerError, "Form options unavailable")
		return
	}
	response.RespondOK(c, gin.H{
		"columns": h.ds.FeatureColumns(),
		"choices": choices,
	})
}
