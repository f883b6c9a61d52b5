package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/strokeguard-backend/internal/features"
	"github.com/yungbote/strokeguard-backend/internal/http/response"
	"github.com/yungbote/strokeguard-backend/internal/platform/ctxutil"
	"github.com/yungbote/strokeguard-backend/internal/platform/logger"
	"github.com/yungbote/strokeguard-backend/internal/scoring"
)

const predictFailed = "Prediction failed"

type Scorer interface {
	Score(ctx context.Context, raw features.RawSubmission) (scoring.Result, error)
}

type PredictHandler struct {
	scorer Scorer
	log    *logger.Logger
}

func NewPredictHandler(scorer Scorer, log *logger.Logger) *PredictHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PredictHandler{scorer: scorer, log: log.With("handler", "PredictHandler")}
}

// POST /predict
func (h *PredictHandler) Predict(c *gin.Context) {
	raw, err := decodeSubmission(c)
	if err != nil {
		_ = c.Error(err)
		response.RespondError(c, http.StatusInternalServerError, predictFailed)
		return
	}

	res, err := h.scorer.Score(c.Request.Context(), raw)
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, scoring.ErrUnavailable) {
			response.RespondError(c, http.StatusServiceUnavailable, predictFailed)
			return
		}
		fields := append([]interface{}{"error", err, "submission", raw}, ctxutil.LogFields(c.Request.Context())...)
		h.log.Warn("prediction failed", fields...)
		response.RespondError(c, http.StatusInternalServerError, predictFailed)
		return
	}

	response.RespondOK(c, res)
}

func decodeSubmission(c *gin.Context) (features.RawSubmission, error) {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	var raw features.RawSubmission
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode submission: %w", err)
	}
	if raw == nil {
		return nil, errors.New("decode submission: body is not a JSON object")
	}
	return raw, nil
}
