package scoring

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/strokeguard-backend/internal/artifact"
	"github.com/yungbote/strokeguard-backend/internal/classifier"
	"github.com/yungbote/strokeguard-backend/internal/features"
	"github.com/yungbote/strokeguard-backend/internal/observability"
	"github.com/yungbote/strokeguard-backend/internal/platform/logger"
)

// ErrUnavailable is returned while the artifact store is degraded.
var ErrUnavailable = errors.New("scoring unavailable: no model bundle loaded")

type Result struct {
	Label       int     `json:"prediction"`
	Probability float64 `json:"probability"`
}

// Scorer runs a raw submission through normalize, encode, reindex and the model.
type Scorer struct {
	store          *artifact.Store
	booleanColumns []string
	log            *logger.Logger
	metrics        *observability.Metrics
}

func New(store *artifact.Store, booleanColumns []string, log *logger.Logger, metrics *observability.Metrics) *Scorer {
	if log == nil {
		log = logger.Nop()
	}
	return &Scorer{
		store:          store,
		booleanColumns: append([]string(nil), booleanColumns...),
		log:            log.With("component", "Scorer"),
		metrics:        metrics,
	}
}

func (s *Scorer) Available() bool {
	_, ok := s.store.Bundle()
	return ok
}

func (s *Scorer) Score(ctx context.Context, raw features.RawSubmission) (res Result, err error) {
	_, span := observability.Tracer().Start(ctx, "scoring.Score")
	defer span.End()

	b, ok := s.store.Bundle()
	if !ok {
		s.metrics.IncPrediction("unavailable")
		span.SetStatus(codes.Error, "degraded")
		return Result{}, ErrUnavailable
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("inference panic: %v", r)
		}
		if err != nil {
			s.metrics.IncPrediction("error")
			span.RecordError(err)
			span.SetStatus(codes.Error, "scoring failed")
		}
	}()

	rec := features.Normalize(raw, s.booleanColumns)
	encoded, report := features.Encode(rec, b.Encoders())
	if fallbacks := report.Fallbacks(); len(fallbacks) > 0 {
		for _, col := range fallbacks {
			s.metrics.IncEncoderFallback(col)
		}
		s.log.Warn("unseen category values encoded with fallback code", "columns", fallbacks, "code", features.FallbackCode)
	}

	x, err := features.Reindex(encoded, b.Schema())
	if err != nil {
		return Result{}, fmt.Errorf("reindex: %w", err)
	}

	model := b.Model()
	p, err := model.PredictProba(x)
	if err != nil {
		return Result{}, fmt.Errorf("predict: %w", err)
	}
	res = Result{Label: classifier.Label(model, p), Probability: p}

	outcome := "negative"
	if res.Label == 1 {
		outcome = "positive"
	}
	s.metrics.IncPrediction(outcome)
	span.SetAttributes(
		attribute.String("model.type", model.Type()),
		attribute.Int("encoder.fallbacks", len(report.Fallbacks())),
		attribute.Int("prediction.label", res.Label),
	)
	return res, nil
}
