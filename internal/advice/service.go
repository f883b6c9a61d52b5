package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/strokeguard-backend/internal/config"
	"github.com/yungbote/strokeguard-backend/internal/engine"
	"github.com/yungbote/strokeguard-backend/internal/engine/ollama"
	"github.com/yungbote/strokeguard-backend/internal/observability"
	"github.com/yungbote/strokeguard-backend/internal/platform/logger"
)

const (
	kindAdvice = "advice"
	kindFact   = "fact"
)

// Service asks the generator for advice and facts. It never fails: upstream problems come
// back as explanatory text and empty replies as a placeholder.
type Service struct {
	engine        engine.Engine
	model         string
	adviceTimeout time.Duration
	factTimeout   time.Duration
	log           *logger.Logger
	metrics       *observability.Metrics
}

func New(eng engine.Engine, cfg config.GeneratorConfig, log *logger.Logger, metrics *observability.Metrics) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		engine:        eng,
		model:         cfg.Model,
		adviceTimeout: cfg.AdviceTimeout.Duration,
		factTimeout:   cfg.FactTimeout.Duration,
		log:           log.With("component", "AdviceService"),
		metrics:       metrics,
	}
}

func (s *Service) Advice(ctx context.Context, inputs any) string {
	text, err := s.generate(ctx, kindAdvice, AdvicePrompt(inputs), s.adviceTimeout)
	if err != nil {
		return "⚠️ Request failed: " + describe(err, s.adviceTimeout)
	}
	if text == "" {
		return AdvicePlaceholder
	}
	return text
}

func (s *Service) Fact(ctx context.Context) string {
	text, err := s.generate(ctx, kindFact, FactPrompt(), s.factTimeout)
	if err != nil {
		return fmt.Sprintf("⚠️ Could not connect to Ollama. (%s)", describe(err, s.factTimeout))
	}
	if text == "" {
		return FactPlaceholder
	}
	return text
}

func (s *Service) generate(ctx context.Context, kind, prompt string, timeout time.Duration) (string, error) {
	ctx, span := observability.Tracer().Start(ctx, "advice."+kind)
	defer span.End()
	span.SetAttributes(attribute.String("generator.model", s.model))

	start := time.Now()
	text, err := s.engine.GenerateText(ctx, s.model, prompt, engine.GenerateOptions{Timeout: timeout})
	text = strings.TrimSpace(text)
	dur := time.Since(start)

	outcome := classify(text, err)
	s.metrics.ObserveGeneration(kind, outcome, dur)
	span.SetAttributes(attribute.String("generator.outcome", outcome))

	if err != nil {
		span.RecordError(err)
		s.log.Warn("generation failed", "kind", kind, "outcome", outcome, "duration_ms", dur.Milliseconds(), "error", err, "prompt", prompt)
		return "", err
	}
	s.log.Debug("generation finished", "kind", kind, "outcome", outcome, "duration_ms", dur.Milliseconds())
	return text, nil
}

func classify(text string, err error) string {
	var (
		he *ollama.HTTPError
		me *ollama.MalformedError
	)
	switch {
	case err == nil && text == "":
		return "empty"
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &he):
		return "upstream_error"
	case errors.As(err, &me):
		return "malformed"
	case errors.Is(err, ollama.ErrReplyTooLarge):
		return "too_large"
	default:
		return "transport_error"
	}
}

func describe(err error, timeout time.Duration) string {
	if errors.Is(err, context.DeadlineExceeded) && timeout > 0 {
		return fmt.Sprintf("no reply within %s", timeout)
	}
	return err.Error()
}
