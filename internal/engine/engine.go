package engine

import (
	"context"
	"time"
)

type GenerateOptions struct {
	// Timeout bounds the whole call, reading the reply included. Zero means no extra bound.
	Timeout time.Duration
}

// Engine turns a prompt into text. An empty string with a nil error means the upstream
// answered but produced nothing.
type Engine interface {
	GenerateText(ctx context.Context, model string, prompt string, opts GenerateOptions) (string, error)
}
