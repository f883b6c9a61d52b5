package mock

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/yungbote/strokeguard-backend/internal/engine"
)

var tips = []string{
	"Keep blood pressure under regular review and follow up on readings above 130/80.",
	"Aim for 150 minutes of moderate activity a week, spread over most days.",
	"Limit salt, favour vegetables and whole grains, and keep alcohol moderate.",
	"If you smoke, a cessation programme roughly halves stroke risk within a few years.",
	"Know the FAST signs: face drooping, arm weakness, speech difficulty, time to call emergency services.",
}

// Engine is a deterministic offline generator for development and tests.
type Engine struct {
	// Err, when set, is returned from every call.
	Err error
	// Reply, when set, is returned verbatim instead of a canned tip.
	Reply *string
}

func New() *Engine {
	return &Engine{}
}

func (e *Engine) GenerateText(ctx context.Context, model string, prompt string, opts engine.GenerateOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if e.Err != nil {
		return "", e.Err
	}
	if e.Reply != nil {
		return *e.Reply, nil
	}
	if strings.TrimSpace(prompt) == "" {
		return "", nil
	}
	h := sha256.Sum256([]byte(model + "\n" + prompt))
	i := binary.LittleEndian.Uint32(h[:4]) % uint32(len(tips))
	return fmt.Sprintf("mock: %s", tips[i]), nil
}
