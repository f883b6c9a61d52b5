package app

import (
	"fmt"

	"github.com/yungbote/strokeguard-backend/internal/config"
	"github.com/yungbote/strokeguard-backend/internal/engine"
	"github.com/yungbote/strokeguard-backend/internal/engine/mock"
	"github.com/yungbote/strokeguard-backend/internal/engine/ollama"
)

func newEngine(cfg config.GeneratorConfig) (engine.Engine, error) {
	switch cfg.Type {
	case config.EngineMock:
		return mock.New(), nil
	case config.EngineOllama:
		e, err := ollama.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("init ollama engine: %w", err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unsupported generator type %q", cfg.Type)
	}
}
