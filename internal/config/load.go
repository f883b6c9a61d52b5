package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/strokeguard-backend/internal/platform/envutil"
)

const (
	EngineOllama = "ollama"
	EngineMock   = "mock"
)

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	if s == "" || value.Tag == "!!null" {
		d.Duration = 0
		return nil
	}
	if value.Tag == "!!int" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("duration must be a string like \"5s\" or an int nanoseconds: %w", err)
		}
		d.Duration = time.Duration(n)
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dd
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

func Default() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":5000",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   1 << 20,
			CORSOrigins: []string{
				"http://localhost:5000",
				"http://127.0.0.1:5000",
			},
		},
		Artifact: ArtifactConfig{Path: "stroke_model.json"},
		Dataset: DatasetConfig{
			Path:          "brain_stroke.csv",
			OutcomeColumn: "stroke",
		},
		Features: FeaturesConfig{
			BooleanColumns: []string{"hypertension", "heart_disease"},
		},
		Generator: GeneratorConfig{
			Type:             EngineOllama,
			BaseURL:          "http://localhost:11434",
			GeneratePath:     "/api/generate",
			Model:            "gemma3:4b",
			AdviceTimeout:    Duration{Duration: 120 * time.Second},
			FactTimeout:      Duration{Duration: 60 * time.Second},
			MaxResponseBytes: 4 << 20,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "strokeguard",
		},
	}
}

// Load reads the YAML file named by STROKEGUARD_CONFIG_PATH (or ./config/config.yaml when
// present) over the defaults, then applies environment overrides.
func Load() (*Config, error) {
	cfgPath := strings.TrimSpace(os.Getenv("STROKEGUARD_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	return LoadFrom(cfgPath)
}

// LoadFrom is Load with an explicit file path; an empty path means defaults plus environment.
func LoadFrom(cfgPath string) (*Config, error) {
	cfg := Default()

	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		// An empty file decodes to io.EOF and leaves the defaults alone.
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode config %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)

	if err := normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.HTTP.Addr = envutil.String("STROKEGUARD_HTTP_ADDR", cfg.HTTP.Addr)
	cfg.Artifact.Path = envutil.String("STROKEGUARD_ARTIFACT_PATH", cfg.Artifact.Path)
	cfg.Dataset.Path = envutil.String("STROKEGUARD_DATASET_PATH", cfg.Dataset.Path)
	cfg.Generator.Type = envutil.String("STROKEGUARD_GENERATOR_TYPE", cfg.Generator.Type)
	cfg.Generator.BaseURL = envutil.String("STROKEGUARD_GENERATOR_URL", cfg.Generator.BaseURL)
	cfg.Generator.Model = envutil.String("STROKEGUARD_GENERATOR_MODEL", cfg.Generator.Model)
	cfg.Telemetry.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.Telemetry.MetricsEnabled)
}

func normalize(cfg *Config) error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":5000"
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 1 << 20
	}
	if cfg.HTTP.ShutdownTimeout.Duration <= 0 {
		cfg.HTTP.ShutdownTimeout = Duration{Duration: 15 * time.Second}
	}

	cfg.Dataset.OutcomeColumn = strings.TrimSpace(cfg.Dataset.OutcomeColumn)
	if cfg.Dataset.OutcomeColumn == "" {
		return errors.New("dataset.outcome_column is required")
	}
	if strings.TrimSpace(cfg.Dataset.Path) == "" {
		return errors.New("dataset.path is required")
	}

	bools := make([]string, 0, len(cfg.Features.BooleanColumns))
	for _, c := range cfg.Features.BooleanColumns {
		if c = strings.TrimSpace(c); c != "" {
			bools = append(bools, c)
		}
	}
	cfg.Features.BooleanColumns = bools

	g := &cfg.Generator
	g.Type = strings.ToLower(strings.TrimSpace(g.Type))
	switch g.Type {
	case "":
		g.Type = EngineOllama
	case EngineOllama, EngineMock:
	default:
		return fmt.Errorf("generator.type %q unsupported (want %q or %q)", g.Type, EngineOllama, EngineMock)
	}
	g.BaseURL = strings.TrimRight(strings.TrimSpace(g.BaseURL), "/")
	if g.Type == EngineOllama && g.BaseURL == "" {
		return errors.New("generator.base_url is required for the ollama engine")
	}
	g.GeneratePath = strings.TrimSpace(g.GeneratePath)
	if g.GeneratePath == "" {
		g.GeneratePath = "/api/generate"
	}
	if !strings.HasPrefix(g.GeneratePath, "/") {
		g.GeneratePath = "/" + g.GeneratePath
	}
	if strings.TrimSpace(g.Model) == "" {
		return errors.New("generator.model is required")
	}
	if g.AdviceTimeout.Duration < 0 || g.FactTimeout.Duration < 0 {
		return errors.New("generator timeouts must not be negative")
	}
	if g.AdviceTimeout.Duration == 0 {
		g.AdviceTimeout = Duration{Duration: 120 * time.Second}
	}
	if g.FactTimeout.Duration == 0 {
		g.FactTimeout = Duration{Duration: 60 * time.Second}
	}
	if g.MaxResponseBytes <= 0 {
		g.MaxResponseBytes = 4 << 20
	}

	if strings.TrimSpace(cfg.Telemetry.ServiceName) == "" {
		cfg.Telemetry.ServiceName = "strokeguard"
	}
	return nil
}
