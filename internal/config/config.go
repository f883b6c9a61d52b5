package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `yaml:"addr"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout"`
	IdleTimeout       Duration `yaml:"idle_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout"`
	MaxRequestBytes   int64    `yaml:"max_request_bytes"`

	// CORSOrigins lists browser origins allowed to call the API (the dashboard pages).
	CORSOrigins []string `yaml:"cors_origins"`
}

type ArtifactConfig struct {
	// Path to the JSON bundle {columns, encoders, model}. A missing or invalid bundle puts the
	// service into degraded mode instead of failing startup.
	Path string `yaml:"path"`
}

type DatasetConfig struct {
	Path          string `yaml:"path"`
	OutcomeColumn string `yaml:"outcome_column"`

	// DSN for the SQLite database the CSV is loaded into. Defaults to a private in-memory database.
	DSN string `yaml:"dsn,omitempty"`
}

type FeaturesConfig struct {
	// BooleanColumns accept "yes"/"no" (any case) in addition to numbers.
	BooleanColumns []string `yaml:"boolean_columns"`
}

type GeneratorConfig struct {
	// Type is "ollama" (HTTP /api/generate) or "mock".
	Type string `yaml:"type"`

	BaseURL      string `yaml:"base_url,omitempty"`
	GeneratePath string `yaml:"generate_path,omitempty"`
	Model        string `yaml:"model"`

	AdviceTimeout Duration `yaml:"advice_timeout"`
	FactTimeout   Duration `yaml:"fact_timeout"`

	// MaxResponseBytes caps how much of an upstream reply is read.
	MaxResponseBytes int64 `yaml:"max_response_bytes,omitempty"`
}

type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name"`
	Version        string `yaml:"version,omitempty"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
}

type Config struct {
	Env       string          `yaml:"env"`
	HTTP      HTTPConfig      `yaml:"http"`
	Artifact  ArtifactConfig  `yaml:"artifact"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Features  FeaturesConfig  `yaml:"features"`
	Generator GeneratorConfig `yaml:"generator"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}
