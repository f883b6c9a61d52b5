package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.HTTP.Addr)
	assert.Equal(t, "stroke", cfg.Dataset.OutcomeColumn)
	assert.Equal(t, []string{"hypertension", "heart_disease"}, cfg.Features.BooleanColumns)
	assert.Equal(t, EngineOllama, cfg.Generator.Type)
	assert.Equal(t, "gemma3:4b", cfg.Generator.Model)
	assert.Equal(t, 120*time.Second, cfg.Generator.AdviceTimeout.Duration)
	assert.Equal(t, 60*time.Second, cfg.Generator.FactTimeout.Duration)
}

func TestFileOverridesDefaults(t *testing.T) {
	p := writeFile(t, `
http:
  addr: ":9000"
generator:
  base_url: http://ollama:11434/
  advice_timeout: 30s
  fact_timeout: 5000000000
`)
	cfg, err := LoadFrom(p)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ShutdownTimeout.Duration, "untouched defaults survive")
	assert.Equal(t, "http://ollama:11434", cfg.Generator.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Generator.AdviceTimeout.Duration)
	assert.Equal(t, 5*time.Second, cfg.Generator.FactTimeout.Duration)
	assert.Equal(t, "gemma3:4b", cfg.Generator.Model)
}

func TestEnvOverridesFile(t *testing.T) {
	p := writeFile(t, "artifact:\n  path: from-file.json\n")
	t.Setenv("STROKEGUARD_ARTIFACT_PATH", "/models/from-env.json")
	t.Setenv("STROKEGUARD_GENERATOR_MODEL", "llama3")
	t.Setenv("METRICS_ENABLED", "true")

	cfg, err := LoadFrom(p)
	require.NoError(t, err)
	assert.Equal(t, "/models/from-env.json", cfg.Artifact.Path)
	assert.Equal(t, "llama3", cfg.Generator.Model)
	assert.True(t, cfg.Telemetry.MetricsEnabled)
}

func TestLoadUsesConfigPathEnv(t *testing.T) {
	p := writeFile(t, "dataset:\n  path: elsewhere.csv\n")
	t.Setenv("STROKEGUARD_CONFIG_PATH", p)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "elsewhere.csv", cfg.Dataset.Path)
}

func TestEmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := LoadFrom(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "brain_stroke.csv", cfg.Dataset.Path)
}

func TestValidation(t *testing.T) {
	cases := map[string]string{
		"unknown engine":   "generator:\n  type: openai\n",
		"negative timeout": "generator:\n  advice_timeout: -1s\n",
		"blank outcome":    "dataset:\n  outcome_column: \"  \"\n",
		"unknown key":      "generater:\n  type: mock\n",
		"bad duration":     "http:\n  idle_timeout: soon\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(writeFile(t, body))
			assert.Error(t, err)
		})
	}
}
