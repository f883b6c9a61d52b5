package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yungbote/strokeguard-backend/internal/advice"
	"github.com/yungbote/strokeguard-backend/internal/artifact"
	"github.com/yungbote/strokeguard-backend/internal/config"
	"github.com/yungbote/strokeguard-backend/internal/dataset"
	"github.com/yungbote/strokeguard-backend/internal/engine"
	"github.com/yungbote/strokeguard-backend/internal/engine/mock"
	"github.com/yungbote/strokeguard-backend/internal/engine/ollama"
	httpH "github.com/yungbote/strokeguard-backend/internal/http/handlers"
	"github.com/yungbote/strokeguard-backend/internal/observability"
	"github.com/yungbote/strokeguard-backend/internal/platform/logger"
	"github.com/yungbote/strokeguard-backend/internal/scoring"
)

var booleanColumns = []string{"hypertension", "heart_disease"}

type fixture struct {
	router  *gin.Engine
	metrics *observability.Metrics
}

type fixtureOptions struct {
	log     *logger.Logger
	dataset string
}

func newFixture(t *testing.T, store *artifact.Store, eng engine.Engine) fixture {
	return newFixtureWith(t, store, eng, fixtureOptions{})
}

func newFixtureWith(t *testing.T, store *artifact.Store, eng engine.Engine, opts fixtureOptions) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if opts.dataset == "" {
		opts.dataset = "sample.csv"
	}
	ds, err := dataset.Load(context.Background(), nil, dataset.Options{
		Path:          filepath.Join("testdata", opts.dataset),
		OutcomeColumn: "stroke",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ds.Close() })

	gen := config.Default().Generator
	gen.AdviceTimeout = config.Duration{Duration: 2 * time.Second}
	gen.FactTimeout = config.Duration{Duration: 2 * time.Second}

	m := observability.NewMetrics()
	r := NewRouter(RouterConfig{
		Log:             opts.log,
		Metrics:         m,
		CORSOrigins:     []string{"http://localhost:5000"},
		MaxRequestBytes: 1 << 16,
		PredictHandler:  httpH.NewPredictHandler(scoring.New(store, booleanColumns, opts.log, m), opts.log),
		StatsHandler:    httpH.NewStatsHandler(ds),
		AdviceHandler:   httpH.NewAdviceHandler(advice.New(eng, gen, opts.log, m)),
		ModelHandler:    httpH.NewModelHandler(store),
		HealthHandler:   httpH.NewHealthHandler(store),
	})
	return fixture{router: r, metrics: m}
}

func loadedStore(t *testing.T) *artifact.Store {
	t.Helper()
	s := artifact.Open(filepath.Join("testdata", "stroke_model.json"))
	require.Equal(t, artifact.StateLoaded, s.State(), "%v", s.Err())
	return s
}

func (f fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestPredictEndToEnd(t *testing.T) {
	f := newFixture(t, loadedStore(t), mock.New())

	rec := f.do(http.MethodPost, "/predict", `{
		"gender": "Male", "age": "67", "hypertension": "Yes", "heart_disease": "No",
		"ever_married": "Yes", "work_type": "Astronaut", "Residence_type": "Urban",
		"avg_glucose_level": "228.69", "bmi": "36.6", "smoking_status": "formerly smoked"
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Prediction  int     `json:"prediction"`
		Probability float64 `json:"probability"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Prediction)
	assert.InDelta(t, 0.55, out.Probability, 1e-9)
}

func TestPredictFailures(t *testing.T) {
	f := newFixture(t, loadedStore(t), mock.New())

	for name, body := range map[string]string{
		"not json":       `{"age":`,
		"array":          `[1,2]`,
		"text in number": `{"bmi":"heavy"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := f.do(http.MethodPost, "/predict", body)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t, `{"error":"Prediction failed"}`, rec.Body.String())
		})
	}
}

func TestPredictFailureKeepsSubmissionOutOfLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	f := newFixtureWith(t, loadedStore(t), mock.New(), fixtureOptions{log: logger.NewFromCore(core)})

	const secret = "JaneDoe-DOB-1961-03-02"
	rec := f.do(http.MethodPost, "/predict", `{"bmi":"`+secret+`","gender":"`+secret+`-g"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	entries := logs.All()
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.NotContains(t, e.Message, secret)
		for k, v := range e.ContextMap() {
			assert.NotContains(t, fmt.Sprint(v), secret, "%q field of %q", k, e.Message)
		}
	}
}

func TestPredictDegraded(t *testing.T) {
	store := artifact.Open(filepath.Join(t.TempDir(), "missing.json"))
	f := newFixture(t, store, mock.New())

	rec := f.do(http.MethodPost, "/predict", `{"age": 40}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"Prediction failed"}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","model_loaded":false}`, rec.Body.String())

	// the rest of the service keeps serving
	rec = f.do(http.MethodGet, "/stats_data/gender", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatsData(t *testing.T) {
	f := newFixture(t, loadedStore(t), mock.New())

	rec := f.do(http.MethodGet, "/stats_data/hypertension", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"labels":["0","1"],"stroke":[3,0],"no_stroke":[6,2]}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/stats_data/favourite_colour", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid attribute"}`, rec.Body.String())
}

func TestStatsDataWithoutAnyPositives(t *testing.T) {
	f := newFixtureWith(t, loadedStore(t), mock.New(), fixtureOptions{dataset: "no_strokes.csv"})

	rec := f.do(http.MethodGet, "/stats_data/gender", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"labels":["Female","Male","Other"],"stroke":[0,0,0],"no_stroke":[1,2,1]}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/stats_data/hypertension", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"labels":["0","1"],"stroke":[0,0],"no_stroke":[2,2]}`, rec.Body.String())
}

func TestFormOptionsAndModel(t *testing.T) {
	f := newFixture(t, loadedStore(t), mock.New())

	rec := f.do(http.MethodGet, "/form_options", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var opts struct {
		Columns []string            `json:"columns"`
		Choices map[string][]string `json:"choices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.NotContains(t, opts.Columns, "stroke")
	assert.Equal(t, []string{"Yes", "No"}, opts.Choices["ever_married"])

	rec = f.do(http.MethodGet, "/model", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var model struct {
		Loaded    bool                `json:"loaded"`
		ModelType string              `json:"model_type"`
		Encoders  map[string][]string `json:"encoders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &model))
	assert.True(t, model.Loaded)
	assert.Equal(t, "random_forest", model.ModelType)
	assert.Equal(t, []string{"Female", "Male"}, model.Encoders["gender"])
}

func TestAskAIUpstreamDown(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	url := down.URL
	down.Close()

	gen := config.Default().Generator
	gen.BaseURL = url
	eng, err := ollama.New(gen)
	require.NoError(t, err)
	f := newFixture(t, loadedStore(t), eng)

	rec := f.do(http.MethodPost, "/ask_ai", `{"inputs":{"age":67}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, strings.HasPrefix(out["ai_response"], "⚠️ Request failed: "), out["ai_response"])

	rec = f.do(http.MethodGet, "/get_fact", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, strings.HasPrefix(out["fact"], "⚠️ Could not connect to Ollama."), out["fact"])
}

func TestAskAIWithMalformedBody(t *testing.T) {
	reply := "Stay active."
	f := newFixture(t, loadedStore(t), &mock.Engine{Reply: &reply})

	rec := f.do(http.MethodPost, "/ask_ai", `not json`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ai_response":"Stay active."}`, rec.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t, loadedStore(t), mock.New())

	rec := f.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, "ok", rec.Body.String())

	f.do(http.MethodPost, "/predict", `{"age": 30}`)
	rec = f.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `strokeguard_predictions_total{outcome="negative"} 1`)
	assert.Contains(t, rec.Body.String(), `strokeguard_api_requests_total{method="POST",route="/predict",status="200"} 1`)
}
