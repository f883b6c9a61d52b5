package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/strokeguard-backend/internal/http/handlers"
	httpMW "github.com/yungbote/strokeguard-backend/internal/http/middleware"
	"github.com/yungbote/strokeguard-backend/internal/observability"
	"github.com/yungbote/strokeguard-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	ServiceName     string
	CORSOrigins     []string
	MaxRequestBytes int64

	PredictHandler *httpH.PredictHandler
	StatsHandler   *httpH.StatsHandler
	AdviceHandler  *httpH.AdviceHandler
	ModelHandler   *httpH.ModelHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Recover(cfg.Log))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.MaxBodyBytes(cfg.MaxRequestBytes))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Scoring
	if cfg.PredictHandler != nil {
		r.POST("/predict", cfg.PredictHandler.Predict)
	}
	if cfg.ModelHandler != nil {
		r.GET("/model", cfg.ModelHandler.Describe)
	}

	// Dataset
	if cfg.StatsHandler != nil {
		r.GET("/stats_data/:attribute", cfg.StatsHandler.StatsData)
		r.GET("/form_options", cfg.StatsHandler.FormOptions)
	}

	// Generation
	if cfg.AdviceHandler != nil {
		r.POST("/ask_ai", cfg.AdviceHandler.AskAI)
		r.GET("/get_fact", cfg.AdviceHandler.GetFact)
	}

	return r
}
