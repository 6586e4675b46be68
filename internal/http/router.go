package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/speakwell-backend/internal/http/handlers"
	httpMW "github.com/yungbote/speakwell-backend/internal/http/middleware"
	"github.com/yungbote/speakwell-backend/internal/observability"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	AuthMiddleware    *httpMW.AuthMiddleware
	AssignmentHandler *httpH.AssignmentHandler
	ContentHandler    *httpH.ContentHandler
	HealthHandler     *httpH.HealthHandler

	CORSOrigins    []string
	RequestTimeout time.Duration
	// TracingService enables otelgin spans under this service name when set.
	TracingService string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	protected := r.Group("/api")
	{
		// Middleware
		protected.Use(httpMW.Timeout(cfg.RequestTimeout))
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Assignments
		if cfg.AssignmentHandler != nil {
			protected.POST("/assignments", cfg.AssignmentHandler.CreateAssignment)
			protected.DELETE("/assignments/:id", cfg.AssignmentHandler.DeleteAssignment)
			protected.GET("/assignments/:id/progress", cfg.AssignmentHandler.GetProgress)
		}

		// Content
		if cfg.ContentHandler != nil {
			protected.PUT("/assignment-contents/:id/items", cfg.ContentHandler.UpdateAssignmentContent)
			protected.PUT("/templates/:id/items", cfg.ContentHandler.ReplaceTemplateItems)
		}
	}

	return r
}
