package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/speakwell-backend/internal/http"
	httpH "github.com/yungbote/speakwell-backend/internal/http/handlers"
	httpMW "github.com/yungbote/speakwell-backend/internal/http/middleware"
	"github.com/yungbote/speakwell-backend/internal/observability"
	"github.com/yungbote/speakwell-backend/internal/platform/authtoken"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Assignment *httpH.AssignmentHandler
	Content    *httpH.ContentHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	var pinger httpH.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}
	return Handlers{
		Health:     httpH.NewHealthHandler(pinger),
		Assignment: httpH.NewAssignmentHandler(services.Assignments, services.Ledger),
		Content:    httpH.NewContentHandler(services.Edits),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, authtoken.NewVerifier(cfg.JWTSecretKey, cfg.JWTIssuer)),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	rc := http.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		AuthMiddleware:    middleware.Auth,
		AssignmentHandler: handlers.Assignment,
		ContentHandler:    handlers.Content,
		HealthHandler:     handlers.Health,
		CORSOrigins:       cfg.CORSOrigins,
		RequestTimeout:    cfg.RequestTimeout,
	}
	if cfg.Otel.Enabled {
		rc.TracingService = cfg.Otel.ServiceName
	}
	return http.NewServer(rc)
}
