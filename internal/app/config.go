package app

import (
	"strings"
	"time"

	"github.com/yungbote/speakwell-backend/internal/data/db"
	"github.com/yungbote/speakwell-backend/internal/observability"
	"github.com/yungbote/speakwell-backend/internal/platform/envutil"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

type Config struct {
	Port    string
	LogMode string

	DB db.Options

	JWTSecretKey string
	JWTIssuer    string

	RequestTimeout time.Duration
	CORSOrigins    []string

	MetricsEnabled bool
	Otel           observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:    envutil.String("PORT", "8080"),
		LogMode: envutil.String("LOG_MODE", "development"),
		DB: db.Options{
			Driver:       strings.ToLower(envutil.String("DB_DRIVER", db.DriverPostgres)),
			DSN:          envutil.String("DB_DSN", ""),
			Host:         envutil.String("POSTGRES_HOST", "localhost"),
			Port:         envutil.String("POSTGRES_PORT", "5432"),
			User:         envutil.String("POSTGRES_USER", "postgres"),
			Password:     envutil.String("POSTGRES_PASSWORD", ""),
			Name:         envutil.String("POSTGRES_NAME", "speakwell"),
			MaxOpenConns: envutil.Int("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns: envutil.Int("DB_MAX_IDLE_CONNS", 5),
			SlowQuery:    envutil.Duration("DB_SLOW_QUERY", time.Second),
		},
		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", ""),
		JWTIssuer:      envutil.String("JWT_ISSUER", ""),
		RequestTimeout: envutil.Duration("REQUEST_TIMEOUT", 15*time.Second),
		CORSOrigins:    envutil.CSV("CORS_ORIGINS", ""),
		MetricsEnabled: envutil.Bool("METRICS_ENABLED", true),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("SERVICE_NAME", "speakwell-api"),
			Environment: envutil.String("APP_ENV", "development"),
			Version:     envutil.String("APP_VERSION", "dev"),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1),
		},
	}
	if cfg.JWTSecretKey == "" && log != nil {
		log.Warn("JWT_SECRET_KEY is empty; every authenticated request will be rejected")
	}
	return cfg
}
