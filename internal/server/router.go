package server

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/techblog/internal/app/domain/navigation"
	"github.com/FACorreiaa/techblog/internal/app/middleware"
	"github.com/FACorreiaa/techblog/internal/routes"
)

// SetupRouter configures the Gin router for one navigation graph
func SetupRouter(graph navigation.Graph, h *routes.AppHandlers, serviceName string, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestIDMiddleware())
	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context:    zapContextFunc(),
		SkipPaths:  []string{"/healthz"},
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(middleware.OTELGinMiddleware(serviceName))
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityMiddleware())
	r.Use(middleware.SessionMiddleware(graph.User))

	routes.Setup(r, h, graph, logger)

	return r
}

// zapContextFunc returns the Zap context function for logging.
// Request bodies are never logged; the login body carries a password.
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{}

		if requestID := c.Writer.Header().Get(middleware.RequestIDHeader); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			fields = append(fields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}

		fields = append(fields, zap.String("user_id", middleware.GetUserIDFromContext(c)))

		return fields
	}
}
