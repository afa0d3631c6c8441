package http

import (
	"github.com/cookme/web/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger logrus.FieldLogger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware; the error handler sits innermost so the others see its 500
	router.Use(RequestIDMiddleware(logger))
	router.Use(LoggerMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(ErrorHandlerMiddleware())

	router.GET("/", handler.Show)
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
