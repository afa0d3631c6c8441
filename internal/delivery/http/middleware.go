package http

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"

	// internalErrorMessage is the only body a failed request ever gets
	internalErrorMessage = "An internal error occurred."
)

// RequestIDMiddleware tags every request with an ID and stores a logger
// carrying it in the context
func RequestIDMiddleware(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)
		c.Set(loggerKey, logger.WithField("request_id", requestID))

		c.Next()
	}
}

// LoggerMiddleware logs every request once it has been served
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log := requestLogger(c, logrus.StandardLogger()).WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("request served")
			return
		}
		log.Info("request served")
	}
}

// ErrorHandlerMiddleware turns panics and handler errors into a plain 500
// response. The failed request is not retried or partially recovered.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				panicRecoveries.Inc()
				requestLogger(c, logrus.StandardLogger()).WithFields(logrus.Fields{
					"panic": fmt.Sprint(rec),
					"stack": string(debug.Stack()),
					"path":  c.Request.URL.Path,
				}).Error("an error occurred during a request")
				abortWithInternalError(c)
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			requestLogger(c, logrus.StandardLogger()).WithFields(logrus.Fields{
				"error": c.Errors.String(),
				"path":  c.Request.URL.Path,
			}).Error("an error occurred during a request")
			abortWithInternalError(c)
		}
	}
}

// MetricsMiddleware records request rate, errors and duration
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func abortWithInternalError(c *gin.Context) {
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusInternalServerError, internalErrorMessage)
	c.Abort()
}

// requestLogger returns the request-scoped logger, or fallback outside a tagged request
func requestLogger(c *gin.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if v, ok := c.Get(loggerKey); ok {
		if log, ok := v.(logrus.FieldLogger); ok {
			return log
		}
	}
	return fallback
}
