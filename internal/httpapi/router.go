// Package httpapi отдает инструменты расчета ипотеки по HTTP.
package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cloud-ru/mcp-mortgage-go/internal/metrics"
	"github.com/cloud-ru/mcp-mortgage-go/internal/session"
	"github.com/cloud-ru/mcp-mortgage-go/internal/tools"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SessionHeader заголовок с идентификатором сессии в запросе и ответе
const SessionHeader = "X-Session-ID"

// NewRouter собирает gin роутер: POST /tools/:name, GET /tools, /healthz, /metrics.
// limiter может быть nil.
func NewRouter(registry map[string]tools.ToolHandler, limiter *RateLimiter, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/tools", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tools": tools.Names(registry)})
	})

	call := []gin.HandlerFunc{}
	if limiter != nil {
		call = append(call, RateLimitMiddleware(limiter))
	}
	call = append(call, callTool(registry, logger))
	r.POST("/tools/:name", call...)

	return r
}

func callTool(registry map[string]tools.ToolHandler, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		params := map[string]interface{}{}
		if err := c.ShouldBindJSON(&params); err != nil && !errors.Is(err, io.EOF) {
			metrics.APICalls.WithLabelValues("http", name, "bad_request").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
			return
		}

		if _, ok := params["session_id"]; !ok {
			if id := c.GetHeader(SessionHeader); id != "" {
				params["session_id"] = id
			} else {
				params["session_id"] = session.NewID()
			}
		}
		if id, ok := params["session_id"].(string); ok {
			c.Header(SessionHeader, id)
		}

		result, err := tools.Call(c.Request.Context(), registry, name, params)
		if err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				logger.Error("tool call failed", zap.String("tool", name), zap.Error(err))
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tool": name, "result": result})
	}
}

// statusFor HTTP код для ошибки инструмента
func statusFor(err error) int {
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		return http.StatusNotFound
	case errors.Is(err, tools.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, tools.ErrStorage):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
