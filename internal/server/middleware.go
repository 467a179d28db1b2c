package server

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// requestID はリクエストIDを引き継ぐか、無ければ採番する
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request.Header.Set(requestIDHeader, id)
		c.Next()
	}
}

// accessLog はレスポンス確定後にURLと最終ステータスを記録する
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		s.logger.Info("request",
			"method", c.Request.Method,
			"url", c.Request.URL.RequestURI(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.Request.Header.Get(requestIDHeader),
		)
	}
}

// recovery はハンドラのパニックを記録し、空ボディの500に変換する
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, err any) {
		s.metrics.PanicsTotal.Inc()
		s.logger.Error("リクエスト処理中にパニックが発生しました",
			"url", c.Request.URL.RequestURI(),
			"panic", err,
		)
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

// observe はリクエスト数と処理時間を記録する
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		kind := s.routeKind(c)
		s.metrics.RequestsTotal.WithLabelValues(kind, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		s.metrics.RequestDurationSec.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}

func (s *Server) routeKind(c *gin.Context) string {
	switch {
	case c.FullPath() != "":
		return "ops"
	case s.isAPIPath(c.Request.URL.Path):
		return "api"
	default:
		return "static"
	}
}
