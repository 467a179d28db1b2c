package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse はAPIのエラーレスポンス
type ErrorResponse struct {
	Error   string  `json:"error"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}

// HealthResponse はヘルスチェックのレスポンス
type HealthResponse struct {
	Status    string    `json:"status"`
	Assets    int       `json:"assets"`
	Timestamp time.Time `json:"timestamp"`
}

// handleHealth はヘルスチェックエンドポイントの実装
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Assets:    s.table.Len(),
		Timestamp: time.Now(),
	})
}

// handleReady はリッスンを始めてからシャットダウンまで200を返す
func (s *Server) handleReady(c *gin.Context) {
	if !s.ready.Load() {
		respondError(c, http.StatusServiceUnavailable, "not_ready", "サーバーは起動中です", nil)
		return
	}
	c.String(http.StatusOK, "ready")
}

// ヘルパー関数

// respondError はエラーレスポンスをJSONで返す。同じ入力には同じボディを返す
func respondError(c *gin.Context, status int, code, message string, details *string) {
	c.JSON(status, ErrorResponse{
		Error:   code,
		Message: message,
		Details: details,
	})
}

// stringPtr は文字列のポインタを返すヘルパー関数
func stringPtr(s string) *string {
	return &s
}
