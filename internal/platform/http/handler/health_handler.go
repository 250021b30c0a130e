// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// pingTimeout は依存先の疎通確認に許す時間です。
const pingTimeout = 2 * time.Second

// Pinger は依存先（DB など）の疎通確認を行います。
type Pinger func(ctx context.Context) error

// NewHealth は /healthz ハンドラーを返します。
// ping が nil の場合は依存先を確認せず常に正常を返します。
func NewHealth(ping Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		status, code := "ok", http.StatusOK
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
			defer cancel()
			if err := ping(ctx); err != nil {
				slog.Warn("health check failed", "error", err)
				status, code = "unavailable", http.StatusServiceUnavailable
			}
		}

		if c.Request.Method == http.MethodHead {
			c.Status(code)
			return
		}
		c.JSON(code, gin.H{"status": status})
	}
}
