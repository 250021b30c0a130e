// Package handler は pricebars フィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"stock_ingest/internal/feature/pricebars/transport/http/dto"
	"stock_ingest/internal/feature/pricebars/usecase"

	"github.com/gin-gonic/gin"
)

// IngestRunner は1回の取り込み実行を行います。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type IngestRunner interface {
	IngestAll(ctx context.Context, symbols []string) (usecase.Summary, error)
}

// IngestHandler はクラウドファンクション形式の取り込みリクエストを処理します。
type IngestHandler struct {
	newRunner func() IngestRunner // リクエストごとに取得ウィンドウを確定させるため毎回生成
	symbols   []string
	timeout   time.Duration
}

// NewIngestHandler は新しい IngestHandler を生成します。timeout が 0 の場合は制限しません。
func NewIngestHandler(newRunner func() IngestRunner, symbols []string, timeout time.Duration) *IngestHandler {
	return &IngestHandler{newRunner: newRunner, symbols: symbols, timeout: timeout}
}

// Run は設定された全銘柄の取り込みを1回実行します。
//
// エンドポイント例:
// POST /
//
// 全銘柄が成功または対象データなしの場合は200、
// 実行自体の失敗または失敗した銘柄がある場合は500を返します。
func (h *IngestHandler) Run(c *gin.Context) {
	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	summary, err := h.newRunner().IngestAll(ctx, h.symbols)
	if err != nil {
		slog.Error("ingest run failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.IngestResponse{Message: err.Error()})
		return
	}

	resp := dto.IngestResponse{Summary: dto.NewSummaryResponse(summary)}
	if !summary.OK() {
		resp.Message = fmt.Sprintf("ingest finished with %d failed symbol(s)", summary.Failed)
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	resp.Message = fmt.Sprintf("ingest ok: %d stored, %d empty", summary.Succeeded, summary.Empty)
	c.JSON(http.StatusOK, resp)
}
