package router

import (
	ingesthandler "stock_ingest/internal/feature/pricebars/transport/handler"

	"github.com/gin-gonic/gin"
)

// NewRouter はクラウドファンクション形式のエンドポイントを登録した gin.Engine を返します。
func NewRouter(ingest *ingesthandler.IngestHandler, health gin.HandlerFunc) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)

	// 取り込み実行（スケジューラーからは POST、手動確認用に GET も受け付ける）
	r.POST("/", ingest.Run)
	r.GET("/", ingest.Run)

	return r
}
