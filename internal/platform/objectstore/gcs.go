// Package objectstore はスナップショットファイルの書き込み先（Cloud Storage）を提供します。
package objectstore

import (
	"context"
	"fmt"

	"stock_ingest/internal/feature/pricebars/adapters"

	"cloud.google.com/go/storage"
)

// GCSWriter は Cloud Storage バケットにオブジェクトを作成します。
// 同じキーのオブジェクトが既に存在する場合は上書きせずエラーを返します。
type GCSWriter struct {
	bucketName string
	bucket     *storage.BucketHandle
}

var _ adapters.ObjectWriter = (*GCSWriter)(nil)

// NewGCSWriter は指定されたバケットに書き込む GCSWriter を生成します。
func NewGCSWriter(client *storage.Client, bucket string) *GCSWriter {
	return &GCSWriter{bucketName: bucket, bucket: client.Bucket(bucket)}
}

// WriteObject は body を key に新規作成します。
func (g *GCSWriter) WriteObject(ctx context.Context, key, contentType string, body []byte) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := g.bucket.Object(key).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(body); err != nil {
		// アップロードを中断
		cancel()
		_ = w.Close()
		return fmt.Errorf("write gs://%s/%s: %w", g.bucketName, key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close gs://%s/%s: %w", g.bucketName, key, err)
	}
	return nil
}
