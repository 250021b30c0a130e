package http

import (
	"net"
	"net/http"
	"time"
)

const (
	dialTimeout         = 5 * time.Second
	tlsHandshakeTimeout = 5 * time.Second
)

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Client.Timeout: 1リクエスト全体のタイムアウト（REQUEST_TIMEOUT）
//   - Dialer/TLS のタイムアウトは Client.Timeout を超えないように切り詰める
//   - 1回の実行で同じホストに銘柄数ぶん順番にアクセスするため、アイドル接続は少数のみ保持
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にこのクライアントを使用すること
//   - リトライは行わない（呼び出し側も1回のみ）
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   capTimeout(dialTimeout, timeout),
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        4,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: capTimeout(tlsHandshakeTimeout, timeout),
	}
	return &http.Client{Timeout: timeout, Transport: t}
}

func capTimeout(d, limit time.Duration) time.Duration {
	if limit > 0 && limit < d {
		return limit
	}
	return d
}
