package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Config は stock_data を保持する PostgreSQL への接続設定です。
type Config struct {
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	SSLMode      string
	InstanceName string // Cloud SQL の接続名。設定されている場合は Unix ソケットで接続します

	// StatementTimeout はサーバー側の statement_timeout として設定されます。0 の場合は設定しません。
	StatementTimeout time.Duration
}

// Opener は DSN から *gorm.DB を開きます（テストで差し替え可能）。
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN は pgx が解釈する key=value 形式の DSN を生成します。
func BuildDSN(cfg Config) string {
	host, port := cfg.Host, cfg.Port
	if cfg.InstanceName != "" {
		host, port = "/cloudsql/"+cfg.InstanceName, ""
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	parts := []string{
		"host=" + quote(host),
	}
	if port != "" {
		parts = append(parts, "port="+quote(port))
	}
	parts = append(parts,
		"user="+quote(cfg.User),
		"password="+quote(cfg.Password),
		"dbname="+quote(cfg.Name),
		"sslmode="+quote(sslmode),
	)
	if cfg.StatementTimeout > 0 {
		parts = append(parts, fmt.Sprintf("statement_timeout=%d", cfg.StatementTimeout.Milliseconds()))
	}
	return strings.Join(parts, " ")
}

// quote は空白や引用符を含む値を DSN 用にクォートします。
func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// PostgresOpener は gorm の PostgreSQL ドライバーで接続します。
func PostgresOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// ConnectWithRetry は timeout を過ぎるまで retryInterval 間隔で接続を試みます。
// timeout が 0 の場合は1回だけ試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if !time.Now().Add(retryInterval).Before(deadline) {
			return nil, fmt.Errorf("db connect failed: %w", err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "interval", retryInterval)
		time.Sleep(retryInterval)
	}
}

// OpenDB は設定に従って PostgreSQL に接続します。
func OpenDB(cfg Config, connectTimeout time.Duration) (*gorm.DB, error) {
	return ConnectWithRetry(BuildDSN(cfg), connectTimeout, PostgresOpener)
}
