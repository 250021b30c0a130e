package db

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

// TestBuildDSN_TCP はTCP接続用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN_TCP(t *testing.T) {
	t.Parallel()

	cfg := Config{
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		Host:     "localhost",
		Port:     "5432",
	}

	dsn := BuildDSN(cfg)

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestBuildDSN_CloudSQL はCloud SQL Unixソケット接続用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN_CloudSQL(t *testing.T) {
	t.Parallel()

	cfg := Config{
		User:         "testuser",
		Password:     "testpass",
		Name:         "testdb",
		InstanceName: "project:region:instance",
	}

	dsn := BuildDSN(cfg)

	expected := "host=/cloudsql/project:region:instance user=testuser password=testpass dbname=testdb sslmode=disable"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestBuildDSN_CloudSQLTakesPrecedence はInstanceNameとHost/Portが両方設定されている場合にInstanceNameが優先されることを検証します。
func TestBuildDSN_CloudSQLTakesPrecedence(t *testing.T) {
	t.Parallel()

	cfg := Config{
		User:         "testuser",
		Password:     "testpass",
		Name:         "testdb",
		Host:         "localhost",
		Port:         "5432",
		InstanceName: "project:region:instance",
	}

	dsn := BuildDSN(cfg)

	expected := "host=/cloudsql/project:region:instance user=testuser password=testpass dbname=testdb sslmode=disable"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestBuildDSN_StatementTimeoutAndQuoting はstatement_timeoutの付与と特殊文字のクォートを検証します。
func TestBuildDSN_StatementTimeoutAndQuoting(t *testing.T) {
	t.Parallel()

	cfg := Config{
		User:             "ingest",
		Password:         `p a'ss`,
		Name:             "market",
		Host:             "db.internal",
		Port:             "5432",
		SSLMode:          "require",
		StatementTimeout: 30 * time.Second,
	}

	dsn := BuildDSN(cfg)

	expected := `host=db.internal port=5432 user=ingest password='p a\'ss' dbname=market sslmode=require statement_timeout=30000`
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

func TestQuote_Empty(t *testing.T) {
	t.Parallel()

	if got := quote(""); got != "''" {
		t.Errorf("expected '' for empty value, got %q", got)
	}
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if dsn != "test-dsn" {
			t.Errorf("expected dsn %q, got %q", "test-dsn", dsn)
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attemptCount != 1 {
		t.Errorf("expected 1 attempt, got %d", attemptCount)
	}
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// Not parallel because this test takes time due to retry sleeps

	mockDB := &gorm.DB{}
	attemptCount := 0

	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	// Use a timeout that allows for 2 retries (retry interval is 3 seconds)
	db, err := ConnectWithRetry("test-dsn", 10*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attemptCount != 3 {
		t.Errorf("expected 3 attempts, got %d", attemptCount)
	}
}

// TestConnectWithRetry_ZeroTimeoutTriesOnce はタイムアウト0の場合に1回だけ試行することを検証します。
func TestConnectWithRetry_ZeroTimeoutTriesOnce(t *testing.T) {
	t.Parallel()

	errRefused := errors.New("connection refused")
	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		return nil, errRefused
	}

	_, err := ConnectWithRetry("test-dsn", 0, opener)

	if !errors.Is(err, errRefused) {
		t.Fatalf("expected wrapped connection error, got %v", err)
	}
	if attemptCount != 1 {
		t.Errorf("expected 1 attempt, got %d", attemptCount)
	}
}
