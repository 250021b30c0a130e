// Package logging は slog のデフォルトロガーを構成します。
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel は LOG_LEVEL の値を slog.Level に変換します。不明な値は Info になります。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New は w に JSON を出力するロガーを返します。
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// Setup は New で生成したロガーをデフォルトに設定し、それを返します。
func Setup(w io.Writer, level string) *slog.Logger {
	logger := New(w, level)
	slog.SetDefault(logger)
	return logger
}
