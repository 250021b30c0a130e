package entity

import (
	"fmt"
	"time"
)

// WindowKind は取得ウィンドウの種類です。
type WindowKind int

const (
	// WindowLastNDays は直近 N 日分のバーを対象にします。
	WindowLastNDays WindowKind = iota + 1
	// WindowSingleDay は指定日のバーのみを対象にします。
	WindowSingleDay
)

// FetchWindow はAPIレスポンスから保持するバーの時間範囲を表します。
type FetchWindow struct {
	Kind WindowKind
	Days int       // WindowLastNDays の場合の日数
	Date time.Time // WindowSingleDay の場合の対象日（暦日のみ比較）
}

// LastNDays は now-n日 から now までを対象とするウィンドウを返します。
func LastNDays(n int) FetchWindow {
	return FetchWindow{Kind: WindowLastNDays, Days: n}
}

// SingleDay は date と同じ暦日のバーのみを対象とするウィンドウを返します。
func SingleDay(date time.Time) FetchWindow {
	return FetchWindow{Kind: WindowSingleDay, Date: date}
}

// Contains は ts がウィンドウ内に含まれるかどうかを判定します。
// now は LastNDays の基準時刻です。
func (w FetchWindow) Contains(ts, now time.Time) bool {
	switch w.Kind {
	case WindowLastNDays:
		cutoff := now.AddDate(0, 0, -w.Days)
		return !ts.Before(cutoff) && !ts.After(now)
	case WindowSingleDay:
		y1, m1, d1 := ts.Date()
		y2, m2, d2 := w.Date.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	default:
		return false
	}
}

func (w FetchWindow) String() string {
	switch w.Kind {
	case WindowLastNDays:
		return fmt.Sprintf("last %d days", w.Days)
	case WindowSingleDay:
		return "day " + w.Date.Format("2006-01-02")
	default:
		return "unknown window"
	}
}
