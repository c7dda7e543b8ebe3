package model

import "time"

// ContentStatus は予約投稿の状態を表す。
// 現時点で配信実行系は存在せず、statusがpendingから遷移することはない。
type ContentStatus string

const (
	// ContentStatusPending は投稿待ちの初期状態。
	ContentStatusPending ContentStatus = "pending"
)

// Content は1件の予約投稿を表す。
// 1ユーザーに必ず帰属し、scheduled_forに指定された時刻での投稿を意図する。
type Content struct {
	ID          int64
	Title       string
	Body        string
	ContentType string
	Platforms   []string
	ScheduledAt time.Time
	Hashtags    string
	Mentions    string
	Files       []string
	Status      ContentStatus
	UserID      string
	CreatedAt   time.Time
}
