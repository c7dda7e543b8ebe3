// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/castplan/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// UpdatePlatformToken は指定プラットフォームのトークンを更新する。
	// 空文字列を渡すとトークンをクリアする（接続解除）。
	// 対象ユーザーが存在しない場合はエラーを返す。
	UpdatePlatformToken(ctx context.Context, userID string, platform model.Platform, token string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired は期限切れセッションを一括削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// ContentRepository は予約投稿データの永続化インターフェース。
// すべての読み書きは所有ユーザーIDでスコープされる。
type ContentRepository interface {
	// FindByIDAndUser は指定IDかつ指定ユーザー所有のコンテンツを取得する。
	// 見つからない場合（他ユーザー所有を含む）はnilを返す。
	FindByIDAndUser(ctx context.Context, id int64, userID string) (*model.Content, error)

	// ListByUserID はユーザーの全コンテンツをscheduled_for降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Content, error)

	// Create はコンテンツを作成し、採番されたIDをcontent.IDに設定する。
	Create(ctx context.Context, content *model.Content) error

	// Update はコンテンツの全フィールドを上書き更新する。
	// 所有者不一致または不存在の場合はsql.ErrNoRowsを返す。
	Update(ctx context.Context, content *model.Content) error

	// DeleteByIDAndUser は指定IDかつ指定ユーザー所有のコンテンツを削除する。
	// 削除対象が存在しない場合はsql.ErrNoRowsを返す。
	DeleteByIDAndUser(ctx context.Context, id int64, userID string) error
}
