// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, content, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUsernameTaken       = "USERNAME_TAKEN"
	ErrCodeEmailTaken          = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeContentNotFound     = "CONTENT_NOT_FOUND"
	ErrCodeInvalidPlatform     = "INVALID_PLATFORM"
	ErrCodeInvalidScheduleTime = "INVALID_SCHEDULE_TIME"
	ErrCodeValidation          = "VALIDATION"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeCSRFValidation      = "CSRF_VALIDATION"
)

// NewUsernameTakenError はユーザー名重複エラーを生成する。
func NewUsernameTakenError(username string) *APIError {
	return &APIError{
		Code:     ErrCodeUsernameTaken,
		Message:  fmt.Sprintf("このユーザー名は既に使用されています: %s", username),
		Category: "auth",
		Action:   "別のユーザー名を指定してください。",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "auth",
		Action:   "別のメールアドレスを指定するか、ログインしてください。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// ユーザー名の存在有無を漏らさないよう、メッセージは常に同一とする。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewContentNotFoundError はコンテンツ未検出エラーを生成する。
// 他ユーザーのコンテンツへのアクセスも存在漏洩を避けるため同じエラーを返す。
func NewContentNotFoundError(contentID int64) *APIError {
	return &APIError{
		Code:     ErrCodeContentNotFound,
		Message:  fmt.Sprintf("指定されたコンテンツが見つかりません: %d", contentID),
		Category: "content",
		Action:   "コンテンツIDを確認してください。",
	}
}

// NewInvalidPlatformError は未対応プラットフォームエラーを生成する。
func NewInvalidPlatformError(platform string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPlatform,
		Message:  fmt.Sprintf("未対応のプラットフォームです: %s", platform),
		Category: "validation",
		Action:   "twitch、twitter、instagram、discordのいずれかを指定してください。",
	}
}

// NewInvalidScheduleTimeError は投稿予定時刻の形式エラーを生成する。
func NewInvalidScheduleTimeError(value string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidScheduleTime,
		Message:  fmt.Sprintf("投稿予定時刻の形式が不正です: %s", value),
		Category: "validation",
		Action:   "ISO-8601形式（例: 2025-01-01T00:00:00）で指定してください。",
	}
}

// NewValidationError は必須フィールド欠落等の入力検証エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewCSRFValidationError はCSRFトークン検証失敗エラーを生成する。
// 失敗原因（Cookie欠落・ヘッダー欠落・不一致）はレスポンスでは区別しない。
func NewCSRFValidationError() *APIError {
	return &APIError{
		Code:     ErrCodeCSRFValidation,
		Message:  "CSRFトークンの検証に失敗しました。",
		Category: "auth",
		Action:   "/api/csrf-tokenからトークンを取得して再度お試しください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}
