// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashはbcryptハッシュを保持し、平文パスワードは一切保存しない。
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string

	// 各プラットフォームのアクセストークン。未接続の場合は空文字列。
	// トークンは保存時に検証されない（実際のAPIへの疎通確認は行わない）。
	TwitchToken    string
	TwitterToken   string
	InstagramToken string
	DiscordToken   string

	CreatedAt time.Time
}

// PlatformToken は指定プラットフォームのトークンを返す。
// 未知のプラットフォームの場合は空文字列を返す。
func (u *User) PlatformToken(p Platform) string {
	switch p {
	case PlatformTwitch:
		return u.TwitchToken
	case PlatformTwitter:
		return u.TwitterToken
	case PlatformInstagram:
		return u.InstagramToken
	case PlatformDiscord:
		return u.DiscordToken
	default:
		return ""
	}
}

// Session はユーザーのログインセッションを表す。
// IDはクライアントにCookieとして渡される不透明トークン。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
