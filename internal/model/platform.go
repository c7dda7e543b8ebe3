package model

// Platform は連携先の外部プラットフォームを表す。
type Platform string

// 対応プラットフォームの閉じた集合。この4つ以外は受け付けない。
const (
	PlatformTwitch    Platform = "twitch"
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformDiscord   Platform = "discord"
)

// AllPlatforms は対応プラットフォームの一覧を返す。
func AllPlatforms() []Platform {
	return []Platform{
		PlatformTwitch,
		PlatformTwitter,
		PlatformInstagram,
		PlatformDiscord,
	}
}

// ParsePlatform は文字列をPlatformに変換する。
// 未対応のプラットフォーム名の場合はfalseを返す。
func ParsePlatform(s string) (Platform, bool) {
	switch Platform(s) {
	case PlatformTwitch, PlatformTwitter, PlatformInstagram, PlatformDiscord:
		return Platform(s), true
	default:
		return "", false
	}
}
