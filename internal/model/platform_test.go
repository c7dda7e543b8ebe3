package model

import "testing"

func TestParsePlatform_KnownPlatforms(t *testing.T) {
	tests := []struct {
		input string
		want  Platform
	}{
		{"twitch", PlatformTwitch},
		{"twitter", PlatformTwitter},
		{"instagram", PlatformInstagram},
		{"discord", PlatformDiscord},
	}

	for _, tt := range tests {
		got, ok := ParsePlatform(tt.input)
		if !ok {
			t.Errorf("ParsePlatform(%q) should succeed", tt.input)
		}
		if got != tt.want {
			t.Errorf("ParsePlatform(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParsePlatform_UnknownPlatforms(t *testing.T) {
	unknown := []string{
		"",
		"tiktok",
		"youtube",
		"Twitch",  // 大文字は不可
		"TWITTER", // 大文字は不可
		" twitch", // 空白付きは不可
	}

	for _, input := range unknown {
		if _, ok := ParsePlatform(input); ok {
			t.Errorf("ParsePlatform(%q) should fail", input)
		}
	}
}

func TestAllPlatforms_ReturnsClosedSet(t *testing.T) {
	all := AllPlatforms()

	if len(all) != 4 {
		t.Fatalf("AllPlatforms() count = %d, want 4", len(all))
	}

	// AllPlatformsの各要素はParsePlatformで受理されること
	for _, p := range all {
		if _, ok := ParsePlatform(string(p)); !ok {
			t.Errorf("ParsePlatform(%q) should accept a platform listed in AllPlatforms", p)
		}
	}
}

func TestPlatformToken_ReturnsMatchingToken(t *testing.T) {
	u := &User{
		TwitchToken:    "tw-token",
		TwitterToken:   "x-token",
		InstagramToken: "ig-token",
		DiscordToken:   "dc-token",
	}

	tests := []struct {
		platform Platform
		want     string
	}{
		{PlatformTwitch, "tw-token"},
		{PlatformTwitter, "x-token"},
		{PlatformInstagram, "ig-token"},
		{PlatformDiscord, "dc-token"},
	}

	for _, tt := range tests {
		if got := u.PlatformToken(tt.platform); got != tt.want {
			t.Errorf("PlatformToken(%q) = %q, want %q", tt.platform, got, tt.want)
		}
	}
}

func TestPlatformToken_UnknownPlatform_ReturnsEmpty(t *testing.T) {
	u := &User{TwitchToken: "tw-token"}

	if got := u.PlatformToken(Platform("myspace")); got != "" {
		t.Errorf("PlatformToken(unknown) = %q, want empty", got)
	}
}
