package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/castplan/internal/model"
	"github.com/hitoshi/castplan/internal/user"
)

// --- モック定義 ---

type mockUserService struct {
	getProfileFn         func(ctx context.Context, userID string) (*user.Profile, error)
	connectPlatformFn    func(ctx context.Context, userID, platformName, token string) error
	disconnectPlatformFn func(ctx context.Context, userID, platformName string) error
}

func (m *mockUserService) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(ctx, userID)
	}
	return &user.Profile{
		ID:       userID,
		Username: "alice",
		Email:    "alice@example.com",
		Platforms: map[model.Platform]bool{
			model.PlatformTwitch:    false,
			model.PlatformTwitter:   false,
			model.PlatformInstagram: false,
			model.PlatformDiscord:   false,
		},
	}, nil
}

func (m *mockUserService) ConnectPlatform(ctx context.Context, userID, platformName, token string) error {
	if m.connectPlatformFn != nil {
		return m.connectPlatformFn(ctx, userID, platformName, token)
	}
	return nil
}

func (m *mockUserService) DisconnectPlatform(ctx context.Context, userID, platformName string) error {
	if m.disconnectPlatformFn != nil {
		return m.disconnectPlatformFn(ctx, userID, platformName)
	}
	return nil
}

var _ UserServiceInterface = (*mockUserService)(nil)

// --- GET /api/auth/profile ---

func TestUserHandler_Profile_ReturnsPlatformFlags(t *testing.T) {
	svc := &mockUserService{
		getProfileFn: func(ctx context.Context, userID string) (*user.Profile, error) {
			return &user.Profile{
				ID:       userID,
				Username: "alice",
				Email:    "alice@example.com",
				Platforms: map[model.Platform]bool{
					model.PlatformTwitch:    true,
					model.PlatformTwitter:   false,
					model.PlatformInstagram: false,
					model.PlatformDiscord:   true,
				},
			}, nil
		},
	}
	h := NewUserHandler(svc)

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil), "user-1")
	w := httptest.NewRecorder()

	h.Profile(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp profileResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.ID != "user-1" {
		t.Errorf("id = %q, want user-1", resp.ID)
	}
	if resp.Username != "alice" {
		t.Errorf("username = %q, want alice", resp.Username)
	}
	if len(resp.Platforms) != 4 {
		t.Fatalf("platforms count = %d, want 4", len(resp.Platforms))
	}
	if !resp.Platforms["twitch"] || !resp.Platforms["discord"] {
		t.Errorf("twitch/discord should be connected: %v", resp.Platforms)
	}
	if resp.Platforms["twitter"] || resp.Platforms["instagram"] {
		t.Errorf("twitter/instagram should not be connected: %v", resp.Platforms)
	}
}

func TestUserHandler_Profile_DoesNotExposeTokens(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil), "user-1")
	w := httptest.NewRecorder()

	h.Profile(w, req)

	// レスポンスにはトークン自体を含めず、接続有無のフラグのみ
	body := w.Body.String()
	if strings.Contains(body, "token") {
		t.Errorf("profile response must not contain token values: %s", body)
	}
}

func TestUserHandler_Profile_NoUserID_Returns401(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	w := httptest.NewRecorder()

	h.Profile(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestUserHandler_Profile_UserNotFound_Returns404(t *testing.T) {
	svc := &mockUserService{
		getProfileFn: func(ctx context.Context, userID string) (*user.Profile, error) {
			return nil, model.NewUserNotFoundError()
		},
	}
	h := NewUserHandler(svc)

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil), "user-gone")
	w := httptest.NewRecorder()

	h.Profile(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// --- POST /api/platforms/connect/{platform} ---

func TestUserHandler_ConnectPlatform_Success(t *testing.T) {
	var gotPlatform, gotToken string
	svc := &mockUserService{
		connectPlatformFn: func(ctx context.Context, userID, platformName, token string) error {
			gotPlatform, gotToken = platformName, token
			return nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/platforms/connect/twitch",
		strings.NewReader(`{"token": "oauth-token-xyz"}`))
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "platform", "twitch")
	w := httptest.NewRecorder()

	h.ConnectPlatform(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotPlatform != "twitch" {
		t.Errorf("platform = %q, want twitch", gotPlatform)
	}
	if gotToken != "oauth-token-xyz" {
		t.Errorf("token = %q, want oauth-token-xyz", gotToken)
	}
}

func TestUserHandler_ConnectPlatform_EmptyToken_Returns400(t *testing.T) {
	called := false
	svc := &mockUserService{
		connectPlatformFn: func(ctx context.Context, userID, platformName, token string) error {
			called = true
			return nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/platforms/connect/twitch",
		strings.NewReader(`{"token": ""}`))
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "platform", "twitch")
	w := httptest.NewRecorder()

	h.ConnectPlatform(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if got := decodeErrorBody(t, w); got.Code != model.ErrCodeValidation {
		t.Errorf("error code = %q, want %q", got.Code, model.ErrCodeValidation)
	}
	if called {
		t.Error("service should not be called with empty token")
	}
}

func TestUserHandler_ConnectPlatform_UnknownPlatform_Returns400(t *testing.T) {
	svc := &mockUserService{
		connectPlatformFn: func(ctx context.Context, userID, platformName, token string) error {
			return model.NewInvalidPlatformError(platformName)
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/platforms/connect/tiktok",
		strings.NewReader(`{"token": "abc"}`))
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "platform", "tiktok")
	w := httptest.NewRecorder()

	h.ConnectPlatform(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if got := decodeErrorBody(t, w); got.Code != model.ErrCodeInvalidPlatform {
		t.Errorf("error code = %q, want %q", got.Code, model.ErrCodeInvalidPlatform)
	}
}

func TestUserHandler_ConnectPlatform_NoUserID_Returns401(t *testing.T) {
	h := NewUserHandler(&mockUserService{})

	req := httptest.NewRequest(http.MethodPost, "/api/platforms/connect/twitch",
		strings.NewReader(`{"token": "abc"}`))
	req = withChiURLParam(req, "platform", "twitch")
	w := httptest.NewRecorder()

	h.ConnectPlatform(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// --- POST /api/platforms/disconnect/{platform} ---

func TestUserHandler_DisconnectPlatform_Success(t *testing.T) {
	var gotPlatform string
	svc := &mockUserService{
		disconnectPlatformFn: func(ctx context.Context, userID, platformName string) error {
			gotPlatform = platformName
			return nil
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/platforms/disconnect/discord", nil)
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "platform", "discord")
	w := httptest.NewRecorder()

	h.DisconnectPlatform(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotPlatform != "discord" {
		t.Errorf("platform = %q, want discord", gotPlatform)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["message"] == "" {
		t.Error("expected non-empty message")
	}
}

func TestUserHandler_DisconnectPlatform_UnknownPlatform_Returns400(t *testing.T) {
	svc := &mockUserService{
		disconnectPlatformFn: func(ctx context.Context, userID, platformName string) error {
			return model.NewInvalidPlatformError(platformName)
		},
	}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/platforms/disconnect/youtube", nil)
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "platform", "youtube")
	w := httptest.NewRecorder()

	h.DisconnectPlatform(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
