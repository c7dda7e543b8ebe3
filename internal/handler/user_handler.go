package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/castplan/internal/middleware"
	"github.com/hitoshi/castplan/internal/model"
	"github.com/hitoshi/castplan/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// GetProfile は現在のユーザーのプロフィールを取得する。
	GetProfile(ctx context.Context, userID string) (*user.Profile, error)
	// ConnectPlatform は指定プラットフォームのトークンを保存する。
	ConnectPlatform(ctx context.Context, userID, platformName, token string) error
	// DisconnectPlatform は指定プラットフォームのトークンをクリアする。
	DisconnectPlatform(ctx context.Context, userID, platformName string) error
}

// UserHandler はプロフィールとプラットフォーム連携のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// profileResponse はプロフィール取得のAPIレスポンス。
// platformsの各フラグはトークンが保存されているかのみを示す。
type profileResponse struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Platforms map[string]bool `json:"platforms"`
}

// connectPlatformRequest はプラットフォーム接続リクエストのボディ。
type connectPlatformRequest struct {
	Token string `json:"token"`
}

// Profile は現在のユーザーのプロフィールを取得する。
// GET /api/auth/profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	platforms := make(map[string]bool, len(profile.Platforms))
	for p, connected := range profile.Platforms {
		platforms[string(p)] = connected
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profileResponse{
		ID:        profile.ID,
		Username:  profile.Username,
		Email:     profile.Email,
		Platforms: platforms,
	})
}

// ConnectPlatform は指定プラットフォームのトークンを保存する。
// POST /api/platforms/connect/{platform}
func (h *UserHandler) ConnectPlatform(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	platform := chi.URLParam(r, "platform")

	var req connectPlatformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError())
		return
	}

	if req.Token == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("tokenは必須です。"))
		return
	}

	if err := h.service.ConnectPlatform(r.Context(), userID, platform, req.Token); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": fmt.Sprintf("%sを接続しました。", platform),
	})
}

// DisconnectPlatform は指定プラットフォームのトークンをクリアする。
// POST /api/platforms/disconnect/{platform}
func (h *UserHandler) DisconnectPlatform(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	platform := chi.URLParam(r, "platform")

	if err := h.service.DisconnectPlatform(r.Context(), userID, platform); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": fmt.Sprintf("%sの接続を解除しました。", platform),
	})
}
