// Package user はユーザープロフィールとプラットフォーム連携のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/castplan/internal/model"
	"github.com/hitoshi/castplan/internal/repository"
)

// Profile はプロフィール取得結果を表す。
// 各プラットフォームのフラグは「トークンが保存されているか」のみを示し、
// トークンが実際に有効かどうかは検証しない。
type Profile struct {
	ID        string
	Username  string
	Email     string
	Platforms map[model.Platform]bool
}

// Service はユーザー管理のサービス層。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// GetProfile は現在のユーザーのプロフィールを取得する。
func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	platforms := make(map[model.Platform]bool, len(model.AllPlatforms()))
	for _, p := range model.AllPlatforms() {
		platforms[p] = user.PlatformToken(p) != ""
	}

	return &Profile{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Platforms: platforms,
	}, nil
}

// ConnectPlatform は指定プラットフォームのトークンを保存する。
// プラットフォーム名が閉じた集合に含まれない場合はAPIErrorを返す。
// トークンは検証せずそのまま保存する。
func (s *Service) ConnectPlatform(ctx context.Context, userID, platformName, token string) error {
	platform, ok := model.ParsePlatform(platformName)
	if !ok {
		return model.NewInvalidPlatformError(platformName)
	}

	if err := s.userRepo.UpdatePlatformToken(ctx, userID, platform, token); err != nil {
		return fmt.Errorf("failed to store platform token: %w", err)
	}

	slog.Info("platform connected",
		slog.String("user_id", userID),
		slog.String("platform", platformName),
	)

	return nil
}

// DisconnectPlatform は指定プラットフォームのトークンをクリアする。
func (s *Service) DisconnectPlatform(ctx context.Context, userID, platformName string) error {
	platform, ok := model.ParsePlatform(platformName)
	if !ok {
		return model.NewInvalidPlatformError(platformName)
	}

	if err := s.userRepo.UpdatePlatformToken(ctx, userID, platform, ""); err != nil {
		return fmt.Errorf("failed to clear platform token: %w", err)
	}

	slog.Info("platform disconnected",
		slog.String("user_id", userID),
		slog.String("platform", platformName),
	)

	return nil
}
