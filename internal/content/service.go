// Package content は予約投稿のドメインロジックを提供する。
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/castplan/internal/model"
	"github.com/hitoshi/castplan/internal/repository"
)

// Sanitizer はタイトル・本文の無害化インターフェース。
// security.ContentSanitizerの部分集合として定義する。
type Sanitizer interface {
	Sanitize(input string) string
}

// Service は予約投稿のサービス層。
// すべての操作は認証済みユーザーのIDでスコープされる。
type Service struct {
	contentRepo repository.ContentRepository
	sanitizer   Sanitizer
}

// NewService はServiceを生成する。
func NewService(contentRepo repository.ContentRepository, sanitizer Sanitizer) *Service {
	return &Service{
		contentRepo: contentRepo,
		sanitizer:   sanitizer,
	}
}

// CreateInput は予約投稿作成の入力。
type CreateInput struct {
	Title        string
	Body         string
	ContentType  string
	Platforms    []string
	ScheduledFor string
	Hashtags     string
	Mentions     string
	Files        []string
}

// UpdateInput は予約投稿の部分更新の入力。
// nilのフィールドは変更せず、既存の値を維持する。
type UpdateInput struct {
	Title        *string
	Body         *string
	ContentType  *string
	Platforms    *[]string
	ScheduledFor *string
	Hashtags     *string
	Mentions     *string
	Files        *[]string
}

// List はユーザーの全予約投稿をscheduled_for降順で返す。
// ページネーションは行わない。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Content, error) {
	contents, err := s.contentRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	return contents, nil
}

// Create は予約投稿を作成する。
// titleとbodyは必須。scheduled_forはISO-8601形式でなければならない。
// statusは常にpendingで作成され、以後遷移しない。
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*model.Content, error) {
	title := s.sanitizer.Sanitize(in.Title)
	body := s.sanitizer.Sanitize(in.Body)

	if title == "" {
		return nil, model.NewValidationError("titleは必須です。")
	}
	if body == "" {
		return nil, model.NewValidationError("contentは必須です。")
	}
	if in.ScheduledFor == "" {
		return nil, model.NewValidationError("scheduled_forは必須です。")
	}

	scheduledAt, err := ParseScheduleTime(in.ScheduledFor)
	if err != nil {
		return nil, model.NewInvalidScheduleTimeError(in.ScheduledFor)
	}

	if err := validatePlatforms(in.Platforms); err != nil {
		return nil, err
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "text"
	}

	c := &model.Content{
		Title:       title,
		Body:        body,
		ContentType: contentType,
		Platforms:   normalizeList(in.Platforms),
		ScheduledAt: scheduledAt,
		Hashtags:    in.Hashtags,
		Mentions:    in.Mentions,
		Files:       normalizeList(in.Files),
		Status:      model.ContentStatusPending,
		UserID:      userID,
		CreatedAt:   time.Now(),
	}

	if err := s.contentRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create content: %w", err)
	}

	slog.Info("content scheduled",
		slog.Int64("content_id", c.ID),
		slog.String("user_id", userID),
		slog.Time("scheduled_for", c.ScheduledAt),
	)

	return c, nil
}

// Update は予約投稿を部分更新する。
// 入力に含まれないフィールドは既存の値をそのまま維持する。
// 他ユーザー所有・不存在の場合はCONTENT_NOT_FOUNDを返す（Forbiddenは返さない）。
func (s *Service) Update(ctx context.Context, userID string, id int64, in UpdateInput) (*model.Content, error) {
	c, err := s.contentRepo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find content: %w", err)
	}
	if c == nil {
		return nil, model.NewContentNotFoundError(id)
	}

	if in.Title != nil {
		title := s.sanitizer.Sanitize(*in.Title)
		if title == "" {
			return nil, model.NewValidationError("titleを空にすることはできません。")
		}
		c.Title = title
	}
	if in.Body != nil {
		body := s.sanitizer.Sanitize(*in.Body)
		if body == "" {
			return nil, model.NewValidationError("contentを空にすることはできません。")
		}
		c.Body = body
	}
	if in.ContentType != nil {
		c.ContentType = *in.ContentType
	}
	if in.Platforms != nil {
		if err := validatePlatforms(*in.Platforms); err != nil {
			return nil, err
		}
		c.Platforms = normalizeList(*in.Platforms)
	}
	if in.ScheduledFor != nil {
		scheduledAt, err := ParseScheduleTime(*in.ScheduledFor)
		if err != nil {
			return nil, model.NewInvalidScheduleTimeError(*in.ScheduledFor)
		}
		c.ScheduledAt = scheduledAt
	}
	if in.Hashtags != nil {
		c.Hashtags = *in.Hashtags
	}
	if in.Mentions != nil {
		c.Mentions = *in.Mentions
	}
	if in.Files != nil {
		c.Files = normalizeList(*in.Files)
	}

	if err := s.contentRepo.Update(ctx, c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewContentNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to update content: %w", err)
	}

	return c, nil
}

// Delete は予約投稿を削除する。
// 他ユーザー所有・不存在の場合はCONTENT_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, userID string, id int64) error {
	if err := s.contentRepo.DeleteByIDAndUser(ctx, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NewContentNotFoundError(id)
		}
		return fmt.Errorf("failed to delete content: %w", err)
	}

	slog.Info("content deleted",
		slog.Int64("content_id", id),
		slog.String("user_id", userID),
	)

	return nil
}

// scheduleTimeLayouts は投稿予定時刻として受理するISO-8601のレイアウト。
// タイムゾーンなしの形式はUTCとして解釈する。
var scheduleTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseScheduleTime はISO-8601形式の投稿予定時刻をパースする。
func ParseScheduleTime(value string) (time.Time, error) {
	for _, layout := range scheduleTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized schedule time format: %q", value)
}

// validatePlatforms は投稿先プラットフォーム名がすべて既知であることを検証する。
func validatePlatforms(platforms []string) error {
	for _, p := range platforms {
		if _, ok := model.ParsePlatform(p); !ok {
			return model.NewInvalidPlatformError(p)
		}
	}
	return nil
}

// normalizeList はnilスライスを空スライスに正規化する。
func normalizeList(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
