package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/castplan/internal/content"
	"github.com/hitoshi/castplan/internal/middleware"
	"github.com/hitoshi/castplan/internal/model"
)

// ContentServiceInterface は予約投稿ハンドラーが必要とするサービスインターフェース。
type ContentServiceInterface interface {
	// List はユーザーの全予約投稿をscheduled_for降順で返す。
	List(ctx context.Context, userID string) ([]*model.Content, error)
	// Create は予約投稿を作成する。
	Create(ctx context.Context, userID string, in content.CreateInput) (*model.Content, error)
	// Update は予約投稿を部分更新する。
	Update(ctx context.Context, userID string, id int64, in content.UpdateInput) (*model.Content, error)
	// Delete は予約投稿を削除する。
	Delete(ctx context.Context, userID string, id int64) error
}

// ContentMetrics は予約投稿ハンドラーが記録するメトリクスのインターフェース。
type ContentMetrics interface {
	RecordContentScheduled()
}

// ContentHandler は予約投稿管理のHTTPハンドラー。
type ContentHandler struct {
	service ContentServiceInterface
	metrics ContentMetrics
}

// NewContentHandler はContentHandlerを生成する。
// metricsはnilを許容する。
func NewContentHandler(service ContentServiceInterface, metrics ContentMetrics) *ContentHandler {
	return &ContentHandler{
		service: service,
		metrics: metrics,
	}
}

// createContentRequest は予約投稿作成リクエストのボディ。
type createContentRequest struct {
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	ContentType  string   `json:"content_type"`
	Platforms    []string `json:"platforms"`
	ScheduledFor string   `json:"scheduled_for"`
	Hashtags     string   `json:"hashtags"`
	Mentions     string   `json:"mentions"`
	Files        []string `json:"files"`
}

// updateContentRequest は予約投稿の部分更新リクエストのボディ。
// JSONに含まれないフィールドはnilとなり、既存の値を維持する。
type updateContentRequest struct {
	Title        *string   `json:"title"`
	Content      *string   `json:"content"`
	ContentType  *string   `json:"content_type"`
	Platforms    *[]string `json:"platforms"`
	ScheduledFor *string   `json:"scheduled_for"`
	Hashtags     *string   `json:"hashtags"`
	Mentions     *string   `json:"mentions"`
	Files        *[]string `json:"files"`
}

// contentResponse は予約投稿のAPIレスポンス。
type contentResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	ContentType  string    `json:"content_type"`
	Platforms    []string  `json:"platforms"`
	ScheduledFor time.Time `json:"scheduled_for"`
	Hashtags     string    `json:"hashtags"`
	Mentions     string    `json:"mentions"`
	Files        []string  `json:"files"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// List はユーザーの予約投稿一覧を取得する。
// GET /api/content
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	contents, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]contentResponse, 0, len(contents))
	for _, c := range contents {
		responses = append(responses, toContentResponse(c))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// Create は予約投稿を作成する。
// POST /api/content
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError())
		return
	}

	created, err := h.service.Create(r.Context(), userID, content.CreateInput{
		Title:        req.Title,
		Body:         req.Content,
		ContentType:  req.ContentType,
		Platforms:    req.Platforms,
		ScheduledFor: req.ScheduledFor,
		Hashtags:     req.Hashtags,
		Mentions:     req.Mentions,
		Files:        req.Files,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordContentScheduled()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"id":      created.ID,
		"message": "コンテンツを予約しました。",
	})
}

// Update は予約投稿を部分更新する。
// PUT /api/content/{id}
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	contentID, ok := parseContentID(w, r)
	if !ok {
		return
	}

	var req updateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError())
		return
	}

	updated, err := h.service.Update(r.Context(), userID, contentID, content.UpdateInput{
		Title:        req.Title,
		Body:         req.Content,
		ContentType:  req.ContentType,
		Platforms:    req.Platforms,
		ScheduledFor: req.ScheduledFor,
		Hashtags:     req.Hashtags,
		Mentions:     req.Mentions,
		Files:        req.Files,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toContentResponse(updated))
}

// Delete は予約投稿を削除する。
// DELETE /api/content/{id}
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	contentID, ok := parseContentID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, contentID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseContentID はURLパラメータからコンテンツIDを取得する。
// 数値でない場合は存在しないコンテンツと同様に404を返す。
func parseContentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewContentNotFoundError(0))
		return 0, false
	}
	return id, true
}

// toContentResponse はContentモデルをAPIレスポンスに変換する。
func toContentResponse(c *model.Content) contentResponse {
	return contentResponse{
		ID:           c.ID,
		Title:        c.Title,
		Content:      c.Body,
		ContentType:  c.ContentType,
		Platforms:    c.Platforms,
		ScheduledFor: c.ScheduledAt,
		Hashtags:     c.Hashtags,
		Mentions:     c.Mentions,
		Files:        c.Files,
		Status:       string(c.Status),
		CreatedAt:    c.CreatedAt,
	}
}

// newInvalidRequestError はJSONボディ解析失敗のエラーを生成する。
func newInvalidRequestError() *model.APIError {
	return &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUsernameTaken, model.ErrCodeEmailTaken:
		return http.StatusConflict
	case model.ErrCodeInvalidCredentials, model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeContentNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidPlatform, model.ErrCodeInvalidScheduleTime, model.ErrCodeValidation, "INVALID_REQUEST":
		return http.StatusBadRequest
	case model.ErrCodeUserNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
