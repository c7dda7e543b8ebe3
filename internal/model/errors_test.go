package model

import (
	"errors"
	"strings"
	"testing"
)

func TestAPIError_ImplementsError(t *testing.T) {
	var err error = NewUnauthorizedError()

	if err.Error() == "" {
		t.Error("Error() should return a non-empty string")
	}
	if !strings.Contains(err.Error(), ErrCodeUnauthorized) {
		t.Errorf("Error() = %q, should contain code %q", err.Error(), ErrCodeUnauthorized)
	}
}

func TestAPIError_ErrorsAs(t *testing.T) {
	var err error = NewContentNotFoundError(42)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("errors.As should match *APIError")
	}
	if apiErr.Code != ErrCodeContentNotFound {
		t.Errorf("code = %q, want %q", apiErr.Code, ErrCodeContentNotFound)
	}
}

func TestErrorConstructors_CodesAndCategories(t *testing.T) {
	tests := []struct {
		name         string
		err          *APIError
		wantCode     string
		wantCategory string
	}{
		{"username taken", NewUsernameTakenError("alice"), ErrCodeUsernameTaken, "auth"},
		{"email taken", NewEmailTakenError("a@example.com"), ErrCodeEmailTaken, "auth"},
		{"invalid credentials", NewInvalidCredentialsError(), ErrCodeInvalidCredentials, "auth"},
		{"unauthorized", NewUnauthorizedError(), ErrCodeUnauthorized, "auth"},
		{"content not found", NewContentNotFoundError(1), ErrCodeContentNotFound, "content"},
		{"invalid platform", NewInvalidPlatformError("vine"), ErrCodeInvalidPlatform, "validation"},
		{"invalid schedule time", NewInvalidScheduleTimeError("xx"), ErrCodeInvalidScheduleTime, "validation"},
		{"validation", NewValidationError("titleは必須です。"), ErrCodeValidation, "validation"},
		{"user not found", NewUserNotFoundError(), ErrCodeUserNotFound, "auth"},
		{"csrf validation", NewCSRFValidationError(), ErrCodeCSRFValidation, "auth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", tt.err.Category, tt.wantCategory)
			}
			if tt.err.Message == "" {
				t.Error("message should not be empty")
			}
			if tt.err.Action == "" {
				t.Error("action should not be empty")
			}
		})
	}
}

func TestNewInvalidCredentialsError_MessageDoesNotLeakExistence(t *testing.T) {
	// ユーザー不在とパスワード不一致で同一のメッセージを返すこと
	a := NewInvalidCredentialsError()
	b := NewInvalidCredentialsError()

	if a.Message != b.Message {
		t.Errorf("messages differ: %q vs %q", a.Message, b.Message)
	}
	if strings.Contains(a.Message, "存在") {
		t.Errorf("message should not reveal account existence: %q", a.Message)
	}
}
