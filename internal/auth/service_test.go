package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/castplan/internal/model"
	"github.com/hitoshi/castplan/internal/repository"
)

// --- モック定義 ---

type mockUserRepo struct {
	findByIDFn       func(ctx context.Context, id string) (*model.User, error)
	findByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	findByEmailFn    func(ctx context.Context, email string) (*model.User, error)
	createFn         func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) UpdatePlatformToken(_ context.Context, _ string, _ model.Platform, _ string) error {
	return nil
}

type mockSessionRepo struct {
	createFn         func(ctx context.Context, session *model.Session) error
	findByIDFn       func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn     func(ctx context.Context, id string) error
	deleteByUserIDFn func(ctx context.Context, userID string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFn != nil {
		return m.deleteByUserIDFn(ctx, userID)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

// --- compile-time interface checks ---
var _ repository.UserRepository = (*mockUserRepo)(nil)
var _ repository.SessionRepository = (*mockSessionRepo)(nil)

// テストではコスト最小でハッシュ化を高速にする
func testConfig() ServiceConfig {
	return ServiceConfig{SessionMaxAge: 86400, BcryptCost: bcrypt.MinCost}
}

// --- テスト ---

func TestRegister_CreatesUserWithHashedPassword(t *testing.T) {
	ctx := context.Background()

	var createdUser *model.User

	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			createdUser = user
			return nil
		},
	}

	svc := NewService(userRepo, nil, testConfig())

	user, err := svc.Register(ctx, "alice", "alice@example.com", "secret-password")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user == nil {
		t.Fatal("expected non-nil user")
	}
	if user.ID == "" {
		t.Error("expected non-empty user ID")
	}
	if user.Username != "alice" {
		t.Errorf("username = %q, want %q", user.Username, "alice")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", user.Email, "alice@example.com")
	}

	// パスワードが平文で保存されないこと
	if createdUser == nil {
		t.Fatal("expected user to be created")
	}
	if createdUser.PasswordHash == "secret-password" {
		t.Error("password must not be stored in cleartext")
	}
	if !strings.HasPrefix(createdUser.PasswordHash, "$2a$") {
		t.Errorf("password hash should be bcrypt, got %q", createdUser.PasswordHash)
	}

	// 保存されたハッシュが元のパスワードを検証できること
	if err := bcrypt.CompareHashAndPassword([]byte(createdUser.PasswordHash), []byte("secret-password")); err != nil {
		t.Errorf("stored hash should verify the original password: %v", err)
	}
}

func TestRegister_UsernameTaken_ReturnsConflictError(t *testing.T) {
	ctx := context.Background()

	userRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "existing", Username: username}, nil
		},
	}

	svc := NewService(userRepo, nil, testConfig())

	_, err := svc.Register(ctx, "alice", "alice@example.com", "pw")
	if err == nil {
		t.Fatal("expected error for taken username")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != "USERNAME_TAKEN" {
		t.Errorf("error code = %q, want %q", apiErr.Code, "USERNAME_TAKEN")
	}
}

func TestRegister_EmailTaken_ReturnsConflictError(t *testing.T) {
	ctx := context.Background()

	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "existing", Email: email}, nil
		},
	}

	svc := NewService(userRepo, nil, testConfig())

	_, err := svc.Register(ctx, "alice", "alice@example.com", "pw")
	if err == nil {
		t.Fatal("expected error for taken email")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != "EMAIL_TAKEN" {
		t.Errorf("error code = %q, want %q", apiErr.Code, "EMAIL_TAKEN")
	}
}

func TestRegister_RepoError_ReturnsError(t *testing.T) {
	ctx := context.Background()

	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			return errors.New("db error")
		},
	}

	svc := NewService(userRepo, nil, testConfig())

	_, err := svc.Register(ctx, "alice", "alice@example.com", "pw")
	if err == nil {
		t.Fatal("expected error from Register")
	}
}

func TestLogin_ValidCredentials_CreatesSession(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to generate hash: %v", err)
	}

	var createdSession *model.Session

	userRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{
				ID:           "user-1",
				Username:     username,
				PasswordHash: string(hash),
			}, nil
		},
	}
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			createdSession = session
			return nil
		},
	}

	svc := NewService(userRepo, sessionRepo, testConfig())

	user, session, err := svc.Login(ctx, "alice", "correct-password")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if user == nil || user.ID != "user-1" {
		t.Fatalf("expected user user-1, got %+v", user)
	}
	if session == nil {
		t.Fatal("expected non-nil session")
	}
	if session.ID == "" {
		t.Error("expected non-empty session ID")
	}
	if session.UserID != "user-1" {
		t.Errorf("session userID = %q, want %q", session.UserID, "user-1")
	}

	// セッションの有効期限が未来であること
	if createdSession == nil {
		t.Fatal("expected session to be persisted")
	}
	if !createdSession.ExpiresAt.After(time.Now()) {
		t.Error("session expiry should be in the future")
	}
}

func TestLogin_WrongPassword_ReturnsInvalidCredentials(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to generate hash: %v", err)
	}

	userRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "user-1", PasswordHash: string(hash)}, nil
		},
	}

	svc := NewService(userRepo, nil, testConfig())

	_, _, err = svc.Login(ctx, "alice", "wrong-password")
	if err == nil {
		t.Fatal("expected error for wrong password")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != "INVALID_CREDENTIALS" {
		t.Errorf("error code = %q, want %q", apiErr.Code, "INVALID_CREDENTIALS")
	}
}

func TestLogin_UnknownUser_ReturnsSameErrorAsWrongPassword(t *testing.T) {
	ctx := context.Background()

	// ユーザーが存在しない
	svc := NewService(&mockUserRepo{}, nil, testConfig())

	_, _, err := svc.Login(ctx, "nobody", "whatever")
	if err == nil {
		t.Fatal("expected error for unknown user")
	}

	// ユーザー不在とパスワード不一致が同じエラーコードであること
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != "INVALID_CREDENTIALS" {
		t.Errorf("error code = %q, want %q", apiErr.Code, "INVALID_CREDENTIALS")
	}
}

func TestLogin_SessionIDsAreUnique(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to generate hash: %v", err)
	}

	userRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "user-1", PasswordHash: string(hash)}, nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{}, testConfig())

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		_, session, err := svc.Login(ctx, "alice", "pw")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if seen[session.ID] {
			t.Fatalf("duplicate session ID generated: %s", session.ID)
		}
		seen[session.ID] = true
	}
}

func TestLogout_DeletesSession(t *testing.T) {
	ctx := context.Background()

	var deletedSessionID string

	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedSessionID = id
			return nil
		},
	}

	svc := NewService(nil, sessionRepo, testConfig())

	err := svc.Logout(ctx, "session-to-delete")
	if err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if deletedSessionID != "session-to-delete" {
		t.Errorf("deleted session ID = %q, want %q", deletedSessionID, "session-to-delete")
	}
}

func TestLogout_EmptySessionID_ReturnsError(t *testing.T) {
	ctx := context.Background()

	svc := NewService(nil, nil, testConfig())

	err := svc.Logout(ctx, "")
	if err == nil {
		t.Fatal("expected error for empty session ID")
	}
}

func TestGetCurrentUser_ValidSession_ReturnsUser(t *testing.T) {
	ctx := context.Background()

	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{
				ID:        "session-valid",
				UserID:    "user-1",
				ExpiresAt: time.Now().Add(1 * time.Hour),
			}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Username: "alice"}, nil
		},
	}

	svc := NewService(userRepo, sessionRepo, testConfig())

	user, err := svc.GetCurrentUser(ctx, "session-valid")
	if err != nil {
		t.Fatalf("GetCurrentUser() error = %v", err)
	}
	if user == nil || user.ID != "user-1" {
		t.Fatalf("expected user user-1, got %+v", user)
	}
}

func TestGetCurrentUser_ExpiredSession_ReturnsError(t *testing.T) {
	ctx := context.Background()

	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			// 期限切れセッション -> リポジトリはnilを返す
			return nil, nil
		},
	}

	svc := NewService(nil, sessionRepo, testConfig())

	_, err := svc.GetCurrentUser(ctx, "expired-session")
	if err == nil {
		t.Fatal("expected error for expired session")
	}
}

func TestGetCurrentUser_EmptySessionID_ReturnsError(t *testing.T) {
	ctx := context.Background()

	svc := NewService(nil, nil, testConfig())

	_, err := svc.GetCurrentUser(ctx, "")
	if err == nil {
		t.Fatal("expected error for empty session ID")
	}
}
