package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"postpilot/internal/model"
)

// =============================================================================
// MOCK REPOSITORY
// =============================================================================

type mockUserRepository struct {
	createFn        func(ctx context.Context, user *model.User) error
	getByIDFn       func(ctx context.Context, id string) (*model.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*model.User, error)
	existsByEmailFn func(ctx context.Context, email string) (bool, error)

	createCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

func signupRequest() *model.SignupRequest {
	return &model.SignupRequest{
		Email:     "Person@Example.com",
		Password:  "Str0ng!pass",
		Name:      "Pat Person",
		FirstName: "Pat",
		LastName:  "Person",
	}
}

// =============================================================================
// SIGNUP TESTS
// =============================================================================

func TestUserService_Signup_Success(t *testing.T) {
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			user.CreatedAt = time.Now()
			user.UpdatedAt = time.Now()
			return nil
		},
	}
	svc := NewUserService(mockRepo, testLogger())

	req := signupRequest()
	user, err := svc.Signup(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if user.ID == "" {
		t.Error("expected a generated user ID")
	}

	if user.Email != "person@example.com" {
		t.Errorf("email = %q, want lower-cased %q", user.Email, "person@example.com")
	}

	if user.Role != model.RoleUser {
		t.Errorf("role = %q, want %q", user.Role, model.RoleUser)
	}

	// The hash must be real bcrypt, never the raw password
	if user.PasswordHash == req.Password {
		t.Error("password should be hashed, not stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		t.Error("password hash should be a valid bcrypt hash of the password")
	}

	if len(mockRepo.createCalls) != 1 {
		t.Errorf("Create called %d times, want 1", len(mockRepo.createCalls))
	}
}

func TestUserService_Signup_NeverSerializesPassword(t *testing.T) {
	mockRepo := &mockUserRepository{}
	svc := NewUserService(mockRepo, testLogger())

	user, err := svc.Signup(context.Background(), signupRequest())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// The safe view is the only serialization: no password-ish key may appear.
	body, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	lower := strings.ToLower(string(body))
	if strings.Contains(lower, "password") {
		t.Errorf("serialized user must not contain a password field, got: %s", body)
	}
}

func TestUserService_Signup_EmailExists(t *testing.T) {
	mockRepo := &mockUserRepository{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(mockRepo, testLogger())

	_, err := svc.Signup(context.Background(), signupRequest())
	if !errors.Is(err, model.ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got: %v", err)
	}
	if len(mockRepo.createCalls) != 0 {
		t.Error("Create should not be called when the email is taken")
	}
}

func TestUserService_Signup_PasswordPolicy(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Str0ng!pass", false},
		{"too short", "S0r!t", true},
		{"too long", strings.Repeat("Aa1!", 33), true},
		{"no upper", "str0ng!pass", true},
		{"no lower", "STR0NG!PASS", true},
		{"no digit", "Strong!pass", true},
		{"no symbol", "Str0ngpass1", true},
		{"exactly 8 chars", "Aa1!Aa1!", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewUserService(&mockUserRepository{}, testLogger())

			req := signupRequest()
			req.Password = tc.password

			_, err := svc.Signup(context.Background(), req)
			if tc.wantErr && !errors.Is(err, model.ErrWeakPassword) {
				t.Errorf("password %q: expected ErrWeakPassword, got: %v", tc.password, err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("password %q: expected success, got: %v", tc.password, err)
			}
		})
	}
}

// =============================================================================
// LOGIN TESTS
// =============================================================================

func TestUserService_Login_Success(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("Str0ng!pass"), bcrypt.MinCost)
	mockRepo := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "u1", Email: email, PasswordHash: string(hash)}, nil
		},
	}
	svc := NewUserService(mockRepo, testLogger())

	user, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "person@example.com",
		Password: "Str0ng!pass",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("user ID = %q, want u1", user.ID)
	}
}

// Wrong password and unknown email must be indistinguishable to the caller.
func TestUserService_Login_InvalidCredentialsAreUniform(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("Str0ng!pass"), bcrypt.MinCost)

	wrongPasswordRepo := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "u1", Email: email, PasswordHash: string(hash)}, nil
		},
	}
	unknownEmailRepo := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, model.ErrUserNotFound
		},
	}

	_, errWrongPassword := NewUserService(wrongPasswordRepo, testLogger()).Login(context.Background(), &model.LoginRequest{
		Email:    "person@example.com",
		Password: "not-the-password",
	})
	_, errUnknownEmail := NewUserService(unknownEmailRepo, testLogger()).Login(context.Background(), &model.LoginRequest{
		Email:    "ghost@example.com",
		Password: "Str0ng!pass",
	})

	if !errors.Is(errWrongPassword, model.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got: %v", errWrongPassword)
	}
	if !errors.Is(errUnknownEmail, model.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got: %v", errUnknownEmail)
	}
}

// =============================================================================
// CREDENTIAL STORE TESTS
// =============================================================================

func TestVerifyPassword_MismatchReturnsFalse(t *testing.T) {
	hash, err := HashPassword("Str0ng!pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !VerifyPassword("Str0ng!pass", hash) {
		t.Error("correct password should verify")
	}
	if VerifyPassword("wrong", hash) {
		t.Error("wrong password should not verify")
	}
	// Garbage hash: still false, never a panic or error surfaced
	if VerifyPassword("Str0ng!pass", "not-a-hash") {
		t.Error("garbage hash should not verify")
	}
}
