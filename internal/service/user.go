package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"postpilot/internal/model"
	"postpilot/internal/repository"
)

// BcryptCost is the work factor for password hashing.
const BcryptCost = 12

// UserService handles signup, login and the credential store.
type UserService struct {
	repo repository.UserRepository
	log  logrus.FieldLogger
}

func NewUserService(repo repository.UserRepository, log logrus.FieldLogger) *UserService {
	return &UserService{repo: repo, log: log}
}

// HashPassword derives a one-way salted hash of the password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a candidate password against a stored hash. A
// mismatch returns false, never an error to the caller.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Signup creates a new user account.
func (s *UserService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	if err := model.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Name:         req.Name,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.RoleUser,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID}).Info("user signed up")

	return user, nil
}

// Login authenticates a user by email and password. Unknown email and wrong
// password both come back as ErrInvalidCredentials so the response is
// identical either way.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	if !VerifyPassword(req.Password, user.PasswordHash) {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}
