package service

import (
	"context"
	"time"

	"retailpos/internal/apperr"
	"retailpos/internal/config"
	"retailpos/internal/dto"
	"retailpos/internal/model"
	"retailpos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// loginFailedMsg is intentionally identical for "unknown username",
// "inactive account" and "wrong password" so the endpoint cannot be used to
// enumerate usernames.
const loginFailedMsg = "invalid username or password"

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error
}

type authService struct {
	repo repository.UserRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, apperr.Validationf("username and password are required")
	}

	// FindByUsername only returns active accounts, so a deactivated user
	// falls into the same branch as an unknown one.
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperr.Authf(loginFailedMsg)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Authf(loginFailedMsg)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *userToResponse(user)}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	if req.OldPassword == "" || req.NewPassword == "" {
		return apperr.Validationf("old and new passwords are required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return apperr.NotFoundf("user %s not found", userID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return apperr.Authf("old password is incorrect")
	}
	if len(req.NewPassword) < 6 {
		return apperr.Validationf("new password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, string(hash))
}

func (s *authService) generateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":        user.ID.String(),
		"username":  user.Username,
		"role":      user.Role,
		"full_name": user.FullName,
		"iat":       now.Unix(),
		"exp":       now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
