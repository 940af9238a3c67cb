package service

import (
	"context"
	"errors"
	"time"

	"retailpos/internal/apperr"
	"retailpos/internal/dto"
	"retailpos/internal/model"
	"retailpos/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	List(ctx context.Context) ([]dto.UserResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ResetPassword(ctx context.Context, id uuid.UUID, req dto.ResetPasswordRequest) error
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *userToResponse(&users[i]))
	}
	return out, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return userToResponse(u), nil
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if req.Username == "" || req.Password == "" || req.FullName == "" {
		return nil, apperr.Validationf("username, password and full name are required")
	}
	if len(req.Password) < 6 {
		return nil, apperr.Validationf("password must be at least 6 characters")
	}
	role := req.Role
	if role == "" {
		role = model.RoleCashier
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflictf("username %s already exists", req.Username)
		}
		return nil, err
	}
	return userToResponse(u), nil
}

// Update merges the given fields. Demoting or deactivating the last active
// admin is rejected: the system must always retain at least one.
func (s *userService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	losesAdmin := u.IsAdmin() && u.Active &&
		((req.Role != nil && *req.Role != model.RoleAdmin) || (req.Active != nil && !*req.Active))
	if losesAdmin {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return nil, err
		}
	}

	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.Email != nil {
		u.Email = req.Email
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	if req.Active != nil {
		u.Active = *req.Active
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return userToResponse(u), nil
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}
	if u.IsAdmin() && u.Active {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *userService) ResetPassword(ctx context.Context, id uuid.UUID, req dto.ResetPasswordRequest) error {
	if len(req.NewPassword) < 6 {
		return apperr.Validationf("password must be at least 6 characters")
	}
	if _, err := s.findUser(ctx, id); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, string(hash))
}

func (s *userService) ensureNotLastAdmin(ctx context.Context) error {
	admins, err := s.repo.CountActiveAdmins(ctx)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return apperr.Conflictf("cannot remove the last active admin")
	}
	return nil
}

func (s *userService) findUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("user %s not found", id)
		}
		return nil, err
	}
	return u, nil
}

func userToResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
