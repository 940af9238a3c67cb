package service

import (
	"context"
	"testing"

	"retailpos/internal/apperr"
	"retailpos/internal/dto"
	"retailpos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserDefaultsToCashier(t *testing.T) {
	svc := NewUserService(newStubUserRepo())

	resp, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Username: "newbie", Password: "secret1", FullName: "New Person",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleCashier, resp.Role)
	assert.True(t, resp.Active)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	existing := &model.User{Username: "taken", PasswordHash: "x", FullName: "X", Role: model.RoleCashier, Active: true}
	svc := NewUserService(newStubUserRepo(existing))

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Username: "taken", Password: "secret1", FullName: "Y",
	})
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
}

func TestCreateUserShortPassword(t *testing.T) {
	svc := NewUserService(newStubUserRepo())
	_, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Username: "newbie", Password: "12345", FullName: "New Person",
	})
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestLastActiveAdminCannotBeDemoted(t *testing.T) {
	admin := &model.User{Username: "boss", PasswordHash: "x", FullName: "Boss", Role: model.RoleAdmin, Active: true}
	svc := NewUserService(newStubUserRepo(admin))

	cashier := model.RoleCashier
	_, err := svc.Update(context.Background(), admin.ID, dto.UpdateUserRequest{Role: &cashier})
	assert.True(t, apperr.IsKind(err, apperr.Conflict))

	inactive := false
	_, err = svc.Update(context.Background(), admin.ID, dto.UpdateUserRequest{Active: &inactive})
	assert.True(t, apperr.IsKind(err, apperr.Conflict))

	err = svc.Delete(context.Background(), admin.ID)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
}

func TestAdminDemotableWhenAnotherRemains(t *testing.T) {
	first := &model.User{Username: "boss", PasswordHash: "x", FullName: "Boss", Role: model.RoleAdmin, Active: true}
	second := &model.User{Username: "chief", PasswordHash: "x", FullName: "Chief", Role: model.RoleAdmin, Active: true}
	svc := NewUserService(newStubUserRepo(first, second))

	cashier := model.RoleCashier
	resp, err := svc.Update(context.Background(), first.ID, dto.UpdateUserRequest{Role: &cashier})
	require.NoError(t, err)
	assert.Equal(t, model.RoleCashier, resp.Role)
}

func TestResetPasswordMinLength(t *testing.T) {
	u := &model.User{Username: "clerk", PasswordHash: "x", FullName: "C", Role: model.RoleCashier, Active: true}
	svc := NewUserService(newStubUserRepo(u))

	err := svc.ResetPassword(context.Background(), u.ID, dto.ResetPasswordRequest{NewPassword: "12345"})
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	err = svc.ResetPassword(context.Background(), u.ID, dto.ResetPasswordRequest{NewPassword: "123456"})
	assert.NoError(t, err)
}
