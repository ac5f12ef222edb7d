package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tikno-erp/internal/application/access"
	"github.com/jhoicas/tikno-erp/internal/application/dto"
	"github.com/jhoicas/tikno-erp/internal/application/usecase"
	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/infrastructure/memory"
)

func strPtr(s string) *string { return &s }

func TestUserUseCase_Reglas(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	uc := usecase.NewUserUseCase(s.Users())

	admin, err := uc.Bootstrap(ctx, dto.RegisterRequest{Email: "admin@tikno.test", Password: "12345678", Role: "admin"})
	require.NoError(t, err)
	adminCaller := access.Caller{UserID: entity.UserID(admin.ID), Role: admin.Role}

	ana, err := uc.Register(ctx, adminCaller, dto.RegisterRequest{Email: "ana@tikno.test", Password: "12345678", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, ana.Role)
	assert.Equal(t, entity.AccessZoneGeneral, ana.AccessZone)
	assert.Equal(t, "ana", ana.Username)
	anaCaller := access.Caller{UserID: entity.UserID(ana.ID), Role: ana.Role}

	// Registro
	_, err = uc.Register(ctx, anaCaller, dto.RegisterRequest{Email: "x@tikno.test", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Register(ctx, adminCaller, dto.RegisterRequest{Email: "ana@tikno.test", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	_, err = uc.Register(ctx, adminCaller, dto.RegisterRequest{Email: "corta@tikno.test", Password: "1234"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Listado
	list, err := uc.List(ctx, anaCaller, 50, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ana.ID, list[0].ID)
	list, err = uc.List(ctx, adminCaller, 50, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = uc.Get(ctx, anaCaller, entity.UserID(admin.ID))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	// Edición
	_, err = uc.Update(ctx, anaCaller, entity.UserID(ana.ID), dto.UpdateUserRequest{Role: strPtr("admin")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Update(ctx, anaCaller, entity.UserID(admin.ID), dto.UpdateUserRequest{Name: strPtr("X")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	updated, err := uc.Update(ctx, anaCaller, entity.UserID(ana.ID), dto.UpdateUserRequest{Name: strPtr("Ana María")})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.Name)
	updated, err = uc.Update(ctx, adminCaller, entity.UserID(ana.ID), dto.UpdateUserRequest{Role: strPtr("staff")})
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin)

	// Eliminación
	assert.ErrorIs(t, uc.Delete(ctx, anaCaller, entity.UserID(admin.ID)), domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, adminCaller, entity.UserID(admin.ID)), domain.ErrInvalidInput)
	require.NoError(t, uc.Delete(ctx, adminCaller, entity.UserID(ana.ID)))
	assert.ErrorIs(t, uc.Delete(ctx, adminCaller, entity.UserID(ana.ID)), domain.ErrUserNotFound)
}
