package seed

import (
	"context"
	"errors"

	"github.com/jhoicas/tikno-erp/internal/application/dto"
	"github.com/jhoicas/tikno-erp/internal/application/usecase"
	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
)

// EnsureAdmin crea el administrador inicial si el email no está registrado.
// Devuelve false si ya existía.
func EnsureAdmin(ctx context.Context, users *usecase.UserUseCase, email, password, name string) (bool, error) {
	_, err := users.Bootstrap(ctx, dto.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     name,
		Role:     entity.RoleAdmin,
	})
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
