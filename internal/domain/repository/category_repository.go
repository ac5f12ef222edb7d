package repository

import (
	"context"

	"github.com/jhoicas/tikno-erp/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id entity.CategoryID) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// List ordena por nombre.
	List(ctx context.Context) ([]*entity.Category, error)
	Delete(ctx context.Context, id entity.CategoryID) error
}
