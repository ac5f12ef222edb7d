package repository

import (
	"context"

	"github.com/jhoicas/tikno-erp/internal/domain/entity"
)

// ProductFilter filtros para listar productos.
type ProductFilter struct {
	CategoryID *entity.CategoryID
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// El stock solo se modifica con IncrementStock/DecrementStock, ambos atómicos.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id entity.ProductID) (*entity.Product, error)
	// Update modifica datos de catálogo; no toca Stock.
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, error)
	Delete(ctx context.Context, id entity.ProductID) error
	// DecrementStock resta amount solo si hay stock suficiente y devuelve el stock resultante.
	// Errores: *domain.InsufficientStockError, *domain.ProductNotFoundError.
	DecrementStock(ctx context.Context, id entity.ProductID, amount int) (int, error)
	// IncrementStock suma amount sin condiciones (devoluciones) y devuelve el stock resultante.
	IncrementStock(ctx context.Context, id entity.ProductID, amount int) (int, error)
}
