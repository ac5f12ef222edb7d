package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tikno-erp/internal/domain/entity"
)

// CartRepository define el puerto de persistencia para las líneas de carrito.
// Invariante: a lo sumo una línea por (dueño, producto).
type CartRepository interface {
	Create(ctx context.Context, line *entity.CartLine) error
	GetByID(ctx context.Context, id entity.CartLineID) (*entity.CartLine, error)
	GetByOwnerAndProduct(ctx context.Context, owner entity.CartOwner, productID entity.ProductID) (*entity.CartLine, error)
	UpdateQuantity(ctx context.Context, id entity.CartLineID, quantity int) error
	Delete(ctx context.Context, id entity.CartLineID) error
	ListByOwner(ctx context.Context, owner entity.CartOwner) ([]*entity.CartLine, error)
	DeleteByOwner(ctx context.Context, owner entity.CartOwner) (int64, error)
	// DeleteSessionLinesBefore elimina líneas anónimas sin actividad desde before.
	DeleteSessionLinesBefore(ctx context.Context, before time.Time) (int64, error)
}
