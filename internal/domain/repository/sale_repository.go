package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tikno-erp/internal/domain/entity"
)

// SaleFilter filtros de listado. From/To se comparan contra la fecha (día) de creación.
type SaleFilter struct {
	ClientID *entity.ClientID
	From     *time.Time
	To       *time.Time
}

// SaleRepository define el puerto de persistencia para Sale y SaleItem.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	GetByID(ctx context.Context, id entity.SaleID) (*entity.Sale, error)
	// List ordena por fecha de creación descendente.
	List(ctx context.Context, filter SaleFilter, limit, offset int) ([]*entity.Sale, error)
	// ListItems devuelve los ítems de una venta, o todos si saleID es nil.
	ListItems(ctx context.Context, saleID *entity.SaleID) ([]*entity.SaleItem, error)
	DeleteItemsBySale(ctx context.Context, saleID entity.SaleID) (int64, error)
	// Delete devuelve domain.ErrNotFound si la venta no existe.
	Delete(ctx context.Context, id entity.SaleID) error
}
