package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta finalizada. Se crea una sola vez por checkout y no se modifica.
type Sale struct {
	ID        SaleID
	ClientID  *ClientID // nil = venta sin cliente
	Total     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaleItem línea de una venta. UnitPrice queda desacoplado de cambios posteriores del catálogo.
type SaleItem struct {
	ID        SaleItemID
	SaleID    SaleID
	ProductID ProductID
	Quantity  int
	UnitPrice decimal.Decimal
	CreatedAt time.Time
}

// Subtotal cantidad × precio unitario.
func (i *SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
