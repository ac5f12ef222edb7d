package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock nunca es negativo y solo cambia mediante incrementos/decrementos atómicos.
type Product struct {
	ID           ProductID
	Name         string
	Description  string
	Price        decimal.Decimal // precio de venta, 2 decimales
	Stock        int
	ImageURL     string
	CategoryID   *CategoryID // nil si no tiene categoría
	CategoryName string      // solo lectura (join)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasStock indica si hay al menos quantity unidades disponibles.
func (p *Product) HasStock(quantity int) bool {
	return p.Stock >= quantity
}
