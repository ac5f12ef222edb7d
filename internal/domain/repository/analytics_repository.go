package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tikno-erp/internal/domain/entity"
)

// SalesMetrics cantidad de ventas y suma de totales de un período.
type SalesMetrics struct {
	Count int
	Total decimal.Decimal
}

// TopProductResult fila agregada del ranking de productos.
// ProductName vacío si el producto ya no existe.
type TopProductResult struct {
	ProductID    entity.ProductID
	ProductName  string
	QuantitySold int
	TotalRevenue decimal.Decimal
}

// AnalyticsRepository consultas agregadas de solo lectura para el resumen de ventas.
// Los períodos son semiabiertos: [from, to).
type AnalyticsRepository interface {
	SalesMetrics(ctx context.Context, from, to time.Time) (SalesMetrics, error)

	// TopProducts ordena por unidades vendidas, luego ingreso, luego id.
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductResult, error)
}
