package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tikno-erp/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregados de ventas calculados en la base de datos.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// SalesMetrics usa COALESCE para devolver cero en un período sin ventas.
func (r *AnalyticsRepo) SalesMetrics(ctx context.Context, from, to time.Time) (repository.SalesMetrics, error) {
	const query = `
	SELECT COUNT(*), COALESCE(SUM(total), 0)
	FROM ventas
	WHERE created_at >= $1 AND created_at < $2`

	var (
		count int64
		total decimal.Decimal
	)
	if err := r.q.QueryRow(ctx, query, from, to).Scan(&count, &total); err != nil {
		return repository.SalesMetrics{}, fmt.Errorf("analytics.SalesMetrics: %w", err)
	}
	return repository.SalesMetrics{Count: int(count), Total: total}, nil
}

// TopProducts agrupa los ítems del período. LEFT JOIN conserva productos eliminados.
func (r *AnalyticsRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.TopProductResult, error) {
	const query = `
	SELECT
	    d.producto_id,
	    COALESCE(p.nombre, '')                   AS producto_nombre,
	    SUM(d.cantidad)                          AS cantidad_vendida,
	    SUM(d.cantidad * d.precio_unitario)      AS total_vendido
	FROM detalles_venta d
	JOIN ventas v         ON v.id = d.venta_id
	LEFT JOIN productos p ON p.id = d.producto_id
	WHERE v.created_at >= $1 AND v.created_at < $2
	GROUP BY d.producto_id, p.nombre
	ORDER BY cantidad_vendida DESC, total_vendido DESC, d.producto_id
	LIMIT $3`

	rows, err := r.q.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopProducts: %w", err)
	}
	defer rows.Close()

	results := []repository.TopProductResult{}
	for rows.Next() {
		var (
			row repository.TopProductResult
			qty int64
		)
		if err := rows.Scan(&row.ProductID, &row.ProductName, &qty, &row.TotalRevenue); err != nil {
			return nil, fmt.Errorf("analytics.TopProducts scan: %w", err)
		}
		row.QuantitySold = int(qty)
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.TopProducts rows: %w", err)
	}
	return results, nil
}
