package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregados calculados sobre el estado en memoria.
type AnalyticsRepo struct{ view }

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (r *AnalyticsRepo) SalesMetrics(ctx context.Context, from, to time.Time) (repository.SalesMetrics, error) {
	out := repository.SalesMetrics{Total: decimal.Zero}
	err := r.do(ctx, func(st *state) error {
		for _, s := range st.sales {
			if inRange(s.CreatedAt, from, to) {
				out.Count++
				out.Total = out.Total.Add(s.Total)
			}
		}
		return nil
	})
	return out, err
}

func (r *AnalyticsRepo) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.TopProductResult, error) {
	byProduct := map[entity.ProductID]*repository.TopProductResult{}
	err := r.do(ctx, func(st *state) error {
		for _, it := range st.items {
			s, ok := st.sales[it.SaleID]
			if !ok || !inRange(s.CreatedAt, from, to) {
				continue
			}
			row, ok := byProduct[it.ProductID]
			if !ok {
				row = &repository.TopProductResult{ProductID: it.ProductID, TotalRevenue: decimal.Zero}
				if p, found := st.products[it.ProductID]; found {
					row.ProductName = p.Name
				}
				byProduct[it.ProductID] = row
			}
			row.QuantitySold += it.Quantity
			row.TotalRevenue = row.TotalRevenue.Add(it.Subtotal())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]repository.TopProductResult, 0, len(byProduct))
	for _, row := range byProduct {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.QuantitySold != b.QuantitySold {
			return a.QuantitySold > b.QuantitySold
		}
		if !a.TotalRevenue.Equal(b.TotalRevenue) {
			return a.TotalRevenue.GreaterThan(b.TotalRevenue)
		}
		return a.ProductID < b.ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
