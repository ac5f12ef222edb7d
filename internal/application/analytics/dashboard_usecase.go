// Package analytics contiene el resumen de ventas del día y del mes en curso.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/tikno-erp/internal/application/dto"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
)

const dashboardTopProducts = 5 // productos en el ranking del mes

// DashboardUseCase genera el resumen de ventas. Solo lectura; los agregados los calcula el repositorio.
type DashboardUseCase struct {
	analytics repository.AnalyticsRepository
	now       func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analytics repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analytics: analytics, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary ventas de hoy, del mes en curso y los productos más vendidos del mes.
// Las tres consultas corren en paralelo.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.SalesSummaryResponse, error) {
	now := uc.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var (
		day, month repository.SalesMetrics
		top        []repository.TopProductResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := uc.analytics.SalesMetrics(gctx, today, tomorrow)
		if err != nil {
			return fmt.Errorf("resumen: ventas de hoy: %w", err)
		}
		day = m
		return nil
	})
	g.Go(func() error {
		m, err := uc.analytics.SalesMetrics(gctx, monthStart, tomorrow)
		if err != nil {
			return fmt.Errorf("resumen: ventas del mes: %w", err)
		}
		month = m
		return nil
	})
	g.Go(func() error {
		rows, err := uc.analytics.TopProducts(gctx, monthStart, tomorrow, dashboardTopProducts)
		if err != nil {
			return fmt.Errorf("resumen: productos más vendidos: %w", err)
		}
		top = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.SalesSummaryResponse{
		TodayCount:   day.Count,
		TodaySales:   day.Total.StringFixed(2),
		MonthlyCount: month.Count,
		MonthlySales: month.Total.StringFixed(2),
		TopProducts:  make([]dto.TopProductResponse, 0, len(top)),
		DateLabel:    monthLabel(now),
	}
	for _, row := range top {
		out.TopProducts = append(out.TopProducts, dto.TopProductResponse{
			ProductID:    int64(row.ProductID),
			ProductName:  row.ProductName,
			QuantitySold: row.QuantitySold,
			TotalRevenue: row.TotalRevenue.StringFixed(2),
		})
	}
	return out, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
