// Package inventory expone los movimientos manuales de stock (devoluciones y bajas).
package inventory

import (
	"context"

	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
	"github.com/jhoicas/tikno-erp/pkg/logger"
)

// StockUseCase ajusta el stock de un producto con operaciones atómicas del repositorio.
type StockUseCase struct {
	products repository.ProductRepository
	log      *logger.Logger
}

// NewStockUseCase construye el caso de uso. log puede ser nil.
func NewStockUseCase(products repository.ProductRepository, log *logger.Logger) *StockUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &StockUseCase{products: products, log: log}
}

// Movement resultado de un ajuste.
type Movement struct {
	ProductID entity.ProductID
	Amount    int
	Stock     int
}

// Increment suma amount (> 0) al stock. Sin tope.
func (uc *StockUseCase) Increment(ctx context.Context, id entity.ProductID, amount int) (*Movement, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	stock, err := uc.products.IncrementStock(ctx, id, amount)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("product_id", int64(id)).Int("cantidad", amount).Int("stock", stock).Msg("stock incrementado")
	return &Movement{ProductID: id, Amount: amount, Stock: stock}, nil
}

// Decrement resta amount (> 0) si hay stock suficiente; si no, *domain.InsufficientStockError.
func (uc *StockUseCase) Decrement(ctx context.Context, id entity.ProductID, amount int) (*Movement, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	stock, err := uc.products.DecrementStock(ctx, id, amount)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("product_id", int64(id)).Int("cantidad", amount).Int("stock", stock).Msg("stock decrementado")
	return &Movement{ProductID: id, Amount: -amount, Stock: stock}, nil
}
