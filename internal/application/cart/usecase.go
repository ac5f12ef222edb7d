// Package cart administra los carritos por sesión anónima o por usuario.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
	"github.com/jhoicas/tikno-erp/pkg/logger"
)

// UseCase casos de uso del carrito.
type UseCase struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. log puede ser nil.
func NewUseCase(carts repository.CartRepository, products repository.ProductRepository, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{carts: carts, products: products, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// LineView línea con los datos vigentes del producto.
type LineView struct {
	Line         *entity.CartLine
	ProductName  string
	ProductPrice decimal.Decimal
	ProductImage string
	ProductStock int
}

// Cart contenido del carrito de un dueño.
type Cart struct {
	Owner entity.CartOwner
	Lines []LineView
	Total decimal.Decimal
}

// AddOrMerge agrega el producto o suma la cantidad a la línea existente del mismo dueño.
// El precio unitario se fija al crear la línea.
func (uc *UseCase) AddOrMerge(ctx context.Context, owner entity.CartOwner, productID entity.ProductID, quantity int) (*entity.CartLine, error) {
	if !owner.Valid() {
		return nil, domain.ErrInvalidOwner
	}
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := uc.product(ctx, productID)
	if err != nil {
		return nil, err
	}

	// Un segundo intento cubre la carrera entre dos altas simultáneas del mismo producto.
	for attempt := 0; attempt < 2; attempt++ {
		existing, err := uc.carts.GetByOwnerAndProduct(ctx, owner, productID)
		if err != nil {
			return nil, fmt.Errorf("buscar línea de carrito: %w", err)
		}
		if existing != nil {
			merged := existing.Quantity + quantity
			if !product.HasStock(merged) {
				return nil, &domain.InsufficientStockError{ProductID: productID, Available: product.Stock, Requested: merged}
			}
			if err := uc.carts.UpdateQuantity(ctx, existing.ID, merged); err != nil {
				return nil, fmt.Errorf("actualizar línea de carrito: %w", err)
			}
			existing.Quantity = merged
			return existing, nil
		}

		if !product.HasStock(quantity) {
			return nil, &domain.InsufficientStockError{ProductID: productID, Available: product.Stock, Requested: quantity}
		}
		line := &entity.CartLine{Owner: owner, ProductID: productID, Quantity: quantity, UnitPrice: product.Price.Round(2)}
		err = uc.carts.Create(ctx, line)
		if err == nil {
			return line, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("crear línea de carrito: %w", err)
		}
	}
	return nil, domain.ErrConflict
}

// UpdateQuantity fija la cantidad de una línea; debe ser > 0 y no superar el stock actual.
func (uc *UseCase) UpdateQuantity(ctx context.Context, lineID entity.CartLineID, quantity int) (*entity.CartLine, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	line, err := uc.carts.GetByID(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("obtener línea de carrito: %w", err)
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.product(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.HasStock(quantity) {
		return nil, &domain.InsufficientStockError{ProductID: product.ID, Available: product.Stock, Requested: quantity}
	}
	if err := uc.carts.UpdateQuantity(ctx, lineID, quantity); err != nil {
		return nil, err
	}
	line.Quantity = quantity
	return line, nil
}

// RemoveLine elimina una línea. domain.ErrNotFound si no existe.
func (uc *UseCase) RemoveLine(ctx context.Context, lineID entity.CartLineID) error {
	return uc.carts.Delete(ctx, lineID)
}

// ListForOwner devuelve el carrito con los datos actuales de cada producto y el total
// calculado con los precios guardados.
func (uc *UseCase) ListForOwner(ctx context.Context, owner entity.CartOwner) (*Cart, error) {
	if !owner.Valid() {
		return nil, domain.ErrInvalidOwner
	}
	lines, err := uc.carts.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("listar carrito: %w", err)
	}
	c := &Cart{Owner: owner, Lines: make([]LineView, 0, len(lines)), Total: decimal.Zero}
	for _, l := range lines {
		v := LineView{Line: l, ProductName: "Producto no encontrado"}
		p, err := uc.products.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, fmt.Errorf("obtener producto: %w", err)
		}
		if p != nil {
			v.ProductName, v.ProductPrice, v.ProductImage, v.ProductStock = p.Name, p.Price, p.ImageURL, p.Stock
		}
		c.Lines = append(c.Lines, v)
		c.Total = c.Total.Add(l.Subtotal())
	}
	return c, nil
}

// ClearForOwner vacía el carrito del dueño y devuelve cuántas líneas se eliminaron.
func (uc *UseCase) ClearForOwner(ctx context.Context, owner entity.CartOwner) (int64, error) {
	if !owner.Valid() {
		return 0, domain.ErrInvalidOwner
	}
	return uc.carts.DeleteByOwner(ctx, owner)
}

// PurgeStaleSessions elimina las líneas de sesiones anónimas sin actividad durante ttl.
func (uc *UseCase) PurgeStaleSessions(ctx context.Context, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, nil
	}
	n, err := uc.carts.DeleteSessionLinesBefore(ctx, uc.now().Add(-ttl))
	if err != nil {
		return 0, fmt.Errorf("purgar carritos anónimos: %w", err)
	}
	if n > 0 {
		uc.log.Info().Int64("lineas", n).Dur("ttl", ttl).Msg("carritos anónimos expirados eliminados")
	}
	return n, nil
}

func (uc *UseCase) product(ctx context.Context, id entity.ProductID) (*entity.Product, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if p == nil {
		return nil, &domain.ProductNotFoundError{ProductID: id}
	}
	return p, nil
}
