// Package sales implementa el flujo de venta: valida el pedido contra el stock vigente
// y, en una sola transacción, crea la venta, sus ítems y descuenta inventario.
package sales

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tikno-erp/internal/application/access"
	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/order"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
	"github.com/jhoicas/tikno-erp/pkg/logger"
)

// Workflow motor de ventas.
type Workflow struct {
	tx       repository.TxRunner
	sales    repository.SaleRepository
	products repository.ProductRepository
	clients  repository.ClientRepository
	guard    Guard
	log      *logger.Logger
	now      func() time.Time
}

// Option configura el Workflow.
type Option func(*Workflow)

// WithGuard activa el control de acceso por operación.
func WithGuard(g Guard) Option { return func(w *Workflow) { w.guard = g } }

// WithLogger registra ventas confirmadas y fallos de transacción.
func WithLogger(l *logger.Logger) Option { return func(w *Workflow) { w.log = l } }

// WithClock reemplaza el reloj usado para la fecha de la venta.
func WithClock(now func() time.Time) Option { return func(w *Workflow) { w.now = now } }

// NewWorkflow construye el motor. Los repositorios sin tx se usan solo para lecturas.
func NewWorkflow(
	tx repository.TxRunner,
	sales repository.SaleRepository,
	products repository.ProductRepository,
	clients repository.ClientRepository,
	opts ...Option,
) *Workflow {
	w := &Workflow{
		tx:       tx,
		sales:    sales,
		products: products,
		clients:  clients,
		log:      logger.Nop(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type pricedLine struct {
	product   *entity.Product
	quantity  int
	unitPrice decimal.Decimal
}

// CreateSaleFromItems crea una venta a partir de una lista explícita de líneas.
// El detalle devuelto se arma dentro de la transacción: no requiere permiso de lectura.
func (w *Workflow) CreateSaleFromItems(ctx context.Context, clientRef *entity.ClientID, o order.Order) (*SaleDetail, error) {
	if err := w.authorize(ctx, access.SaleCreate); err != nil {
		return nil, err
	}
	if len(o.Lines()) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	var detail *SaleDetail
	err := w.tx.Run(ctx, func(tx repository.TxRepos) error {
		client, priced, total, err := w.validate(ctx, tx, clientRef, o)
		if err != nil {
			return err
		}
		detail, err = w.commit(ctx, tx, client, priced, total)
		return err
	})
	if err != nil {
		return nil, w.classify(err, "items")
	}
	w.log.Info().Int64("sale_id", int64(detail.ID)).Str("total", detail.Total.StringFixed(2)).
		Int("items", len(detail.Items)).Msg("venta registrada")
	return detail, nil
}

// CreateSaleFromCart convierte el carrito del dueño en una venta y lo vacía.
// Las líneas se cobran al precio guardado al agregarlas.
func (w *Workflow) CreateSaleFromCart(ctx context.Context, owner entity.CartOwner, clientRef *entity.ClientID) (*SaleDetail, error) {
	if err := w.authorize(ctx, access.SaleCheckout); err != nil {
		return nil, err
	}
	if !owner.Valid() {
		return nil, domain.ErrInvalidOwner
	}

	var detail *SaleDetail
	err := w.tx.Run(ctx, func(tx repository.TxRepos) error {
		cart, err := tx.Carts.ListByOwner(ctx, owner)
		if err != nil {
			return err
		}
		if len(cart) == 0 {
			return domain.ErrEmptyCart
		}
		lines := make([]order.Line, 0, len(cart))
		for _, cl := range cart {
			price := cl.UnitPrice
			l, err := order.NewLine(cl.ProductID, cl.Quantity, &price)
			if err != nil {
				return err
			}
			lines = append(lines, l)
		}
		o, err := order.New(lines)
		if err != nil {
			return err
		}
		client, priced, total, err := w.validate(ctx, tx, clientRef, o)
		if err != nil {
			return err
		}
		if detail, err = w.commit(ctx, tx, client, priced, total); err != nil {
			return err
		}
		_, err = tx.Carts.DeleteByOwner(ctx, owner)
		return err
	})
	if err != nil {
		return nil, w.classify(err, "carrito")
	}
	w.log.Info().Int64("sale_id", int64(detail.ID)).Str("total", detail.Total.StringFixed(2)).
		Int("items", len(detail.Items)).Str("owner", owner.String()).Msg("venta registrada desde carrito")
	return detail, nil
}

// DeleteSale elimina los ítems y luego la venta. El stock descontado no se repone.
func (w *Workflow) DeleteSale(ctx context.Context, id entity.SaleID) error {
	if err := w.authorize(ctx, access.SaleDelete); err != nil {
		return err
	}
	err := w.tx.Run(ctx, func(tx repository.TxRepos) error {
		sale, err := tx.Sales.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if _, err := tx.Sales.DeleteItemsBySale(ctx, id); err != nil {
			return err
		}
		return tx.Sales.Delete(ctx, id)
	})
	if err != nil {
		return w.classify(err, "eliminar")
	}
	w.log.Info().Int64("sale_id", int64(id)).Msg("venta eliminada")
	return nil
}

// validate primera fase: referencias y stock, sin mutar nada.
// El stock se compara contra la cantidad total pedida de cada producto.
func (w *Workflow) validate(ctx context.Context, tx repository.TxRepos, clientRef *entity.ClientID, o order.Order) (*entity.Client, []pricedLine, decimal.Decimal, error) {
	var client *entity.Client
	if clientRef != nil {
		c, err := tx.Clients.GetByCedula(ctx, *clientRef)
		if err != nil {
			return nil, nil, decimal.Zero, err
		}
		if c == nil {
			return nil, nil, decimal.Zero, domain.ErrClientNotFound
		}
		client = c
	}

	requested := o.QuantityByProduct()
	products := make(map[entity.ProductID]*entity.Product, len(requested))
	lines := o.Lines()
	priced := make([]pricedLine, 0, len(lines))
	total := decimal.Zero

	for _, l := range lines {
		p, ok := products[l.ProductID()]
		if !ok {
			var err error
			if p, err = tx.Products.GetByID(ctx, l.ProductID()); err != nil {
				return nil, nil, decimal.Zero, err
			}
			if p == nil {
				return nil, nil, decimal.Zero, &domain.ProductNotFoundError{ProductID: l.ProductID()}
			}
			if want := requested[p.ID]; !p.HasStock(want) {
				return nil, nil, decimal.Zero, &domain.InsufficientStockError{
					ProductID: p.ID, Available: p.Stock, Requested: want,
				}
			}
			products[p.ID] = p
		}

		unit := l.UnitPrice(p.Price)
		if !unit.IsPositive() {
			return nil, nil, decimal.Zero, domain.ErrInvalidPrice
		}
		priced = append(priced, pricedLine{product: p, quantity: l.Quantity(), unitPrice: unit})
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(l.Quantity()))))
	}
	return client, priced, total.Round(2), nil
}

// commit segunda fase: venta, descuento condicional de stock e ítems, todo en tx.
func (w *Workflow) commit(ctx context.Context, tx repository.TxRepos, client *entity.Client, lines []pricedLine, total decimal.Decimal) (*SaleDetail, error) {
	sale := &entity.Sale{Total: total, CreatedAt: w.now()}
	detail := &SaleDetail{Sale: sale, Items: make([]ItemDetail, 0, len(lines))}
	if client != nil {
		id := client.Cedula
		sale.ClientID = &id
		detail.ClientName = client.Name
	}
	if err := tx.Sales.Create(ctx, sale); err != nil {
		return nil, err
	}
	for _, l := range lines {
		if _, err := tx.Products.DecrementStock(ctx, l.product.ID, l.quantity); err != nil {
			return nil, err
		}
		item := &entity.SaleItem{
			SaleID:    sale.ID,
			ProductID: l.product.ID,
			Quantity:  l.quantity,
			UnitPrice: l.unitPrice,
		}
		if err := tx.Sales.CreateItem(ctx, item); err != nil {
			return nil, err
		}
		detail.Items = append(detail.Items, ItemDetail{
			Item:          item,
			ProductName:   l.product.Name,
			ProductPrice:  l.product.Price,
			ProductImage:  l.product.ImageURL,
			ProductExists: true,
		})
	}
	return detail, nil
}

func (w *Workflow) authorize(ctx context.Context, op access.Operation) error {
	if w.guard == nil {
		return nil
	}
	return w.guard.Check(ctx, op)
}

var passthrough = []error{
	domain.ErrEmptyOrder,
	domain.ErrEmptyCart,
	domain.ErrInvalidQuantity,
	domain.ErrInvalidPrice,
	domain.ErrInvalidOwner,
	domain.ErrProductNotFound,
	domain.ErrInsufficientStock,
	domain.ErrClientNotFound,
	domain.ErrNotFound,
}

// classify deja pasar los errores de negocio; cualquier otro es una falla de transacción.
func (w *Workflow) classify(err error, flow string) error {
	for _, target := range passthrough {
		if errors.Is(err, target) {
			return err
		}
	}
	w.log.Error().Err(err).Str("flow", flow).Msg("transacción de venta revertida")
	return &domain.TransactionFailedError{Err: err}
}
