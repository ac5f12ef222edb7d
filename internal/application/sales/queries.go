package sales

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tikno-erp/internal/application/access"
	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
)

// ItemDetail ítem de venta con datos del producto (si aún existe).
type ItemDetail struct {
	Item          *entity.SaleItem
	ProductName   string
	ProductPrice  decimal.Decimal
	ProductImage  string
	ProductExists bool
}

// SaleDetail venta con sus ítems y el nombre del cliente.
type SaleDetail struct {
	*entity.Sale
	ClientName string
	Items      []ItemDetail
}

// GetSale devuelve la venta con sus ítems. domain.ErrNotFound si no existe.
func (w *Workflow) GetSale(ctx context.Context, id entity.SaleID) (*SaleDetail, error) {
	if err := w.authorize(ctx, access.SaleRead); err != nil {
		return nil, err
	}
	sale, err := w.sales.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener venta: %w", err)
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return w.detail(ctx, sale, newLookup(w))
}

// ListSales lista ventas (más recientes primero) filtrando por cliente y rango de fechas.
func (w *Workflow) ListSales(ctx context.Context, filter repository.SaleFilter, limit, offset int) ([]*SaleDetail, error) {
	if err := w.authorize(ctx, access.SaleRead); err != nil {
		return nil, err
	}
	list, err := w.sales.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar ventas: %w", err)
	}
	lk := newLookup(w)
	out := make([]*SaleDetail, 0, len(list))
	for _, s := range list {
		d, err := w.detail(ctx, s, lk)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// ListItems lista ítems de venta, de una venta concreta o de todas, más recientes primero.
// El detalle de una venta (GetSale) conserva el orden de inserción.
func (w *Workflow) ListItems(ctx context.Context, saleID *entity.SaleID) ([]ItemDetail, error) {
	if err := w.authorize(ctx, access.SaleRead); err != nil {
		return nil, err
	}
	items, err := w.sales.ListItems(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("listar ítems de venta: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return newLookup(w).items(ctx, items)
}

func (w *Workflow) detail(ctx context.Context, sale *entity.Sale, lk *lookup) (*SaleDetail, error) {
	items, err := w.sales.ListItems(ctx, &sale.ID)
	if err != nil {
		return nil, fmt.Errorf("listar ítems de venta: %w", err)
	}
	d := &SaleDetail{Sale: sale}
	if d.Items, err = lk.items(ctx, items); err != nil {
		return nil, err
	}
	if sale.ClientID != nil {
		if d.ClientName, err = lk.clientName(ctx, *sale.ClientID); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// lookup cache de productos y clientes durante una consulta.
type lookup struct {
	w        *Workflow
	products map[entity.ProductID]*entity.Product
	clients  map[entity.ClientID]string
}

func newLookup(w *Workflow) *lookup {
	return &lookup{w: w, products: map[entity.ProductID]*entity.Product{}, clients: map[entity.ClientID]string{}}
}

func (lk *lookup) items(ctx context.Context, items []*entity.SaleItem) ([]ItemDetail, error) {
	out := make([]ItemDetail, 0, len(items))
	for _, it := range items {
		p, ok := lk.products[it.ProductID]
		if !ok {
			var err error
			if p, err = lk.w.products.GetByID(ctx, it.ProductID); err != nil {
				return nil, fmt.Errorf("obtener producto: %w", err)
			}
			lk.products[it.ProductID] = p
		}
		d := ItemDetail{Item: it, ProductName: "Producto no encontrado"}
		if p != nil {
			d.ProductName, d.ProductPrice, d.ProductImage, d.ProductExists = p.Name, p.Price, p.ImageURL, true
		}
		out = append(out, d)
	}
	return out, nil
}

func (lk *lookup) clientName(ctx context.Context, id entity.ClientID) (string, error) {
	if name, ok := lk.clients[id]; ok {
		return name, nil
	}
	c, err := lk.w.clients.GetByCedula(ctx, id)
	if err != nil {
		return "", fmt.Errorf("obtener cliente: %w", err)
	}
	name := ""
	if c != nil {
		name = c.Name
	}
	lk.clients[id] = name
	return name, nil
}
