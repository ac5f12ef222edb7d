package sales_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/tikno-erp/internal/application/access"
	"github.com/jhoicas/tikno-erp/internal/application/sales"
	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/order"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
	"github.com/jhoicas/tikno-erp/internal/infrastructure/memory"
)

type fixture struct {
	store    *memory.Store
	workflow *sales.Workflow
}

func newFixture(t *testing.T, opts ...sales.Option) *fixture {
	t.Helper()
	s := memory.NewStore()
	return &fixture{
		store:    s,
		workflow: sales.NewWorkflow(s, s.Sales(), s.Products(), s.Clients(), opts...),
	}
}

func (f *fixture) product(t *testing.T, name, price string, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) stock(t *testing.T, id entity.ProductID) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func (f *fixture) saleCount(t *testing.T) int {
	t.Helper()
	list, err := f.store.Sales().List(context.Background(), repository.SaleFilter{}, 0, 0)
	require.NoError(t, err)
	return len(list)
}

func mustOrder(t *testing.T, lines ...order.Line) order.Order {
	t.Helper()
	o, err := order.New(lines)
	require.NoError(t, err)
	return o
}

func line(t *testing.T, id entity.ProductID, qty int, price string) order.Line {
	t.Helper()
	var p *decimal.Decimal
	if price != "" {
		d := decimal.RequireFromString(price)
		p = &d
	}
	l, err := order.NewLine(id, qty, p)
	require.NoError(t, err)
	return l
}

func TestCreateSaleFromItems_EjemploBasico(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Café", "10.00", 5)

	sale, err := f.workflow.CreateSaleFromItems(ctx, nil, mustOrder(t, line(t, p.ID, 3, "")))
	require.NoError(t, err)

	assert.Equal(t, "30.00", sale.Total.StringFixed(2))
	assert.Nil(t, sale.ClientID)
	assert.Equal(t, 2, f.stock(t, p.ID))
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "Café", sale.Items[0].ProductName)
	assert.NotZero(t, sale.Items[0].Item.ID)
	assert.Equal(t, "30.00", sale.Items[0].Item.Subtotal().StringFixed(2))

	items, err := f.store.Sales().ListItems(ctx, &sale.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, p.ID, items[0].ProductID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "10.00", items[0].UnitPrice.StringFixed(2))
}

func TestCreateSaleFromItems_StockInsuficiente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Café", "10.00", 5)

	_, err := f.workflow.CreateSaleFromItems(ctx, nil, mustOrder(t, line(t, p.ID, 6, "")))

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, p.ID, stockErr.ProductID)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, f.stock(t, p.ID))
	assert.Equal(t, 0, f.saleCount(t))
}

func TestCreateSaleFromItems_FallaParcialNoAplicaNada(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.product(t, "A", "1.00", 10)
	b := f.product(t, "B", "2.00", 10)
	c := f.product(t, "C", "3.00", 1)

	_, err := f.workflow.CreateSaleFromItems(ctx, nil, mustOrder(t,
		line(t, a.ID, 4, ""),
		line(t, b.ID, 5, ""),
		line(t, c.ID, 2, ""),
	))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 10, f.stock(t, a.ID))
	assert.Equal(t, 10, f.stock(t, b.ID))
	assert.Equal(t, 1, f.stock(t, c.ID))
	assert.Equal(t, 0, f.saleCount(t))
}

func TestCreateSaleFromItems_LineasRepetidasSeAcumulan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Café", "10.00", 5)

	_, err := f.workflow.CreateSaleFromItems(ctx, nil, mustOrder(t, line(t, p.ID, 3, ""), line(t, p.ID, 3, "")))
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 6, stockErr.Requested)

	sale, err := f.workflow.CreateSaleFromItems(ctx, nil, mustOrder(t, line(t, p.ID, 2, ""), line(t, p.ID, 3, "")))
	require.NoError(t, err)
	assert.Equal(t, "50.00", sale.Total.StringFixed(2))
	assert.Equal(t, 0, f.stock(t, p.ID))
}

func TestCreateSaleFromItems_TotalesConPrecioIndicado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.product(t, "A", "10.00", 10)
	b := f.product(t, "B", "3.33", 10)

	sale, err := f.workflow.CreateSaleFromItems(ctx, nil, mustOrder(t,
		line(t, a.ID, 2, "7.50"),
		line(t, b.ID, 3, ""),
	))
	require.NoError(t, err)
	assert.Equal(t, "24.99", sale.Total.StringFixed(2))

	items, err := f.store.Sales().ListItems(ctx, &sale.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "7.50", items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "3.33", items[1].UnitPrice.StringFixed(2))
}

func TestCreateSaleFromItems_ProductoInexistente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Café", "10.00", 5)

	_, err := f.workflow.CreateSaleFromItems(ctx, nil, mustOrder(t, line(t, p.ID, 1, ""), line(t, 99, 1, "")))
	var nf *domain.ProductNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, entity.ProductID(99), nf.ProductID)
	assert.Equal(t, 5, f.stock(t, p.ID))
}

func TestCreateSaleFromItems_Cliente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Café", "10.00", 5)
	require.NoError(t, f.store.Clients().Create(ctx, &entity.Client{Cedula: "1020", Name: "Ana"}))

	missing := entity.ClientID("9999")
	_, err := f.workflow.CreateSaleFromItems(ctx, &missing, mustOrder(t, line(t, p.ID, 1, "")))
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
	assert.Equal(t, 5, f.stock(t, p.ID))

	ana := entity.ClientID("1020")
	sale, err := f.workflow.CreateSaleFromItems(ctx, &ana, mustOrder(t, line(t, p.ID, 1, "")))
	require.NoError(t, err)
	require.NotNil(t, sale.ClientID)
	assert.Equal(t, ana, *sale.ClientID)
	assert.Equal(t, "Ana", sale.ClientName)

	detail, err := f.workflow.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", detail.ClientName)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Café", detail.Items[0].ProductName)
}

func TestCreateSaleFromItems_ConcurrenciaUltimasUnidades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Último", "5.00", 3)

	const buyers = 10
	o := mustOrder(t, line(t, p.ID, 1, ""))
	var mu sync.Mutex
	var ok, insufficient int
	var g errgroup.Group
	for i := 0; i < buyers; i++ {
		g.Go(func() error {
			_, err := f.workflow.CreateSaleFromItems(ctx, nil, o)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 3, ok)
	assert.Equal(t, buyers-3, insufficient)
	assert.Equal(t, 0, f.stock(t, p.ID))
	assert.Equal(t, 3, f.saleCount(t))
}

func TestCreateSaleFromCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.product(t, "A", "10.00", 5)
	b := f.product(t, "B", "2.50", 5)
	owner := entity.SessionOwner("sess-1")

	// El precio guardado en el carrito manda aunque el catálogo haya cambiado.
	require.NoError(t, f.store.Carts().Create(ctx, &entity.CartLine{Owner: owner, ProductID: a.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("9.00")}))
	require.NoError(t, f.store.Carts().Create(ctx, &entity.CartLine{Owner: owner, ProductID: b.ID, Quantity: 4, UnitPrice: decimal.RequireFromString("2.50")}))
	other := entity.UserOwner("u-2")
	require.NoError(t, f.store.Carts().Create(ctx, &entity.CartLine{Owner: other, ProductID: a.ID, Quantity: 1, UnitPrice: a.Price}))

	sale, err := f.workflow.CreateSaleFromCart(ctx, owner, nil)
	require.NoError(t, err)
	assert.Equal(t, "28.00", sale.Total.StringFixed(2))
	assert.Equal(t, 3, f.stock(t, a.ID))
	assert.Equal(t, 1, f.stock(t, b.ID))

	lines, err := f.store.Carts().ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, lines)

	lines, err = f.store.Carts().ListByOwner(ctx, other)
	require.NoError(t, err)
	assert.Len(t, lines, 1, "el carrito de otro dueño no se toca")

	items, err := f.store.Sales().ListItems(ctx, &sale.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCreateSaleFromCart_Vacio(t *testing.T) {
	f := newFixture(t)
	_, err := f.workflow.CreateSaleFromCart(context.Background(), entity.UserOwner("u-1"), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Equal(t, 0, f.saleCount(t))
}

func TestCreateSaleFromCart_DuenoInvalido(t *testing.T) {
	f := newFixture(t)
	_, err := f.workflow.CreateSaleFromCart(context.Background(), entity.CartOwner{SessionID: "s", UserID: "u"}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidOwner)

	_, err = f.workflow.CreateSaleFromCart(context.Background(), entity.CartOwner{}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidOwner)
}

func TestCreateSaleFromCart_StockCambioDesdeQueSeAgrego(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "A", "10.00", 5)
	owner := entity.SessionOwner("sess-1")
	require.NoError(t, f.store.Carts().Create(ctx, &entity.CartLine{Owner: owner, ProductID: p.ID, Quantity: 4, UnitPrice: p.Price}))

	_, err := f.store.Products().DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)

	_, err = f.workflow.CreateSaleFromCart(ctx, owner, nil)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Available)

	lines, err := f.store.Carts().ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, lines, 1, "el carrito se conserva si la venta falla")
	assert.Equal(t, 0, f.saleCount(t))
}

func TestDeleteSale_EliminaItemsSinReponerStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Café", "10.00", 5)
	sale, err := f.workflow.CreateSaleFromItems(ctx, nil, mustOrder(t, line(t, p.ID, 2, "")))
	require.NoError(t, err)

	require.NoError(t, f.workflow.DeleteSale(ctx, sale.ID))

	_, err = f.workflow.GetSale(ctx, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	items, err := f.workflow.ListItems(ctx, &sale.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 3, f.stock(t, p.ID))

	assert.ErrorIs(t, f.workflow.DeleteSale(ctx, sale.ID), domain.ErrNotFound)
}

// failingRunner reemplaza el repositorio de ventas de la tx por uno que falla al crear ítems.
type failingRunner struct {
	inner repository.TxRunner
}

type failingSales struct {
	repository.SaleRepository
}

func (failingSales) CreateItem(context.Context, *entity.SaleItem) error {
	return errors.New("conexión perdida")
}

func (r failingRunner) Run(ctx context.Context, fn func(tx repository.TxRepos) error) error {
	return r.inner.Run(ctx, func(tx repository.TxRepos) error {
		tx.Sales = failingSales{tx.Sales}
		return fn(tx)
	})
}

func TestCreateSaleFromItems_FallaDeAlmacenamientoRevierte(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	p := &entity.Product{Name: "Café", Price: decimal.RequireFromString("10.00"), Stock: 5}
	require.NoError(t, s.Products().Create(ctx, p))
	w := sales.NewWorkflow(failingRunner{s}, s.Sales(), s.Products(), s.Clients())

	_, err := w.CreateSaleFromItems(ctx, nil, mustOrder(t, line(t, p.ID, 2, "")))
	assert.ErrorIs(t, err, domain.ErrTransactionFailed)
	var txErr *domain.TransactionFailedError
	require.ErrorAs(t, err, &txErr)
	assert.EqualError(t, txErr.Err, "conexión perdida")

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
	list, err := s.Sales().List(ctx, repository.SaleFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestWorkflow_Guard(t *testing.T) {
	policy, err := access.ParsePolicy("ventas.eliminar=admin")
	require.NoError(t, err)
	f := newFixture(t, sales.WithGuard(policy))
	p := f.product(t, "Café", "10.00", 5)

	ctx := context.Background()
	sale, err := f.workflow.CreateSaleFromItems(ctx, nil, mustOrder(t, line(t, p.ID, 1, "")))
	require.NoError(t, err, "crear sigue abierto")

	assert.ErrorIs(t, f.workflow.DeleteSale(ctx, sale.ID), domain.ErrUnauthorized)
	staff := access.WithCaller(ctx, access.Caller{UserID: "u-1", Role: "staff"})
	assert.ErrorIs(t, f.workflow.DeleteSale(staff, sale.ID), domain.ErrForbidden)
	admin := access.WithCaller(ctx, access.Caller{UserID: "u-2", Role: "admin"})
	assert.NoError(t, f.workflow.DeleteSale(admin, sale.ID))
}

func TestListSales_FiltraPorCliente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Café", "10.00", 10)
	require.NoError(t, f.store.Clients().Create(ctx, &entity.Client{Cedula: "1", Name: "Ana"}))
	ana := entity.ClientID("1")

	_, err := f.workflow.CreateSaleFromItems(ctx, &ana, mustOrder(t, line(t, p.ID, 1, "")))
	require.NoError(t, err)
	_, err = f.workflow.CreateSaleFromItems(ctx, nil, mustOrder(t, line(t, p.ID, 1, "")))
	require.NoError(t, err)

	list, err := f.workflow.ListSales(ctx, repository.SaleFilter{ClientID: &ana}, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana", list[0].ClientName)
	assert.Len(t, list[0].Items, 1)

	all, err := f.workflow.ListItems(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestWorkflow_CrearNoRequiereLectura(t *testing.T) {
	policy, err := access.ParsePolicy("ventas.ver=admin")
	require.NoError(t, err)
	f := newFixture(t, sales.WithGuard(policy))
	p := f.product(t, "Café", "10.00", 5)
	ctx := context.Background()

	sale, err := f.workflow.CreateSaleFromItems(ctx, nil, mustOrder(t, line(t, p.ID, 3, "")))
	require.NoError(t, err)
	assert.Equal(t, "30.00", sale.Total.StringFixed(2))
	require.Len(t, sale.Items, 1)

	owner := entity.SessionOwner("sess-1")
	require.NoError(t, f.store.Carts().Create(ctx, &entity.CartLine{Owner: owner, ProductID: p.ID, Quantity: 2, UnitPrice: p.Price}))
	fromCart, err := f.workflow.CreateSaleFromCart(ctx, owner, nil)
	require.NoError(t, err)
	assert.Equal(t, "20.00", fromCart.Total.StringFixed(2))
	assert.Equal(t, 0, f.stock(t, p.ID))

	_, err = f.workflow.GetSale(ctx, sale.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	admin := access.WithCaller(ctx, access.Caller{UserID: "u-1", Role: "admin"})
	got, err := f.workflow.GetSale(admin, fromCart.ID)
	require.NoError(t, err)
	assert.Equal(t, "20.00", got.Total.StringFixed(2))
}

func TestWorkflow_CrearDenegadoNoAplicaNada(t *testing.T) {
	policy, err := access.ParsePolicy("ventas.crear=admin;ventas.procesar_carrito=admin")
	require.NoError(t, err)
	f := newFixture(t, sales.WithGuard(policy))
	p := f.product(t, "Café", "10.00", 5)
	ctx := access.WithCaller(context.Background(), access.Caller{UserID: "u-1", Role: "staff"})

	_, err = f.workflow.CreateSaleFromItems(ctx, nil, mustOrder(t, line(t, p.ID, 1, "")))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	owner := entity.UserOwner("u-1")
	require.NoError(t, f.store.Carts().Create(ctx, &entity.CartLine{Owner: owner, ProductID: p.ID, Quantity: 1, UnitPrice: p.Price}))
	_, err = f.workflow.CreateSaleFromCart(ctx, owner, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Equal(t, 5, f.stock(t, p.ID))
	assert.Equal(t, 0, f.saleCount(t))

	list, err := f.workflow.ListSales(ctx, repository.SaleFilter{}, 0, 0)
	require.NoError(t, err, "ver sigue abierto")
	assert.Empty(t, list)
}

func TestListItems_MasRecientesPrimero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.product(t, "A", "1.00", 10)
	b := f.product(t, "B", "2.00", 10)

	base := time.Date(2026, time.May, 4, 10, 0, 0, 0, time.UTC)
	f.store.SetClock(func() time.Time { return base })
	first, err := f.workflow.CreateSaleFromItems(ctx, nil, mustOrder(t, line(t, a.ID, 1, ""), line(t, b.ID, 1, "")))
	require.NoError(t, err)
	f.store.SetClock(func() time.Time { return base.Add(time.Hour) })
	second, err := f.workflow.CreateSaleFromItems(ctx, nil, mustOrder(t, line(t, b.ID, 2, "")))
	require.NoError(t, err)

	all, err := f.workflow.ListItems(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, second.ID, all[0].Item.SaleID)
	assert.Equal(t, first.Items[1].Item.ID, all[1].Item.ID, "mismo instante: id descendente")
	assert.Equal(t, first.Items[0].Item.ID, all[2].Item.ID)

	// El detalle de la venta conserva el orden de las líneas.
	detail, err := f.workflow.GetSale(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 2)
	assert.Equal(t, "A", detail.Items[0].ProductName)
	assert.Equal(t, "B", detail.Items[1].ProductName)
}
