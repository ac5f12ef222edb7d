package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
	"github.com/jhoicas/tikno-erp/internal/infrastructure/memory"
)

func newProduct(t *testing.T, s *memory.Store, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: "Café", Price: decimal.RequireFromString("10.00"), Stock: stock}
	require.NoError(t, s.Products().Create(context.Background(), p))
	return p
}

func TestRun_RollbackRestauraEstado(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	p := newProduct(t, s, 5)

	boom := errors.New("boom")
	err := s.Run(ctx, func(tx repository.TxRepos) error {
		_, err := tx.Products.DecrementStock(ctx, p.ID, 3)
		require.NoError(t, err)
		require.NoError(t, tx.Sales.Create(ctx, &entity.Sale{Total: decimal.RequireFromString("30.00")}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)

	sales, err := s.Sales().List(ctx, repository.SaleFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestDecrementStock(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	p := newProduct(t, s, 2)

	left, err := s.Products().DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, left)

	_, err = s.Products().DecrementStock(ctx, p.ID, 1)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available)
	assert.Equal(t, 1, stockErr.Requested)

	_, err = s.Products().DecrementStock(ctx, 999, 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCart_UnaLineaPorDuenoYProducto(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	p := newProduct(t, s, 10)
	owner := entity.SessionOwner("abc")

	require.NoError(t, s.Carts().Create(ctx, &entity.CartLine{Owner: owner, ProductID: p.ID, Quantity: 1}))
	err := s.Carts().Create(ctx, &entity.CartLine{Owner: owner, ProductID: p.ID, Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	other := entity.UserOwner("u-1")
	require.NoError(t, s.Carts().Create(ctx, &entity.CartLine{Owner: other, ProductID: p.ID, Quantity: 2}))
}

func TestCart_DeleteSessionLinesBefore(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	p := newProduct(t, s, 10)

	past := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return past })
	require.NoError(t, s.Carts().Create(ctx, &entity.CartLine{Owner: entity.SessionOwner("old"), ProductID: p.ID, Quantity: 1}))
	require.NoError(t, s.Carts().Create(ctx, &entity.CartLine{Owner: entity.UserOwner("u-1"), ProductID: p.ID, Quantity: 1}))

	s.SetClock(func() time.Time { return past.Add(48 * time.Hour) })
	require.NoError(t, s.Carts().Create(ctx, &entity.CartLine{Owner: entity.SessionOwner("new"), ProductID: p.ID, Quantity: 1}))

	n, err := s.Carts().DeleteSessionLinesBefore(ctx, past.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	lines, err := s.Carts().ListByOwner(ctx, entity.UserOwner("u-1"))
	require.NoError(t, err)
	assert.Len(t, lines, 1, "las líneas de usuarios autenticados no expiran")
}

func TestSales_ListFiltraPorClienteYFecha(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	ana := entity.ClientID("100")
	day1 := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	require.NoError(t, s.Sales().Create(ctx, &entity.Sale{ClientID: &ana, Total: decimal.NewFromInt(1), CreatedAt: day1}))
	require.NoError(t, s.Sales().Create(ctx, &entity.Sale{Total: decimal.NewFromInt(2), CreatedAt: day2}))

	got, err := s.Sales().List(ctx, repository.SaleFilter{ClientID: &ana}, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entity.SaleID(1), got[0].ID)

	from := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	got, err = s.Sales().List(ctx, repository.SaleFilter{From: &from, To: &from}, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entity.SaleID(2), got[0].ID)

	got, err = s.Sales().List(ctx, repository.SaleFilter{}, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entity.SaleID(2), got[0].ID, "más recientes primero")
}
