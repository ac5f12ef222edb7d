package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tikno-erp/internal/application/sales"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0,00", formatMoney(decimal.Zero))
	assert.Equal(t, "$999,90", formatMoney(decimal.RequireFromString("999.9")))
	assert.Equal(t, "$25.000,00", formatMoney(decimal.NewFromInt(25000)))
	assert.Equal(t, "$1.234.567,89", formatMoney(decimal.RequireFromString("1234567.89")))
	assert.Equal(t, "-$1.000,00", formatMoney(decimal.NewFromInt(-1000)))
}

func TestRenderSaleReceipt(t *testing.T) {
	cedula := entity.ClientID("1020304050")
	created := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)
	d := &sales.SaleDetail{
		Sale:       &entity.Sale{ID: 7, ClientID: &cedula, Total: decimal.RequireFromString("28.00"), CreatedAt: created},
		ClientName: "Ana Pérez",
		Items: []sales.ItemDetail{
			{
				Item:          &entity.SaleItem{ID: 1, SaleID: 7, ProductID: 3, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
				ProductName:   "Camiseta",
				ProductExists: true,
			},
			{
				Item:        &entity.SaleItem{ID: 2, SaleID: 7, ProductID: 9, Quantity: 1, UnitPrice: decimal.RequireFromString("8.00")},
				ProductName: "Producto no encontrado",
			},
		},
	}

	out, err := NewReceiptGenerator().RenderSaleReceipt(context.Background(), d, "ERP TIKNO", created.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderSaleReceipt_VentaVacia(t *testing.T) {
	_, err := NewReceiptGenerator().RenderSaleReceipt(context.Background(), &sales.SaleDetail{}, "x", time.Now())
	assert.Error(t, err)
}
