package sales

import (
	"context"
	"time"

	"github.com/jhoicas/tikno-erp/internal/application/access"
)

// Guard decide si el llamador en ctx puede ejecutar op. Nil = sin control (todo abierto).
type Guard interface {
	Check(ctx context.Context, op access.Operation) error
}

// ReceiptRenderer genera la representación PDF de una venta.
type ReceiptRenderer interface {
	RenderSaleReceipt(ctx context.Context, detail *SaleDetail, issuer string, issuedAt time.Time) ([]byte, error)
}
