package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/tikno-erp/internal/domain/entity"
)

// ReceiptUseCase genera el comprobante PDF de una venta.
type ReceiptUseCase struct {
	workflow *Workflow
	renderer ReceiptRenderer
	issuer   string
}

// NewReceiptUseCase issuer es el nombre que encabeza el comprobante.
func NewReceiptUseCase(workflow *Workflow, renderer ReceiptRenderer, issuer string) *ReceiptUseCase {
	return &ReceiptUseCase{workflow: workflow, renderer: renderer, issuer: issuer}
}

// Download devuelve (pdf, nombre de archivo). domain.ErrNotFound si la venta no existe.
func (uc *ReceiptUseCase) Download(ctx context.Context, id entity.SaleID) ([]byte, string, error) {
	detail, err := uc.workflow.GetSale(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.renderer.RenderSaleReceipt(ctx, detail, uc.issuer, uc.workflow.now())
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generación fallida: %w", err)
	}
	return pdf, fmt.Sprintf("venta_%06d.pdf", detail.Sale.ID), nil
}
