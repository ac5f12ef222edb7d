package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tikno-erp/internal/application/dto"
	"github.com/jhoicas/tikno-erp/internal/application/sales"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/order"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
)

// SaleHandler ventas, ítems de venta y comprobantes.
// La autorización la decide el Workflow con el llamador de c.UserContext().
type SaleHandler struct {
	workflow *sales.Workflow
	receipts *sales.ReceiptUseCase
}

// NewSaleHandler construye el handler. receipts puede ser nil (sin comprobantes).
func NewSaleHandler(workflow *sales.Workflow, receipts *sales.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{workflow: workflow, receipts: receipts}
}

// Create godoc
// @Summary      Registrar venta a partir de ítems
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "items y cliente"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/ventas [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	lines := make([]order.Line, 0, len(in.Items))
	for _, it := range in.Items {
		qty, err := order.ParseQuantity(it.Quantity)
		if err != nil {
			return writeError(c, err)
		}
		price, err := order.ParsePrice(it.UnitPrice)
		if err != nil {
			return writeError(c, err)
		}
		line, err := order.NewLine(entity.ProductID(it.ProductID), qty, price)
		if err != nil {
			return writeError(c, err)
		}
		lines = append(lines, line)
	}
	o, err := order.New(lines)
	if err != nil {
		return writeError(c, err)
	}

	d, err := h.workflow.CreateSaleFromItems(c.UserContext(), clientRef(in.ClientID), o)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(d))
}

// Checkout godoc
// @Summary      Procesar carrito como venta
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CartCheckoutRequest  true  "session_id o usuario_id, cliente_cedula"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/ventas/procesar_desde_carrito [post]
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CartCheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	owner := cartOwner(c, in.SessionID, in.UserID)
	d, err := h.workflow.CreateSaleFromCart(c.UserContext(), owner, clientRef(in.ClientID))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(d))
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         ventas
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ventas/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, ok := entity.ParseSaleID(c.Params("id"))
	if !ok {
		return badRequest(c, "INVALID_ID", "id de venta inválido")
	}
	d, err := h.workflow.GetSale(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSaleResponse(d))
}

// List godoc
// @Summary      Listar ventas
// @Tags         ventas
// @Produce      json
// @Param        cliente       query  string  false  "Cédula del cliente"
// @Param        fecha_inicio  query  string  false  "YYYY-MM-DD"
// @Param        fecha_fin     query  string  false  "YYYY-MM-DD"
// @Param        limit         query  int     false  "Límite"  default(50)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ventas [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var filter repository.SaleFilter
	if v := strings.TrimSpace(c.Query("cliente")); v != "" {
		id := entity.ClientID(v)
		filter.ClientID = &id
	}
	for _, p := range []struct {
		key string
		dst **time.Time
	}{{"fecha_inicio", &filter.From}, {"fecha_fin", &filter.To}} {
		v := strings.TrimSpace(c.Query(p.key))
		if v == "" {
			continue
		}
		t, err := time.ParseInLocation("2006-01-02", v, time.UTC)
		if err != nil {
			return badRequest(c, "INVALID_DATE", p.key+" debe tener formato YYYY-MM-DD")
		}
		*p.dst = &t
	}
	page := pageFrom(c)
	list, err := h.workflow.ListSales(c.UserContext(), filter, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toSaleResponse(d))
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar venta (con sus ítems)
// @Tags         ventas
// @Param        id   path  int  true  "ID de la venta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ventas/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	id, ok := entity.ParseSaleID(c.Params("id"))
	if !ok {
		return badRequest(c, "INVALID_ID", "id de venta inválido")
	}
	if err := h.workflow.DeleteSale(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Receipt godoc
// @Summary      Descargar comprobante PDF
// @Tags         ventas
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ventas/{id}/comprobante [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	if h.receipts == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "comprobantes deshabilitados"})
	}
	id, ok := entity.ParseSaleID(c.Params("id"))
	if !ok {
		return badRequest(c, "INVALID_ID", "id de venta inválido")
	}
	pdf, filename, err := h.receipts.Download(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// ListItems godoc
// @Summary      Listar ítems de venta
// @Tags         venta-items
// @Produce      json
// @Param        venta  query  int  false  "ID de la venta"
// @Success      200  {array}   dto.SaleItemResponse
// @Router       /api/venta-items [get]
func (h *SaleHandler) ListItems(c *fiber.Ctx) error {
	var saleID *entity.SaleID
	if v := c.Query("venta"); v != "" {
		id, ok := entity.ParseSaleID(v)
		if !ok {
			return badRequest(c, "INVALID_ID", "venta debe ser un ID válido")
		}
		saleID = &id
	}
	items, err := h.workflow.ListItems(c.UserContext(), saleID)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.SaleItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toSaleItemResponse(it))
	}
	return c.JSON(out)
}

func clientRef(raw *string) *entity.ClientID {
	if raw == nil {
		return nil
	}
	v := strings.TrimSpace(*raw)
	if v == "" {
		return nil
	}
	id := entity.ClientID(v)
	return &id
}

func toSaleResponse(d *sales.SaleDetail) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:         int64(d.Sale.ID),
		ClientName: d.ClientName,
		Total:      d.Sale.Total.StringFixed(2),
		Date:       d.Sale.CreatedAt.Format(time.RFC3339),
		Items:      make([]dto.SaleItemResponse, 0, len(d.Items)),
		CreatedAt:  d.Sale.CreatedAt,
		UpdatedAt:  d.Sale.UpdatedAt,
	}
	if d.Sale.ClientID != nil {
		s := string(*d.Sale.ClientID)
		out.ClientID = &s
	}
	for _, it := range d.Items {
		out.Items = append(out.Items, toSaleItemResponse(it))
	}
	return out
}

func toSaleItemResponse(it sales.ItemDetail) dto.SaleItemResponse {
	out := dto.SaleItemResponse{
		ID:           int64(it.Item.ID),
		SaleID:       int64(it.Item.SaleID),
		ProductID:    int64(it.Item.ProductID),
		ProductName:  it.ProductName,
		ProductImage: it.ProductImage,
		Quantity:     it.Item.Quantity,
		UnitPrice:    it.Item.UnitPrice.StringFixed(2),
		Subtotal:     it.Item.Subtotal().StringFixed(2),
		CreatedAt:    it.Item.CreatedAt,
	}
	if it.ProductExists {
		out.ProductPrice = it.ProductPrice.StringFixed(2)
	}
	return out
}
