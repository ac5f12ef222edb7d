package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tikno-erp/internal/application/dto"
	"github.com/jhoicas/tikno-erp/internal/application/inventory"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
)

// InventoryHandler ajustes manuales de stock (devoluciones y bajas).
type InventoryHandler struct {
	uc *inventory.StockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.StockUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Increment godoc
// @Summary      Incrementar stock
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.StockMovementRequest  true  "cantidad > 0"
// @Success      200   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/productos/{id}/stock/incrementar [post]
func (h *InventoryHandler) Increment(c *fiber.Ctx) error {
	return h.move(c, h.uc.Increment)
}

// Decrement godoc
// @Summary      Decrementar stock
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.StockMovementRequest  true  "cantidad > 0"
// @Success      200   {object}  dto.StockMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/productos/{id}/stock/decrementar [post]
func (h *InventoryHandler) Decrement(c *fiber.Ctx) error {
	return h.move(c, h.uc.Decrement)
}

type stockMove func(ctx context.Context, id entity.ProductID, amount int) (*inventory.Movement, error)

func (h *InventoryHandler) move(c *fiber.Ctx, fn stockMove) error {
	id, ok := entity.ParseProductID(c.Params("id"))
	if !ok {
		return badRequest(c, "INVALID_ID", "id de producto inválido")
	}
	var in dto.StockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	mv, err := fn(c.UserContext(), id, in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockMovementResponse{ProductID: int64(mv.ProductID), Quantity: mv.Amount, Stock: mv.Stock})
}
