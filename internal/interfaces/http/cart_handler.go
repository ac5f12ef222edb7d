package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tikno-erp/internal/application/cart"
	"github.com/jhoicas/tikno-erp/internal/application/dto"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/order"
)

// CartHandler carrito por sesión anónima (session_id) o por usuario (usuario_id).
type CartHandler struct {
	uc *cart.UseCase
}

func NewCartHandler(uc *cart.UseCase) *CartHandler {
	return &CartHandler{uc: uc}
}

// List godoc
// @Summary      Ver carrito
// @Tags         carrito
// @Produce      json
// @Param        session_id  query  string  false  "Sesión anónima"
// @Param        usuario_id  query  string  false  "Usuario"
// @Success      200  {object}  dto.CartResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/carrito [get]
func (h *CartHandler) List(c *fiber.Ctx) error {
	owner := cartOwner(c, c.Query("session_id"), c.Query("usuario_id"))
	out, err := h.uc.ListForOwner(c.UserContext(), owner)
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.CartResponse{Items: make([]dto.CartItemResponse, 0, len(out.Lines)), Total: out.Total.StringFixed(2)}
	for _, v := range out.Lines {
		item := toCartItemResponse(v.Line)
		item.ProductName = v.ProductName
		item.ProductImage = v.ProductImage
		if v.ProductName != "" && !v.ProductPrice.IsZero() {
			item.ProductPrice = v.ProductPrice.StringFixed(2)
			stock := v.ProductStock
			item.ProductStock = &stock
		}
		resp.Items = append(resp.Items, item)
	}
	return c.JSON(resp)
}

// Add godoc
// @Summary      Agregar producto al carrito
// @Description  Si el producto ya está en el carrito del mismo dueño se suma la cantidad.
// @Tags         carrito
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddCartItemRequest  true  "Dueño, producto y cantidad (por defecto 1)"
// @Success      201   {object}  dto.CartItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/carrito [post]
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in dto.AddCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	qty := 1
	if len(in.Quantity) > 0 && string(in.Quantity) != "null" {
		var err error
		if qty, err = order.ParseQuantity(in.Quantity); err != nil {
			return writeError(c, err)
		}
	}
	if in.ProductID <= 0 {
		return badRequest(c, "VALIDATION", "producto_id es requerido")
	}
	line, err := h.uc.AddOrMerge(c.UserContext(), cartOwner(c, in.SessionID, in.UserID), entity.ProductID(in.ProductID), qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCartItemResponse(line))
}

// Update godoc
// @Summary      Cambiar cantidad de una línea
// @Tags         carrito
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la línea"
// @Param        body  body  dto.UpdateCartItemRequest  true  "Nueva cantidad"
// @Success      200   {object}  dto.CartItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/carrito/{id} [put]
func (h *CartHandler) Update(c *fiber.Ctx) error {
	id, ok := entity.ParseCartLineID(c.Params("id"))
	if !ok {
		return badRequest(c, "INVALID_ID", "id de línea inválido")
	}
	var in dto.UpdateCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	qty, err := order.ParseQuantity(in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	line, err := h.uc.UpdateQuantity(c.UserContext(), id, qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCartItemResponse(line))
}

// Remove godoc
// @Summary      Quitar línea del carrito
// @Tags         carrito
// @Param        id   path  int  true  "ID de la línea"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/carrito/{id} [delete]
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := entity.ParseCartLineID(c.Params("id"))
	if !ok {
		return badRequest(c, "INVALID_ID", "id de línea inválido")
	}
	if err := h.uc.RemoveLine(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Clear godoc
// @Summary      Vaciar carrito
// @Tags         carrito
// @Param        session_id  query  string  false  "Sesión anónima"
// @Param        usuario_id  query  string  false  "Usuario"
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/carrito [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	n, err := h.uc.ClearForOwner(c.UserContext(), cartOwner(c, c.Query("session_id"), c.Query("usuario_id")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: pluralize(n, "línea eliminada", "líneas eliminadas")})
}

// cartOwner arma el dueño desde los parámetros. Sin ninguno, un usuario autenticado
// usa su propio carrito.
func cartOwner(c *fiber.Ctx, sessionID, userID string) entity.CartOwner {
	sessionID, userID = strings.TrimSpace(sessionID), strings.TrimSpace(userID)
	if sessionID == "" && userID == "" {
		if caller, ok := GetCaller(c); ok {
			return entity.UserOwner(caller.UserID)
		}
	}
	return entity.CartOwner{SessionID: sessionID, UserID: entity.UserID(userID)}
}

func toCartItemResponse(l *entity.CartLine) dto.CartItemResponse {
	out := dto.CartItemResponse{
		ID:        int64(l.ID),
		ProductID: int64(l.ProductID),
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice.StringFixed(2),
		Subtotal:  l.Subtotal().StringFixed(2),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
	if l.Owner.SessionID != "" {
		s := l.Owner.SessionID
		out.SessionID = &s
	}
	if l.Owner.UserID != "" {
		u := string(l.Owner.UserID)
		out.UserID = &u
	}
	return out
}
