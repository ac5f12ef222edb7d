package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tikno-erp/internal/application/dto"
	"github.com/jhoicas/tikno-erp/internal/domain"
)

// errorMapping traduce un error de dominio a (status, code). El orden importa: los
// errores tipados se evalúan antes que los centinelas genéricos.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrTransactionFailed, fiber.StatusInternalServerError, "TRANSACTION_FAILED"},
	{domain.ErrInsufficientStock, fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
	{domain.ErrProductNotFound, fiber.StatusNotFound, "PRODUCT_NOT_FOUND"},
	{domain.ErrClientNotFound, fiber.StatusNotFound, "CLIENT_NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmptyOrder, fiber.StatusBadRequest, "EMPTY_ORDER"},
	{domain.ErrEmptyCart, fiber.StatusBadRequest, "EMPTY_CART"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrInvalidPrice, fiber.StatusBadRequest, "INVALID_PRICE"},
	{domain.ErrInvalidOwner, fiber.StatusBadRequest, "INVALID_OWNER"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// writeError responde con dto.ErrorResponse según el error de dominio.
// Los fallos de almacenamiento devuelven un mensaje genérico y el detalle aparte.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.status >= fiber.StatusInternalServerError {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.target.Error(), Detail: err.Error()})
		}
		return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code: "INTERNAL", Message: "error interno del servidor", Detail: err.Error(),
	})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler handler de errores de Fiber: rutas inexistentes, body limit, panics recuperados.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "ROUTE_NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}
