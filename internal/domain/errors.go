package domain

import (
	"errors"
	"fmt"

	"github.com/jhoicas/tikno-erp/internal/domain/entity"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrClientNotFound     = errors.New("cliente no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Flujo de ventas y carrito.
	ErrEmptyOrder        = errors.New("la venta debe incluir al menos un producto")
	ErrEmptyCart         = errors.New("el carrito está vacío")
	ErrInvalidQuantity   = errors.New("la cantidad debe ser un número entero mayor a 0")
	ErrInvalidPrice      = errors.New("el precio unitario debe ser mayor a 0")
	ErrInvalidOwner      = errors.New("se requiere session_id o usuario_id")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrTransactionFailed = errors.New("error al procesar la transacción")
)

// ProductNotFoundError producto referenciado que no existe.
type ProductNotFoundError struct {
	ProductID entity.ProductID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("producto con ID %d no encontrado", e.ProductID)
}

// Is permite errors.Is(err, ErrProductNotFound).
func (e *ProductNotFoundError) Is(target error) bool { return target == ErrProductNotFound }

// InsufficientStockError cantidad solicitada mayor al stock disponible.
type InsufficientStockError struct {
	ProductID entity.ProductID
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %d: solo hay %d unidades disponibles, se solicitaron %d",
		e.ProductID, e.Available, e.Requested)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// TransactionFailedError falla de almacenamiento durante la fase de commit. Todo se revirtió.
type TransactionFailedError struct {
	Err error
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("%s: %v", ErrTransactionFailed.Error(), e.Err)
}

func (e *TransactionFailedError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrTransactionFailed).
func (e *TransactionFailedError) Is(target error) bool { return target == ErrTransactionFailed }
