package dto

import (
	"encoding/json"
	"time"
)

// SaleItemRequest línea de venta. cantidad y precio_unitario aceptan número o texto.
type SaleItemRequest struct {
	ProductID int64           `json:"producto"`
	Quantity  json.RawMessage `json:"cantidad"`
	UnitPrice json.RawMessage `json:"precio_unitario,omitempty"`
}

// CreateSaleRequest venta a partir de una lista explícita de ítems.
type CreateSaleRequest struct {
	Items    []SaleItemRequest `json:"items"`
	ClientID *string           `json:"cliente,omitempty"`
}

// CartCheckoutRequest venta a partir del carrito de una sesión o de un usuario.
type CartCheckoutRequest struct {
	SessionID string  `json:"session_id,omitempty"`
	UserID    string  `json:"usuario_id,omitempty"`
	ClientID  *string `json:"cliente_cedula,omitempty"`
}

// SaleItemResponse ítem de venta.
type SaleItemResponse struct {
	ID           int64     `json:"id"`
	SaleID       int64     `json:"venta_id"`
	ProductID    int64     `json:"producto_id"`
	ProductName  string    `json:"producto_nombre"`
	ProductPrice string    `json:"producto_precio,omitempty"`
	ProductImage string    `json:"producto_imagen,omitempty"`
	Quantity     int       `json:"cantidad"`
	UnitPrice    string    `json:"precio_unitario"`
	Subtotal     string    `json:"subtotal"`
	CreatedAt    time.Time `json:"created_at"`
}

// SaleResponse venta con sus ítems.
type SaleResponse struct {
	ID         int64              `json:"id"`
	ClientID   *string            `json:"cliente_cedula"`
	ClientName string             `json:"cliente_nombre,omitempty"`
	Total      string             `json:"total"`
	Date       string             `json:"fecha"`
	Items      []SaleItemResponse `json:"items"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}
