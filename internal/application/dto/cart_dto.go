package dto

import (
	"encoding/json"
	"time"
)

// AddCartItemRequest agrega un producto al carrito de una sesión o de un usuario.
type AddCartItemRequest struct {
	SessionID string          `json:"session_id,omitempty"`
	UserID    string          `json:"usuario_id,omitempty"`
	ProductID int64           `json:"producto_id"`
	Quantity  json.RawMessage `json:"cantidad,omitempty"`
}

// UpdateCartItemRequest nueva cantidad de una línea.
type UpdateCartItemRequest struct {
	Quantity json.RawMessage `json:"cantidad"`
}

// CartItemResponse línea de carrito con datos vigentes del producto.
type CartItemResponse struct {
	ID           int64     `json:"id"`
	SessionID    *string   `json:"session_id"`
	UserID       *string   `json:"usuario_id"`
	ProductID    int64     `json:"producto_id"`
	ProductName  string    `json:"producto_nombre,omitempty"`
	ProductPrice string    `json:"producto_precio,omitempty"`
	ProductImage string    `json:"producto_imagen,omitempty"`
	ProductStock *int      `json:"producto_stock,omitempty"`
	Quantity     int       `json:"cantidad"`
	UnitPrice    string    `json:"precio_unitario"`
	Subtotal     string    `json:"subtotal"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CartResponse carrito completo.
type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total string             `json:"total"`
}
