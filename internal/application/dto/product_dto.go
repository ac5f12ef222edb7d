package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"imagen_url"`
	CategoryID  *int64          `json:"categoria"`
}

// UpdateProductRequest entrada para actualizar (campos opcionales). El stock no se edita aquí.
type UpdateProductRequest struct {
	Name        *string          `json:"nombre,omitempty"`
	Description *string          `json:"descripcion,omitempty"`
	Price       *decimal.Decimal `json:"precio,omitempty"`
	ImageURL    *string          `json:"imagen_url,omitempty"`
	CategoryID  *int64           `json:"categoria,omitempty"`
	// ClearCategory deja el producto sin categoría (categoria: null no se distingue de ausente).
	ClearCategory bool `json:"sin_categoria,omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"nombre"`
	Description  string    `json:"descripcion"`
	Price        string    `json:"precio"`
	Stock        int       `json:"stock"`
	ImageURL     string    `json:"imagen_url"`
	CategoryID   *int64    `json:"categoria"`
	CategoryName string    `json:"categoria_nombre,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductListResponse listado paginado.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// StockMovementRequest cantidad a sumar o restar.
type StockMovementRequest struct {
	Quantity int `json:"cantidad"`
}

// StockMovementResponse resultado de un ajuste de stock.
type StockMovementResponse struct {
	ProductID int64 `json:"producto_id"`
	Quantity  int   `json:"cantidad"`
	Stock     int   `json:"stock"`
}
