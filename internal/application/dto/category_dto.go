package dto

// CategoryRequest entrada para crear/actualizar una categoría.
type CategoryRequest struct {
	Name string `json:"nombre"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}
