package entity

import "strconv"

// Identificadores tipados. Las referencias entre ventas, ítems, productos y clientes
// no están forzadas por el esquema; el motor de ventas las valida antes de usarlas.
type (
	ProductID  int64
	CategoryID int64
	SaleID     int64
	SaleItemID int64
	CartLineID int64
	ClientID   string // cédula
	UserID     string // UUID
)

// ParseProductID convierte un parámetro de ruta en ProductID.
func ParseProductID(s string) (ProductID, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return ProductID(n), true
}

// ParseSaleID convierte un parámetro de ruta en SaleID.
func ParseSaleID(s string) (SaleID, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return SaleID(n), true
}

// ParseCategoryID convierte un parámetro de ruta en CategoryID.
func ParseCategoryID(s string) (CategoryID, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return CategoryID(n), true
}

// ParseCartLineID convierte un parámetro de ruta en CartLineID.
func ParseCartLineID(s string) (CartLineID, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return CartLineID(n), true
}
