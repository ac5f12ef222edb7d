package dto

// SalesSummaryResponse respuesta de GET /api/ventas/resumen.
// Totales del día y del mes en curso, más el top de productos del mes.
type SalesSummaryResponse struct {
	TodayCount   int                  `json:"ventas_hoy"`
	TodaySales   string               `json:"total_hoy"`
	MonthlyCount int                  `json:"ventas_mes"`
	MonthlySales string               `json:"total_mes"`
	TopProducts  []TopProductResponse `json:"top_productos"`
	DateLabel    string               `json:"periodo"` // ej: "Febrero 2026"
}

// TopProductResponse producto en el ranking del mes.
type TopProductResponse struct {
	ProductID    int64  `json:"producto_id"`
	ProductName  string `json:"producto_nombre,omitempty"`
	QuantitySold int    `json:"cantidad_vendida"`
	TotalRevenue string `json:"total_vendido"`
}
