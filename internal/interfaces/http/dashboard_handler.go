package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tikno-erp/internal/application/analytics"
)

// DashboardHandler resumen de ventas.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen de ventas
// @Description  Ventas de hoy y del mes en curso, con los productos más vendidos del mes.
// @Tags         ventas
// @Produce      json
// @Success      200  {object}  dto.SalesSummaryResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/ventas/resumen [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
