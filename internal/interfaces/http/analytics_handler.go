package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Billing-api/internal/application/dto"
	"github.com/jhoicas/Billing-api/internal/application/usecase"
)

// AnalyticsHandler maneja el reporte de ventas.
type AnalyticsHandler struct {
	uc *usecase.AnalyticsUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *usecase.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// GetSalesReport godoc
// @Summary      Reporte de ventas
// @Description  Ingresos totales, ventas, clientes activos, ingresos por mes, ventas por producto
// @Description  y últimas transacciones. Por defecto solo cuenta facturas PAID de los últimos 6 meses.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Fin del período (YYYY-MM-DD)"
// @Param        period      query  int     false  "Meses hacia atrás si no hay fechas (default 6)"
// @Param        paid_only   query  bool    false  "Solo facturas PAID (default true)"
// @Param        top_n       query  int     false  "Máx. productos en el ranking (default 5)"
// @Success      200  {object}  dto.SalesReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics [get]
func (h *AnalyticsHandler) GetSalesReport(c *fiber.Ctx) error {
	var req dto.SalesReportRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}
	report, err := h.uc.GetSalesReport(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
