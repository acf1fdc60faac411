package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/outlet-ledger/internal/application/dto"
	"github.com/tu-usuario/outlet-ledger/internal/application/inventory"
)

// ReportHandler reportes de solo lectura: stock bajo e historial de
// movimientos. Accesibles para todos los roles autenticados.
type ReportHandler struct {
	lowStockUC *inventory.LowStockReportUseCase
	historyUC  *inventory.MovementHistoryUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(
	lowStockUC *inventory.LowStockReportUseCase,
	historyUC *inventory.MovementHistoryUseCase,
) *ReportHandler {
	return &ReportHandler{lowStockUC: lowStockUC, historyUC: historyUC}
}

// LowStock godoc
// @Summary      Reporte de stock bajo
// @Description  Pares (producto, sucursal) cuyo stock está por debajo del
// @Description  umbral efectivo de la fila o del default global.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        outlet_id   query  string  false  "Filtrar por sucursal"
// @Param        page        query  int     false  "Página"
// @Param        per_page    query  int     false  "Tamaño de página"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/report/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.Normalize()
	limit, offset := page.LimitOffset()

	q := inventory.LowStockQuery{
		ProductID: c.Query("product_id"),
		OutletID:  c.Query("outlet_id"),
	}
	rows, total, err := h.lowStockUC.ListLowStock(c.Context(), q, ScopeFrom(c), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.LowStockEntryResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.LowStockEntryResponse{
			ProductID:   row.ProductID,
			SKU:         row.SKU,
			ProductName: row.ProductName,
			Price:       row.Price,
			OutletID:    row.OutletID,
			OutletName:  row.OutletName,
			Stock:       row.Stock,
			Threshold:   row.Threshold,
		})
	}
	return c.JSON(fiber.Map{"items": items, "page": dto.NewPageMeta(total, page)})
}

// Movements godoc
// @Summary      Historial de movimientos
// @Description  Log de auditoría filtrable por producto, sucursal, tipo,
// @Description  usuario y rango de fechas, del más reciente al más antiguo.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        outlet_id   query  string  false  "Filtrar por sucursal"
// @Param        type        query  string  false  "adjustment o transfer"
// @Param        user_id     query  string  false  "Filtrar por usuario"
// @Param        start       query  string  false  "Inicio del rango (RFC3339 o YYYY-MM-DD)"
// @Param        end         query  string  false  "Fin del rango (RFC3339 o YYYY-MM-DD)"
// @Param        page        query  int     false  "Página"
// @Param        per_page    query  int     false  "Tamaño de página"
// @Success      200  {object}  map[string]interface{}
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/inventory/report/movements [get]
func (h *ReportHandler) Movements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.Normalize()
	limit, offset := page.LimitOffset()

	from, err := parseTimeQuery(c.Query("start"), false)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "fecha de inicio inválida"})
	}
	to, err := parseTimeQuery(c.Query("end"), true)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "fecha de fin inválida"})
	}

	q := inventory.MovementHistoryQuery{
		ProductID: c.Query("product_id"),
		OutletID:  c.Query("outlet_id"),
		Type:      c.Query("type"),
		UserID:    c.Query("user_id"),
		From:      from,
		To:        to,
	}
	movements, total, err := h.historyUC.ListMovements(c.Context(), q, ScopeFrom(c), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, dto.MovementResponse{
			ID:              m.ID,
			ProductID:       m.ProductID,
			OutletID:        m.OutletID,
			Type:            m.Type,
			Quantity:        m.Quantity,
			Reason:          m.Reason,
			UserID:          m.UserID,
			RelatedOutletID: m.RelatedOutletID,
			TransactionID:   m.TransactionID,
			CreatedAt:       m.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"items": items, "page": dto.NewPageMeta(total, page)})
}

// parseTimeQuery acepta RFC3339 o solo fecha. Para el fin de rango una
// fecha pelada se interpreta como el final de ese día, no su medianoche.
func parseTimeQuery(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
