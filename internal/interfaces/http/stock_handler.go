package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/outlet-ledger/internal/application/dto"
	"github.com/tu-usuario/outlet-ledger/internal/application/inventory"
	"github.com/tu-usuario/outlet-ledger/internal/domain/entity"
)

// StockHandler lecturas del ledger (protegido).
type StockHandler struct {
	query *inventory.StockQueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(query *inventory.StockQueryUseCase) *StockHandler {
	return &StockHandler{query: query}
}

func toStockRecordResponse(rec *entity.StockRecord) dto.StockRecordResponse {
	return dto.StockRecordResponse{
		ProductID: rec.ProductID,
		OutletID:  rec.OutletID,
		Stock:     rec.Stock,
		Threshold: rec.Threshold,
		UpdatedAt: rec.UpdatedAt,
	}
}

// List godoc
// @Summary      Listar stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        outlet_id   query  string  false  "Filtrar por sucursal"
// @Param        page        query  int     false  "Página"
// @Param        per_page    query  int     false  "Tamaño de página"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.Normalize()
	limit, offset := page.LimitOffset()

	q := inventory.StockQuery{
		ProductID: c.Query("product_id"),
		OutletID:  c.Query("outlet_id"),
	}
	records, total, err := h.query.ListStock(c.Context(), q, ScopeFrom(c), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.StockRecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, toStockRecordResponse(rec))
	}
	return c.JSON(fiber.Map{"items": items, "page": dto.NewPageMeta(total, page)})
}

// ListByProduct godoc
// @Summary      Stock de un producto en todas las sucursales visibles
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product   path   string  true   "ID del producto"
// @Param        page      query  int     false  "Página"
// @Param        per_page  query  int     false  "Tamaño de página"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/stock/{product} [get]
func (h *StockHandler) ListByProduct(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.Normalize()
	limit, offset := page.LimitOffset()

	q := inventory.StockQuery{ProductID: c.Params("product")}
	records, total, err := h.query.ListStock(c.Context(), q, ScopeFrom(c), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.StockRecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, toStockRecordResponse(rec))
	}
	return c.JSON(fiber.Map{"items": items, "page": dto.NewPageMeta(total, page)})
}

// GetAtOutlet godoc
// @Summary      Stock puntual de un producto en una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product  path  string  true  "ID del producto"
// @Param        outlet   path  string  true  "ID de la sucursal"
// @Success      200  {object}  dto.StockRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{product}/{outlet} [get]
func (h *StockHandler) GetAtOutlet(c *fiber.Ctx) error {
	rec, err := h.query.GetStock(c.Context(), c.Params("product"), c.Params("outlet"), ScopeFrom(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toStockRecordResponse(rec))
}
