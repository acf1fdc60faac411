package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/outlet-ledger/internal/application/dto"
	"github.com/tu-usuario/outlet-ledger/internal/application/inventory"
	"github.com/tu-usuario/outlet-ledger/internal/domain"
)

// InventoryHandler mutaciones del ledger: ajustes, lotes y traslados.
type InventoryHandler struct {
	adjustUC   *inventory.AdjustStockUseCase
	bulkUC     *inventory.BulkAdjustUseCase
	transferUC *inventory.TransferStockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	adjustUC *inventory.AdjustStockUseCase,
	bulkUC *inventory.BulkAdjustUseCase,
	transferUC *inventory.TransferStockUseCase,
) *InventoryHandler {
	return &InventoryHandler{
		adjustUC:   adjustUC,
		bulkUC:     bulkUC,
		transferUC: transferUC,
	}
}

// Adjust godoc
// @Summary      Ajustar stock de un producto en una sucursal
// @Description  Quantity con signo: positivo repone, negativo descuenta.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        request  body  dto.AdjustStockRequest  true  "Ajuste"
// @Success      200  {object}  dto.AdjustStockResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var req dto.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo JSON inválido"})
	}
	result, err := h.adjustUC.Adjust(c.Context(), inventory.AdjustInput{
		ProductID: req.ProductID,
		OutletID:  req.OutletID,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Threshold: req.Threshold,
		Scope:     ScopeFrom(c),
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.AdjustStockResponse{
		ProductID: result.ProductID,
		OutletID:  result.OutletID,
		NewStock:  result.NewStock,
	})
}

// BulkAdjust godoc
// @Summary      Ajustar stock en lote
// @Description  Cada ítem se aplica de forma independiente; la respuesta
// @Description  siempre separa aplicados y rechazados. 200 si todo entró,
// @Description  207 si el resultado fue parcial, 422 si nada entró.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        request  body  dto.BulkAdjustRequest  true  "Lote de ajustes"
// @Success      200  {object}  dto.BulkAdjustResponse
// @Success      207  {object}  dto.BulkAdjustResponse
// @Failure      422  {object}  dto.BulkAdjustResponse
// @Router       /api/inventory/stock/adjust/bulk [post]
func (h *InventoryHandler) BulkAdjust(c *fiber.Ctx) error {
	var req dto.BulkAdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo JSON inválido"})
	}
	items := make([]inventory.BulkAdjustItem, 0, len(req.Adjustments))
	for _, a := range req.Adjustments {
		items = append(items, inventory.BulkAdjustItem{
			ProductID: a.ProductID,
			OutletID:  a.OutletID,
			Quantity:  a.Quantity,
			Reason:    a.Reason,
			Threshold: a.Threshold,
		})
	}
	result, err := h.bulkUC.BulkAdjust(c.Context(), items, ScopeFrom(c))
	if err != nil {
		return respondDomainError(c, err)
	}

	resp := dto.BulkAdjustResponse{
		Succeeded: make([]dto.BulkItemSuccess, 0, len(result.Succeeded)),
		Failed:    make([]dto.BulkItemFailure, 0, len(result.Failed)),
	}
	for _, s := range result.Succeeded {
		resp.Succeeded = append(resp.Succeeded, dto.BulkItemSuccess{
			Index:     s.Index,
			ProductID: s.Result.ProductID,
			OutletID:  s.Result.OutletID,
			NewStock:  s.Result.NewStock,
		})
	}
	for _, f := range result.Failed {
		item := dto.BulkItemFailure{Index: f.Index}
		item.Code, item.Message, item.Fields = describeBulkFailure(f.Err)
		resp.Failed = append(resp.Failed, item)
	}

	status := fiber.StatusOK
	switch {
	case result.AllFailed():
		status = fiber.StatusUnprocessableEntity
	case result.Partial():
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(resp)
}

// describeBulkFailure traduce el error tipado de un ítem al detalle plano
// del cuerpo de respuesta, con la misma taxonomía de respondDomainError.
func describeBulkFailure(err error) (code, message string, fields map[string]string) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return "VALIDATION", "datos inválidos", verr.Fields
	}
	var insErr *domain.InsufficientStockError
	if errors.As(err, &insErr) {
		return "INSUFFICIENT_STOCK", insErr.Error(), nil
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "NOT_FOUND", "producto o sucursal no encontrado", nil
	case errors.Is(err, domain.ErrForbidden):
		return "FORBIDDEN", "acceso denegado a la sucursal", nil
	}
	return "INTERNAL", "error interno aplicando el ajuste", nil
}

// Transfer godoc
// @Summary      Trasladar stock entre sucursales
// @Description  Débito en origen y crédito en destino en una sola
// @Description  transacción, con dos movimientos enlazados de auditoría.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        request  body  dto.TransferStockRequest  true  "Traslado"
// @Success      200  {object}  dto.TransferStockResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/transfer [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var req dto.TransferStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo JSON inválido"})
	}
	result, err := h.transferUC.Transfer(c.Context(), inventory.TransferInput{
		ProductID:    req.ProductID,
		FromOutletID: req.FromOutletID,
		ToOutletID:   req.ToOutletID,
		Quantity:     req.Quantity,
		Reason:       req.Reason,
		Scope:        ScopeFrom(c),
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.TransferStockResponse{
		ProductID:        result.ProductID,
		FromOutletID:     result.FromOutletID,
		ToOutletID:       result.ToOutletID,
		SourceStock:      result.SourceStock,
		DestinationStock: result.DestinationStock,
	})
}
