package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/outlet-ledger/internal/application/auth"
	"github.com/tu-usuario/outlet-ledger/internal/application/inventory"
	"github.com/tu-usuario/outlet-ledger/internal/domain/access"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.LoginUseCase
	StockQuery *inventory.StockQueryUseCase
	AdjustUC   *inventory.AdjustStockUseCase
	BulkUC     *inventory.BulkAdjustUseCase
	TransferUC *inventory.TransferStockUseCase
	LowStockUC *inventory.LowStockReportUseCase
	HistoryUC  *inventory.MovementHistoryUseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Las mutaciones exigen rol de
// escritura (admin o manager); los reportes solo exigen autenticación, el
// scope del token recorta lo visible.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/inventory", AuthMiddleware(deps.JWTSecret))
	canWrite := RequireRole(access.RoleAdmin, access.RoleManager)

	// Lecturas del ledger
	stockHandler := NewStockHandler(deps.StockQuery)
	protected.Get("/stock", stockHandler.List)

	// Mutaciones: las rutas fijas van antes que las de parámetro para que
	// "adjust" y "transfer" no se capturen como :product.
	inventoryHandler := NewInventoryHandler(deps.AdjustUC, deps.BulkUC, deps.TransferUC)
	protected.Post("/stock/adjust", canWrite, inventoryHandler.Adjust)
	protected.Post("/stock/adjust/bulk", canWrite, inventoryHandler.BulkAdjust)
	protected.Post("/stock/transfer", canWrite, inventoryHandler.Transfer)

	protected.Get("/stock/:product", stockHandler.ListByProduct)
	protected.Get("/stock/:product/:outlet", stockHandler.GetAtOutlet)

	// Reportes (todos los roles autenticados)
	reportHandler := NewReportHandler(deps.LowStockUC, deps.HistoryUC)
	reports := protected.Group("/report")
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/movements", reportHandler.Movements)
}
