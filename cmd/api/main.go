package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/outlet-ledger/internal/application/auth"
	"github.com/tu-usuario/outlet-ledger/internal/application/inventory"
	"github.com/tu-usuario/outlet-ledger/internal/infrastructure/alert"
	"github.com/tu-usuario/outlet-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/outlet-ledger/internal/interfaces/http"
	"github.com/tu-usuario/outlet-ledger/pkg/config"
	"github.com/tu-usuario/outlet-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	outletRepo := postgres.NewOutletRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	alerter := alert.NewLogAlerter(log)

	authUC := auth.NewLoginUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	stockQueryUC := inventory.NewStockQueryUseCase(stockRepo)
	adjustUC := inventory.NewAdjustStockUseCase(txRunner, movementRepo, productRepo, outletRepo, alerter)
	bulkUC := inventory.NewBulkAdjustUseCase(txRunner, movementRepo, productRepo, outletRepo, alerter)
	transferUC := inventory.NewTransferStockUseCase(txRunner, productRepo, outletRepo)
	lowStockUC := inventory.NewLowStockReportUseCase(stockRepo, cfg.Stock.LowStockDefault)
	historyUC := inventory.NewMovementHistoryUseCase(movementRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Outlet Ledger API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		StockQuery: stockQueryUC,
		AdjustUC:   adjustUC,
		BulkUC:     bulkUC,
		TransferUC: transferUC,
		LowStockUC: lowStockUC,
		HistoryUC:  historyUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
