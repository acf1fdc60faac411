package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/outlet-ledger/internal/domain"
	"github.com/tu-usuario/outlet-ledger/internal/domain/access"
	"github.com/tu-usuario/outlet-ledger/internal/domain/entity"
	"github.com/tu-usuario/outlet-ledger/internal/domain/repository"
)

// AdjustStockUseCase ajuste de stock en una sucursal (reposición, corrección,
// merma) de forma transaccional con bloqueo de fila (SELECT FOR UPDATE).
type AdjustStockUseCase struct {
	txRunner     TxRunner
	movementRepo repository.MovementRepository
	productRepo  repository.ProductRepository
	outletRepo   repository.OutletRepository
	alerter      MovementAlerter
}

// NewAdjustStockUseCase construye el caso de uso. movementRepo debe estar
// atado al pool, no a una tx: el movimiento de auditoría se escribe después
// de commitear el stock.
func NewAdjustStockUseCase(
	txRunner TxRunner,
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	outletRepo repository.OutletRepository,
	alerter MovementAlerter,
) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		txRunner:     txRunner,
		movementRepo: movementRepo,
		productRepo:  productRepo,
		outletRepo:   outletRepo,
		alerter:      alerter,
	}
}

// AdjustInput entrada para un ajuste. Quantity con signo y distinta de cero;
// Reason obligatorio; Threshold opcional actualiza el umbral de la fila.
type AdjustInput struct {
	ProductID string
	OutletID  string
	Quantity  int64
	Reason    string
	Threshold *int64
	Scope     access.Scope
}

// AdjustResult stock resultante tras el ajuste.
type AdjustResult struct {
	ProductID string
	OutletID  string
	NewStock  int64
}

// validate acumula todos los errores de campo y los devuelve juntos,
// no fail-fast: el caller ve cada problema en una sola vuelta.
func (in AdjustInput) validate() *domain.ValidationError {
	verr := domain.NewValidationError()
	if in.ProductID == "" {
		verr.Add("product_id", "producto requerido")
	}
	if in.OutletID == "" {
		verr.Add("outlet_id", "sucursal requerida")
	}
	if in.Quantity == 0 {
		verr.Add("quantity", "la cantidad debe ser distinta de cero")
	}
	if in.Reason == "" {
		verr.Add("reason", "el motivo es obligatorio")
	}
	if in.Threshold != nil && *in.Threshold < 0 {
		verr.Add("threshold", "el umbral no puede ser negativo")
	}
	return verr
}

// Adjust valida, resuelve producto y sucursal contra los colaboradores
// externos, y aplica el delta bajo bloqueo de fila. Si el nuevo stock fuera
// negativo rechaza con InsufficientStockError sin tocar el estado. El
// movimiento de auditoría se escribe después de commitear el stock: si esa
// escritura falla, el ajuste ya commiteado se mantiene y el fallo sale por
// el MovementAlerter. Dentro de la misma tx no podría ser no-fatal: un
// INSERT fallido aborta la transacción completa en PostgreSQL.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, in AdjustInput) (*AdjustResult, error) {
	if verr := in.validate(); verr.HasErrors() {
		return nil, verr
	}
	if !in.Scope.CanWrite() || !in.Scope.CanSeeOutlet(in.OutletID) {
		return nil, domain.ErrForbidden
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	outlet, err := uc.outletRepo.GetByID(ctx, in.OutletID)
	if err != nil {
		return nil, err
	}
	if outlet == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	var result *AdjustResult
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		_ repository.MovementRepository,
	) error {
		res, err := applyStockDelta(ctx, stockRepo, in, now)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	logAdjustment(ctx, uc.movementRepo, uc.alerter, in, now)
	return result, nil
}

// applyStockDelta núcleo del ajuste, ejecutado dentro de una transacción.
// Lo reutiliza el camino bulk, cada ítem bajo su propia tx.
func applyStockDelta(
	ctx context.Context,
	stockRepo repository.StockRepository,
	in AdjustInput,
	now time.Time,
) (*AdjustResult, error) {
	// Bloquea la fila; si el par no existe llega un registro en cero
	// (el StockRecord se crea perezosamente en el primer ajuste).
	record, err := stockRepo.GetForUpdate(ctx, in.ProductID, in.OutletID)
	if err != nil {
		return nil, err
	}
	newStock := record.Stock + in.Quantity
	if newStock < 0 {
		return nil, &domain.InsufficientStockError{
			ProductID: in.ProductID,
			OutletID:  in.OutletID,
			Available: record.Stock,
			Requested: -in.Quantity,
		}
	}
	record.Stock = newStock
	if in.Threshold != nil {
		record.Threshold = *in.Threshold
	}
	record.UpdatedAt = now
	if err := stockRepo.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return &AdjustResult{
		ProductID: in.ProductID,
		OutletID:  in.OutletID,
		NewStock:  newStock,
	}, nil
}

// logAdjustment registra el movimiento de auditoría de un ajuste ya
// commiteado. La mutación de stock es autoritativa: no se revierte por un
// fallo del log, que sale por el canal de observabilidad.
func logAdjustment(
	ctx context.Context,
	movementRepo repository.MovementRepository,
	alerter MovementAlerter,
	in AdjustInput,
	now time.Time,
) {
	mov := &entity.Movement{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		OutletID:      in.OutletID,
		Type:          entity.MovementTypeAdjustment,
		Quantity:      in.Quantity,
		Reason:        in.Reason,
		UserID:        in.Scope.UserID,
		TransactionID: uuid.New().String(),
		CreatedAt:     now,
	}
	if err := movementRepo.Create(ctx, mov); err != nil {
		alerter.MovementLogFailed(ctx, MovementLogFailure{Movement: *mov, Err: err})
	}
}
