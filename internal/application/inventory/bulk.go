package inventory

import (
	"context"
	"time"

	"github.com/tu-usuario/outlet-ledger/internal/domain"
	"github.com/tu-usuario/outlet-ledger/internal/domain/access"
	"github.com/tu-usuario/outlet-ledger/internal/domain/repository"
)

// BulkAdjustUseCase ajustes en lote con fallo parcial por ítem: cada ítem se
// valida y aplica de forma independiente bajo su propia transacción, así el
// fallo de uno no aborta ni bloquea a los demás.
type BulkAdjustUseCase struct {
	txRunner     TxRunner
	movementRepo repository.MovementRepository
	productRepo  repository.ProductRepository
	outletRepo   repository.OutletRepository
	alerter      MovementAlerter
}

// NewBulkAdjustUseCase construye el caso de uso. Igual que en el ajuste
// simple, movementRepo va atado al pool: el log se escribe tras el commit
// de cada ítem.
func NewBulkAdjustUseCase(
	txRunner TxRunner,
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	outletRepo repository.OutletRepository,
	alerter MovementAlerter,
) *BulkAdjustUseCase {
	return &BulkAdjustUseCase{
		txRunner:     txRunner,
		movementRepo: movementRepo,
		productRepo:  productRepo,
		outletRepo:   outletRepo,
		alerter:      alerter,
	}
}

// BulkAdjustItem un ajuste dentro del lote.
type BulkAdjustItem struct {
	ProductID string
	OutletID  string
	Quantity  int64
	Reason    string
	Threshold *int64
}

// BulkItemSuccess ítem aplicado, con el stock resultante.
type BulkItemSuccess struct {
	Index  int
	Result AdjustResult
}

// BulkItemFailure ítem rechazado, con el error tipado original.
type BulkItemFailure struct {
	Index int
	Err   error
}

// BulkResult siempre reporta ambas listas.
type BulkResult struct {
	Succeeded []BulkItemSuccess
	Failed    []BulkItemFailure
}

// AllFailed indica que ningún ítem se aplicó.
func (r *BulkResult) AllFailed() bool {
	return len(r.Succeeded) == 0 && len(r.Failed) > 0
}

// Partial indica éxito parcial: hubo aplicados y rechazados.
func (r *BulkResult) Partial() bool {
	return len(r.Succeeded) > 0 && len(r.Failed) > 0
}

// BulkAdjust aplica cada ítem con el algoritmo del ajuste simple. El lote no
// es una transacción gigante: cada ítem toma y libera su propio bloqueo.
func (uc *BulkAdjustUseCase) BulkAdjust(ctx context.Context, items []BulkAdjustItem, scope access.Scope) (*BulkResult, error) {
	if len(items) == 0 {
		verr := domain.NewValidationError()
		verr.Add("adjustments", "el lote no puede estar vacío")
		return nil, verr
	}
	if !scope.CanWrite() {
		return nil, domain.ErrForbidden
	}

	result := &BulkResult{}
	for i, item := range items {
		res, err := uc.adjustOne(ctx, item, scope)
		if err != nil {
			result.Failed = append(result.Failed, BulkItemFailure{Index: i, Err: err})
			continue
		}
		result.Succeeded = append(result.Succeeded, BulkItemSuccess{Index: i, Result: *res})
	}
	return result, nil
}

func (uc *BulkAdjustUseCase) adjustOne(ctx context.Context, item BulkAdjustItem, scope access.Scope) (*AdjustResult, error) {
	in := AdjustInput{
		ProductID: item.ProductID,
		OutletID:  item.OutletID,
		Quantity:  item.Quantity,
		Reason:    item.Reason,
		Threshold: item.Threshold,
		Scope:     scope,
	}
	if verr := in.validate(); verr.HasErrors() {
		return nil, verr
	}
	if !scope.CanSeeOutlet(item.OutletID) {
		return nil, domain.ErrForbidden
	}
	product, err := uc.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	outlet, err := uc.outletRepo.GetByID(ctx, item.OutletID)
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
