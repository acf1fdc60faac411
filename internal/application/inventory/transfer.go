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

// TransferStockUseCase traslado atómico de stock entre dos sucursales:
// débito en origen y crédito en destino en una sola transacción, con las dos
// filas bloqueadas en orden determinista para evitar deadlocks entre
// traslados en direcciones opuestas.
type TransferStockUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	outletRepo  repository.OutletRepository
}

// NewTransferStockUseCase construye el caso de uso.
func NewTransferStockUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	outletRepo repository.OutletRepository,
) *TransferStockUseCase {
	return &TransferStockUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		outletRepo:  outletRepo,
	}
}

// TransferInput entrada para un traslado. Quantity estrictamente positiva;
// origen y destino distintos.
type TransferInput struct {
	ProductID    string
	FromOutletID string
	ToOutletID   string
	Quantity     int64
	Reason       string
	Scope        access.Scope
}

// TransferResult stocks resultantes en origen y destino.
type TransferResult struct {
	ProductID        string
	FromOutletID     string
	ToOutletID       string
	SourceStock      int64
	DestinationStock int64
}

func (in TransferInput) validate() *domain.ValidationError {
	verr := domain.NewValidationError()
	if in.ProductID == "" {
		verr.Add("product_id", "producto requerido")
	}
	if in.FromOutletID == "" {
		verr.Add("from_outlet_id", "sucursal origen requerida")
	}
	if in.ToOutletID == "" {
		verr.Add("to_outlet_id", "sucursal destino requerida")
	}
	if in.FromOutletID != "" && in.FromOutletID == in.ToOutletID {
		verr.Add("to_outlet_id", "origen y destino deben ser distintos")
	}
	if in.Quantity <= 0 {
		verr.Add("quantity", "la cantidad debe ser mayor que cero")
	}
	if in.Reason == "" {
		verr.Add("reason", "el motivo es obligatorio")
	}
	return verr
}

// Transfer valida, resuelve producto y ambas sucursales, y ejecuta el
// débito+crédito como unidad: si cualquier paso falla después del débito la
// transacción se revierte completa, de modo que la conservación de cantidad
// (suma de deltas = 0) nunca es observable como violada.
func (uc *TransferStockUseCase) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if verr := in.validate(); verr.HasErrors() {
		return nil, verr
	}
	if !in.Scope.CanWrite() || !in.Scope.CanSeeOutlet(in.FromOutletID) || !in.Scope.CanSeeOutlet(in.ToOutletID) {
		return nil, domain.ErrForbidden
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	fromOutlet, err := uc.outletRepo.GetByID(ctx, in.FromOutletID)
	if err != nil {
		return nil, err
	}
	toOutlet, err := uc.outletRepo.GetByID(ctx, in.ToOutletID)
	if err != nil {
		return nil, err
	}
	if fromOutlet == nil || toOutlet == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	txID := uuid.New().String()

	var result *TransferResult
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movementRepo repository.MovementRepository,
	) error {
		// Bloquea ambas filas en orden lexicográfico de sucursal,
		// independiente de cuál es origen y cuál destino: dos traslados en
		// direcciones opuestas no pueden bloquearse mutuamente.
		first, second := in.FromOutletID, in.ToOutletID
		if second < first {
			first, second = second, first
		}
		locked := make(map[string]*entity.StockRecord, 2)
		for _, outletID := range []string{first, second} {
			rec, err := stockRepo.GetForUpdate(ctx, in.ProductID, outletID)
			if err != nil {
				return err
			}
			locked[outletID] = rec
		}
		origin := locked[in.FromOutletID]
		dest := locked[in.ToOutletID]

		if origin.Stock < in.Quantity {
			return &domain.InsufficientStockError{
				ProductID: in.ProductID,
				OutletID:  in.FromOutletID,
				Available: origin.Stock,
				Requested: in.Quantity,
			}
		}

		origin.Stock -= in.Quantity
		dest.Stock += in.Quantity
		origin.UpdatedAt = now
		dest.UpdatedAt = now
		if err := stockRepo.Upsert(ctx, origin); err != nil {
			return err
		}
		if err := stockRepo.Upsert(ctx, dest); err != nil {
			return err
		}

		// Dos movimientos enlazados: pata de salida en origen y pata de
		// entrada en destino, con referencia cruzada de sucursal y el mismo
		// TransactionID. Un fallo aquí revierte también el stock: el par de
		// patas es parte del invariante del traslado.
		outLeg := &entity.Movement{
			ID:              uuid.New().String(),
			ProductID:       in.ProductID,
			OutletID:        in.FromOutletID,
			Type:            entity.MovementTypeTransfer,
			Quantity:        -in.Quantity,
			Reason:          in.Reason,
			UserID:          in.Scope.UserID,
			RelatedOutletID: &in.ToOutletID,
			TransactionID:   txID,
			CreatedAt:       now,
		}
		if err := movementRepo.Create(ctx, outLeg); err != nil {
			return err
		}
		inLeg := &entity.Movement{
			ID:              uuid.New().String(),
			ProductID:       in.ProductID,
			OutletID:        in.ToOutletID,
			Type:            entity.MovementTypeTransfer,
			Quantity:        in.Quantity,
			Reason:          in.Reason,
			UserID:          in.Scope.UserID,
			RelatedOutletID: &in.FromOutletID,
			TransactionID:   txID,
			CreatedAt:       now,
		}
		if err := movementRepo.Create(ctx, inLeg); err != nil {
			return err
		}

		result = &TransferResult{
			ProductID:        in.ProductID,
			FromOutletID:     in.FromOutletID,
			ToOutletID:       in.ToOutletID,
			SourceStock:      origin.Stock,
			DestinationStock: dest.Stock,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
