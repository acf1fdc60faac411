package inventory

import (
	"context"

	"github.com/tu-usuario/outlet-ledger/internal/domain"
	"github.com/tu-usuario/outlet-ledger/internal/domain/access"
	"github.com/tu-usuario/outlet-ledger/internal/domain/entity"
	"github.com/tu-usuario/outlet-ledger/internal/domain/repository"
)

// StockQueryUseCase lecturas del ledger: listados paginados y consulta
// puntual por (producto, sucursal), siempre bajo el scope del caller.
type StockQueryUseCase struct {
	stockRepo repository.StockRepository
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(stockRepo repository.StockRepository) *StockQueryUseCase {
	return &StockQueryUseCase{stockRepo: stockRepo}
}

// StockQuery filtros opcionales para el listado de stock.
type StockQuery struct {
	ProductID string
	OutletID  string
}

// ListStock listado paginado de registros de stock visibles para el caller.
func (uc *StockQueryUseCase) ListStock(
	ctx context.Context,
	q StockQuery,
	scope access.Scope,
	limit, offset int,
) ([]*entity.StockRecord, int, error) {
	outlets := scope.VisibleOutlets()
	if outlets != nil && len(outlets) == 0 {
		return nil, 0, domain.ErrForbidden
	}
	if q.OutletID != "" && !scope.CanSeeOutlet(q.OutletID) {
		return nil, 0, domain.ErrForbidden
	}

	filter := repository.StockFilter{
		ProductID: q.ProductID,
		OutletID:  q.OutletID,
		Outlets:   outlets,
	}
	total, err := uc.stockRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	records, err := uc.stockRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// GetStock devuelve el registro puntual de un producto en una sucursal.
// La ausencia de registro es ErrNotFound: el par no está rastreado ahí.
func (uc *StockQueryUseCase) GetStock(
	ctx context.Context,
	productID, outletID string,
	scope access.Scope,
) (*entity.StockRecord, error) {
	if productID == "" || outletID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !scope.CanSeeOutlet(outletID) {
		return nil, domain.ErrForbidden
	}
	record, err := uc.stockRepo.Get(ctx, productID, outletID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	return record, nil
}
