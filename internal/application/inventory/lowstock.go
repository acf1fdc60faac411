package inventory

import (
	"context"

	"github.com/tu-usuario/outlet-ledger/internal/domain"
	"github.com/tu-usuario/outlet-ledger/internal/domain/access"
	"github.com/tu-usuario/outlet-ledger/internal/domain/repository"
)

// LowStockReportUseCase reporte de stock bajo sobre todos los pares
// (producto, sucursal) rastreados, con la regla de doble umbral:
// stock < umbral efectivo de la fila O stock <= default global.
type LowStockReportUseCase struct {
	stockRepo     repository.StockRepository
	globalDefault int64
}

// NewLowStockReportUseCase construye el caso de uso. globalDefault es el
// umbral global de la configuración (STOCK_LOW_DEFAULT).
func NewLowStockReportUseCase(stockRepo repository.StockRepository, globalDefault int64) *LowStockReportUseCase {
	return &LowStockReportUseCase{stockRepo: stockRepo, globalDefault: globalDefault}
}

// LowStockQuery filtros opcionales del reporte.
type LowStockQuery struct {
	ProductID string
	OutletID  string
}

// ListLowStock evalúa la regla por par, restringida al scope del caller.
// Un caller sin sucursales visibles recibe ErrForbidden, no una página
// vacía: para el caller la distinción importa (mala configuración vs.
// legítimamente nada que mostrar).
func (uc *LowStockReportUseCase) ListLowStock(
	ctx context.Context,
	q LowStockQuery,
	scope access.Scope,
	limit, offset int,
) ([]*repository.LowStockRow, int, error) {
	outlets := scope.VisibleOutlets()
	if outlets != nil && len(outlets) == 0 {
		return nil, 0, domain.ErrForbidden
	}
	if q.OutletID != "" && !scope.CanSeeOutlet(q.OutletID) {
		return nil, 0, domain.ErrForbidden
	}

	filter := repository.LowStockFilter{
		GlobalDefault: uc.globalDefault,
		ProductID:     q.ProductID,
		OutletID:      q.OutletID,
		Outlets:       outlets,
	}
	total, err := uc.stockRepo.CountLowStock(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	rows, err := uc.stockRepo.ListLowStock(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
