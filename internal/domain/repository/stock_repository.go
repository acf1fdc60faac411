package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/outlet-ledger/internal/domain/entity"
)

// StockFilter filtros opcionales para listar stock. Outlets restringe a las
// sucursales visibles del caller; nil = sin restricción.
type StockFilter struct {
	ProductID string
	OutletID  string
	Outlets   []string
}

// LowStockFilter parámetros del reporte de stock bajo. GlobalDefault es el
// umbral global de la configuración; la regla es
// stock < umbral_efectivo OR stock <= GlobalDefault.
type LowStockFilter struct {
	GlobalDefault int64
	ProductID     string
	OutletID      string
	Outlets       []string
}

// LowStockRow fila cruda del reporte de stock bajo, enriquecida con datos
// del catálogo para presentación.
type LowStockRow struct {
	ProductID   string
	SKU         string
	ProductName string
	Price       decimal.Decimal
	OutletID    string
	OutletName  string
	Stock       int64
	Threshold   int64
}

// StockRepository define el puerto del ledger: el dueño de la durabilidad
// de StockRecord. Usado dentro de transacciones para las escrituras.
type StockRepository interface {
	// Get devuelve el registro o nil si el par (producto, sucursal) no está rastreado.
	Get(ctx context.Context, productID, outletID string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Si no existe devuelve
	// un registro en cero listo para el primer ajuste.
	GetForUpdate(ctx context.Context, productID, outletID string) (*entity.StockRecord, error)
	// Upsert inserta o actualiza stock y umbral por (producto, sucursal).
	Upsert(ctx context.Context, record *entity.StockRecord) error

	List(ctx context.Context, filter StockFilter, limit, offset int) ([]*entity.StockRecord, error)
	Count(ctx context.Context, filter StockFilter) (int, error)

	ListLowStock(ctx context.Context, filter LowStockFilter, limit, offset int) ([]*LowStockRow, error)
	CountLowStock(ctx context.Context, filter LowStockFilter) (int, error)
}
