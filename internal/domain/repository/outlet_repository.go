package repository

import (
	"context"

	"github.com/tu-usuario/outlet-ledger/internal/domain/entity"
)

// OutletRepository puerto de solo lectura para resolver sucursales.
type OutletRepository interface {
	// GetByID devuelve nil, nil si la sucursal no existe.
	GetByID(ctx context.Context, id string) (*entity.Outlet, error)
}
