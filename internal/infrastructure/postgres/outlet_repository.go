package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/outlet-ledger/internal/domain/entity"
	"github.com/tu-usuario/outlet-ledger/internal/domain/repository"
)

var _ repository.OutletRepository = (*OutletRepo)(nil)

// OutletRepo adaptador de solo lectura para resolver sucursales.
type OutletRepo struct {
	q Querier
}

// NewOutletRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOutletRepository(q Querier) *OutletRepo {
	return &OutletRepo{q: q}
}

// GetByID obtiene una sucursal por ID; nil si no existe.
func (r *OutletRepo) GetByID(ctx context.Context, id string) (*entity.Outlet, error) {
	query := `SELECT id, name, address, created_at FROM outlets WHERE id = $1`
	var o entity.Outlet
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.Name, &o.Address, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outlet: %w", err)
	}
	return &o, nil
}
