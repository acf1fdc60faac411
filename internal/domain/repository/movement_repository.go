package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/outlet-ledger/internal/domain/entity"
)

// MovementFilter filtros para el historial de movimientos. Outlets restringe
// a las sucursales visibles del caller; nil = sin restricción.
type MovementFilter struct {
	ProductID string
	OutletID  string
	Type      string
	UserID    string
	From      *time.Time
	To        *time.Time
	Outlets   []string
}

// MovementRepository define el puerto de persistencia del log de movimientos.
// Append-only: los registros nunca se actualizan ni se borran.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// List devuelve movimientos ordenados del más reciente al más antiguo.
	List(ctx context.Context, filter MovementFilter, limit, offset int) ([]*entity.Movement, error)
	Count(ctx context.Context, filter MovementFilter) (int, error)
}
