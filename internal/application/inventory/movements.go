package inventory

import (
	"context"
	"time"

	"github.com/tu-usuario/outlet-ledger/internal/domain"
	"github.com/tu-usuario/outlet-ledger/internal/domain/access"
	"github.com/tu-usuario/outlet-ledger/internal/domain/entity"
	"github.com/tu-usuario/outlet-ledger/internal/domain/repository"
)

// MovementHistoryUseCase lectura filtrada y paginada del log de movimientos,
// restringida al scope del caller. Siempre del más reciente al más antiguo.
type MovementHistoryUseCase struct {
	movementRepo repository.MovementRepository
}

// NewMovementHistoryUseCase construye el caso de uso.
func NewMovementHistoryUseCase(movementRepo repository.MovementRepository) *MovementHistoryUseCase {
	return &MovementHistoryUseCase{movementRepo: movementRepo}
}

// MovementHistoryQuery filtros opcionales del historial.
type MovementHistoryQuery struct {
	ProductID string
	OutletID  string
	Type      string
	UserID    string
	From      *time.Time
	To        *time.Time
}

func (q MovementHistoryQuery) validate() *domain.ValidationError {
	verr := domain.NewValidationError()
	if q.Type != "" && q.Type != entity.MovementTypeAdjustment && q.Type != entity.MovementTypeTransfer {
		verr.Add("type", "tipo de movimiento desconocido")
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		verr.Add("end", "el fin del rango no puede ser anterior al inicio")
	}
	return verr
}

// ListMovements aplica filtros y scope y devuelve la página con el total.
func (uc *MovementHistoryUseCase) ListMovements(
	ctx context.Context,
	q MovementHistoryQuery,
	scope access.Scope,
	limit, offset int,
) ([]*entity.Movement, int, error) {
	if verr := q.validate(); verr.HasErrors() {
		return nil, 0, verr
	}
	outlets := scope.VisibleOutlets()
	if outlets != nil && len(outlets) == 0 {
		return nil, 0, domain.ErrForbidden
	}
	if q.OutletID != "" && !scope.CanSeeOutlet(q.OutletID) {
		return nil, 0, domain.ErrForbidden
	}

	filter := repository.MovementFilter{
		ProductID: q.ProductID,
		OutletID:  q.OutletID,
		Type:      q.Type,
		UserID:    q.UserID,
		From:      q.From,
		To:        q.To,
		Outlets:   outlets,
	}
	total, err := uc.movementRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	movements, err := uc.movementRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}
