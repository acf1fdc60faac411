package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tu-usuario/outlet-ledger/internal/domain/entity"
	"github.com/tu-usuario/outlet-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo log de movimientos sobre PostgreSQL (usable con pool o tx).
// Solo inserta y lee: la tabla movements es append-only.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, transaction_id, product_id, outlet_id, related_outlet_id, type, quantity, reason, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	createdBy := (*string)(nil)
	if movement.UserID != "" {
		createdBy = &movement.UserID
	}
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.TransactionID, movement.ProductID, movement.OutletID,
		movement.RelatedOutletID, movement.Type, movement.Quantity, movement.Reason,
		movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

func buildMovementWhere(f repository.MovementFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any
	pos := 1
	if f.ProductID != "" {
		where += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.OutletID != "" {
		where += fmt.Sprintf(" AND outlet_id = $%d", pos)
		args = append(args, f.OutletID)
		pos++
	}
	if f.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, f.Type)
		pos++
	}
	if f.UserID != "" {
		where += fmt.Sprintf(" AND created_by = $%d", pos)
		args = append(args, f.UserID)
		pos++
	}
	if f.From != nil {
		where += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		where += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	if f.Outlets != nil {
		where += fmt.Sprintf(" AND outlet_id = ANY($%d)", pos)
		args = append(args, f.Outlets)
		pos++
	}
	return where, args
}

// List lista movimientos filtrados, del más reciente al más antiguo.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.Movement, error) {
	where, args := buildMovementWhere(f)
	pos := len(args) + 1
	query := `
		SELECT id, transaction_id, product_id, outlet_id, related_outlet_id, type, quantity, reason, created_at, created_by
		FROM movements` + where + fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var createdBy *string
		if err := rows.Scan(
			&m.ID, &m.TransactionID, &m.ProductID, &m.OutletID, &m.RelatedOutletID,
			&m.Type, &m.Quantity, &m.Reason, &m.CreatedAt, &createdBy,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if createdBy != nil {
			m.UserID = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Count total de movimientos que matchean el filtro.
func (r *MovementRepo) Count(ctx context.Context, f repository.MovementFilter) (int, error) {
	where, args := buildMovementWhere(f)
	var total int
	if err := r.q.QueryRow(ctx, "SELECT count(*) FROM movements"+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return total, nil
}
