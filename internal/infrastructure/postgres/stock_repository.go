package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/outlet-ledger/internal/domain/entity"
	"github.com/tu-usuario/outlet-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación del ledger sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el registro de stock o nil si el par no está rastreado.
func (r *StockRepo) Get(ctx context.Context, productID, outletID string) (*entity.StockRecord, error) {
	query := `
		SELECT product_id, outlet_id, stock, threshold, updated_at
		FROM stock WHERE product_id = $1 AND outlet_id = $2`
	var s entity.StockRecord
	err := r.q.QueryRow(ctx, query, productID, outletID).Scan(
		&s.ProductID, &s.OutletID, &s.Stock, &s.Threshold, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
// FOR UPDATE sobre cero filas no bloquea nada, así que para un par no
// rastreado primero se materializa la fila en cero (ON CONFLICT DO NOTHING
// tolera la carrera con otra tx que la inserte a la vez) y se vuelve a
// seleccionar: el bloqueo que protege el read-modify-write es real también
// en el primer ajuste.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, outletID string) (*entity.StockRecord, error) {
	const query = `
		SELECT product_id, outlet_id, stock, threshold, updated_at
		FROM stock WHERE product_id = $1 AND outlet_id = $2
		FOR UPDATE`
	var s entity.StockRecord
	err := r.q.QueryRow(ctx, query, productID, outletID).Scan(
		&s.ProductID, &s.OutletID, &s.Stock, &s.Threshold, &s.UpdatedAt,
	)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}

	insert := `
		INSERT INTO stock (product_id, outlet_id, stock, threshold, updated_at)
		VALUES ($1, $2, 0, 0, now())
		ON CONFLICT (product_id, outlet_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, productID, outletID); err != nil {
		return nil, fmt.Errorf("init stock row: %w", err)
	}
	err = r.q.QueryRow(ctx, query, productID, outletID).Scan(
		&s.ProductID, &s.OutletID, &s.Stock, &s.Threshold, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza stock y umbral por (producto, sucursal).
func (r *StockRepo) Upsert(ctx context.Context, record *entity.StockRecord) error {
	query := `
		INSERT INTO stock (product_id, outlet_id, stock, threshold, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, outlet_id)
		DO UPDATE SET stock = EXCLUDED.stock, threshold = EXCLUDED.threshold, updated_at = now()`
	_, err := r.q.Exec(ctx, query, record.ProductID, record.OutletID, record.Stock, record.Threshold)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

func buildStockWhere(f repository.StockFilter) (string, []any) {
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
	if f.Outlets != nil {
		where += fmt.Sprintf(" AND outlet_id = ANY($%d)", pos)
		args = append(args, f.Outlets)
		pos++
	}
	return where, args
}

// List lista registros de stock con filtros opcionales.
func (r *StockRepo) List(ctx context.Context, f repository.StockFilter, limit, offset int) ([]*entity.StockRecord, error) {
	where, args := buildStockWhere(f)
	pos := len(args) + 1
	query := `
		SELECT product_id, outlet_id, stock, threshold, updated_at
		FROM stock` + where + fmt.Sprintf(" ORDER BY outlet_id, product_id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.ProductID, &s.OutletID, &s.Stock, &s.Threshold, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Count total de registros para el sobre de paginación.
func (r *StockRepo) Count(ctx context.Context, f repository.StockFilter) (int, error) {
	where, args := buildStockWhere(f)
	var total int
	err := r.q.QueryRow(ctx, "SELECT count(*) FROM stock"+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count stock: %w", err)
	}
	return total, nil
}

// buildLowStockQuery arma el WHERE del reporte de stock bajo. La regla de
// doble umbral se evalúa en SQL y es espejo de entity.StockRecord.IsLowStock:
// stock < umbral efectivo de la fila O stock <= default global.
func buildLowStockQuery(f repository.LowStockFilter) (string, []any) {
	where := `
		WHERE (s.stock < CASE WHEN s.threshold > 0 THEN s.threshold ELSE $1 END
		   OR s.stock <= $1)`
	args := []any{f.GlobalDefault}
	pos := 2
	if f.ProductID != "" {
		where += fmt.Sprintf(" AND s.product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.OutletID != "" {
		where += fmt.Sprintf(" AND s.outlet_id = $%d", pos)
		args = append(args, f.OutletID)
		pos++
	}
	if f.Outlets != nil {
		where += fmt.Sprintf(" AND s.outlet_id = ANY($%d)", pos)
		args = append(args, f.Outlets)
		pos++
	}
	return where, args
}

// ListLowStock filas bajo la línea de alerta, enriquecidas con catálogo y
// sucursal, ordenadas por mayor quiebre primero.
func (r *StockRepo) ListLowStock(ctx context.Context, f repository.LowStockFilter, limit, offset int) ([]*repository.LowStockRow, error) {
	where, args := buildLowStockQuery(f)
	pos := len(args) + 1
	query := `
		SELECT s.product_id, p.sku, p.name, p.price, s.outlet_id, o.name, s.stock, s.threshold
		FROM stock s
		JOIN products p ON p.id = s.product_id
		JOIN outlets o ON o.id = s.outlet_id` + where +
		fmt.Sprintf(" ORDER BY s.stock ASC, s.outlet_id, s.product_id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var list []*repository.LowStockRow
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(
			&row.ProductID, &row.SKU, &row.ProductName, &row.Price,
			&row.OutletID, &row.OutletName, &row.Stock, &row.Threshold,
		); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}

// CountLowStock total de filas bajo la línea de alerta.
func (r *StockRepo) CountLowStock(ctx context.Context, f repository.LowStockFilter) (int, error) {
	where, args := buildLowStockQuery(f)
	query := `
		SELECT count(*)
		FROM stock s
		JOIN products p ON p.id = s.product_id
		JOIN outlets o ON o.id = s.outlet_id` + where
	var total int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return total, nil
}
