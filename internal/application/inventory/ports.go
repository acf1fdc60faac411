package inventory

import (
	"context"

	"github.com/tu-usuario/outlet-ledger/internal/domain/entity"
	"github.com/tu-usuario/outlet-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la lectura con bloqueo y la
// escritura del stock sean una sola unidad atómica por (producto, sucursal).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movementRepo repository.MovementRepository,
	) error) error
}

// MovementLogFailure evento tipado: el stock se mutó con éxito pero la
// escritura del movimiento de auditoría falló. La mutación de stock es
// autoritativa y se mantiene; el fallo del log es secundario pero debe ser
// observable y reintentable, nunca tragado en silencio.
type MovementLogFailure struct {
	Movement entity.Movement
	Err      error
}

// MovementAlerter canal de observabilidad para fallos de escritura del log
// de movimientos.
type MovementAlerter interface {
	MovementLogFailed(ctx context.Context, failure MovementLogFailure)
}
