// Package alert implementa el canal de observabilidad para fallos de
// escritura del log de movimientos: el evento se registra estructurado con
// todo el contexto necesario para reintentar o reconciliar a mano.
package alert

import (
	"context"

	"github.com/tu-usuario/outlet-ledger/internal/application/inventory"
	"github.com/tu-usuario/outlet-ledger/pkg/logger"
)

var _ inventory.MovementAlerter = (*LogAlerter)(nil)

// LogAlerter publica los fallos en el logger estructurado de la app.
type LogAlerter struct {
	log *logger.Logger
}

// NewLogAlerter construye el alerter.
func NewLogAlerter(log *logger.Logger) *LogAlerter {
	return &LogAlerter{log: log}
}

// MovementLogFailed registra el fallo con el movimiento completo. El stock ya
// se mutó con éxito; este evento es lo que permite reconstruir la auditoría.
func (a *LogAlerter) MovementLogFailed(_ context.Context, failure inventory.MovementLogFailure) {
	m := failure.Movement
	a.log.Error().
		Err(failure.Err).
		Str("movement_id", m.ID).
		Str("product_id", m.ProductID).
		Str("outlet_id", m.OutletID).
		Str("type", m.Type).
		Int64("quantity", m.Quantity).
		Str("reason", m.Reason).
		Str("user_id", m.UserID).
		Msg("fallo al escribir el movimiento de auditoría; la mutación de stock se mantiene")
}
