package entity

import "time"

// StockRecord representa el stock actual de un producto en una sucursal.
// Existe a lo sumo un registro por (product_id, outlet_id); la ausencia
// significa "stock no rastreado en esa sucursal". Invariante: Stock >= 0.
type StockRecord struct {
	ProductID string
	OutletID  string
	Stock     int64
	// Threshold línea de alerta de stock bajo para este producto en esta
	// sucursal. 0 = sin umbral propio: aplica el default global.
	Threshold int64
	UpdatedAt time.Time
}

// EffectiveThreshold devuelve el umbral propio de la fila o, si no tiene,
// el default global del sistema.
func (s *StockRecord) EffectiveThreshold(globalDefault int64) int64 {
	if s.Threshold > 0 {
		return s.Threshold
	}
	return globalDefault
}

// IsLowStock aplica la regla de stock bajo: por debajo del umbral efectivo
// de la fila, O en o por debajo del default global. El OR reproduce la
// política de doble umbral del sistema original.
func (s *StockRecord) IsLowStock(globalDefault int64) bool {
	return s.Stock < s.EffectiveThreshold(globalDefault) || s.Stock <= globalDefault
}
