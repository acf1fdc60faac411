package entity

import "time"

// Outlet representa una sucursal física o lógica de venta que lleva su
// propio conteo de stock.
type Outlet struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
}
