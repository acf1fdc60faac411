package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeAdjustment = "adjustment" // ajuste en una sucursal (reposición, corrección, merma)
	MovementTypeTransfer   = "transfer"   // traslado entre sucursales (dos registros enlazados)
)

// Movement registro de auditoría de un cambio de stock. Append-only: una vez
// escrito nunca se actualiza ni se borra.
//
// Un traslado produce exactamente dos Movement de igual magnitud y signo
// opuesto, uno en la sucursal origen (negativo) y otro en la destino
// (positivo), cada uno referenciando a la otra vía RelatedOutletID y
// compartiendo TransactionID.
type Movement struct {
	ID        string
	ProductID string
	OutletID  string
	Type      string
	Quantity  int64 // positivo = aumento, negativo = disminución
	Reason    string
	UserID    string
	// RelatedOutletID solo en traslados: la sucursal contraparte.
	RelatedOutletID *string
	// TransactionID agrupa las dos patas de un mismo traslado.
	TransactionID string
	CreatedAt     time.Time
}
