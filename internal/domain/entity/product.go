package entity

import "github.com/shopspring/decimal"

// Product información del catálogo externo que el motor de inventario
// necesita: existencia, nombre y precio para reportes. La gestión del
// catálogo vive fuera de este servicio; aquí solo se resuelve.
type Product struct {
	ID    string
	SKU   string
	Name  string
	Price decimal.Decimal
}
