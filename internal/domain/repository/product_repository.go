package repository

import (
	"context"

	"github.com/tu-usuario/outlet-ledger/internal/domain/entity"
)

// ProductRepository puerto de solo lectura hacia el catálogo externo de
// productos. El motor de inventario no gestiona el catálogo: solo resuelve
// que el producto exista y obtiene nombre/SKU/precio para reportes.
type ProductRepository interface {
	// GetByID devuelve nil, nil si el producto no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
