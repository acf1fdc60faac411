package repository

import (
	"context"

	"github.com/tu-usuario/outlet-ledger/internal/domain/entity"
)

// UserRepository puerto de persistencia para usuarios (identidad del caller).
type UserRepository interface {
	// FindByEmail devuelve nil, nil si no existe un usuario con ese email.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
