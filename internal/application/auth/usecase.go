package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/outlet-ledger/internal/application/dto"
	"github.com/tu-usuario/outlet-ledger/internal/domain"
	"github.com/tu-usuario/outlet-ledger/internal/domain/repository"
	"github.com/tu-usuario/outlet-ledger/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// LoginUseCase emite el contexto de identidad que consume el motor de
// inventario: un JWT con user_id, rol y sucursales asignadas.
type LoginUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewLoginUseCase construye el caso de uso de login.
func NewLoginUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *LoginUseCase {
	return &LoginUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica email/password con bcrypt y genera el JWT. Devuelve
// ErrInvalidCredentials tanto para usuario inexistente como para password
// incorrecto, sin distinguirlos.
func (uc *LoginUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := uc.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, user.Outlets, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:   token,
		UserID:  user.ID,
		Name:    user.Name,
		Role:    user.Role,
		Outlets: user.Outlets,
	}, nil
}
