package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tikno-erp/internal/application/dto"
	"github.com/jhoicas/tikno-erp/internal/application/usecase"
	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
	"github.com/jhoicas/tikno-erp/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret            string
	ExpMinutes        int
	RefreshExpMinutes int
	Issuer            string
}

// AuthUseCase login por email/password y renovación de tokens.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifica email/password y devuelve access + refresh.
// Email inexistente y password incorrecta responden igual (ErrUnauthorized).
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email y password son obligatorios", domain.ErrInvalidInput)
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	return uc.issue(user, true)
}

// Refresh emite un nuevo par de tokens a partir de un refresh válido de un usuario activo.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.TokenResponse, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, in.Refresh, jwt.TokenRefresh)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, entity.UserID(claims.UserID))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	return uc.issue(user, false)
}

func (uc *AuthUseCase) issue(user *entity.User, withUser bool) (*dto.TokenResponse, error) {
	id := jwt.Identity{
		UserID:     string(user.ID),
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		AccessZone: user.AccessZone,
	}
	access, err := jwt.Generate(uc.jwtCfg.Secret, id, jwt.TokenAccess, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	refresh, err := jwt.Generate(uc.jwtCfg.Secret, id, jwt.TokenRefresh, uc.jwtCfg.Issuer, uc.jwtCfg.RefreshExpMinutes)
	if err != nil {
		return nil, err
	}
	out := &dto.TokenResponse{Access: access, Refresh: refresh}
	if withUser {
		out.User = usecase.ToUserResponse(user)
	}
	return out, nil
}
