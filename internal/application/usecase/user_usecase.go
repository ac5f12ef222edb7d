package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tikno-erp/internal/application/access"
	"github.com/jhoicas/tikno-erp/internal/application/dto"
	"github.com/jhoicas/tikno-erp/internal/domain"
	"github.com/jhoicas/tikno-erp/internal/domain/entity"
	"github.com/jhoicas/tikno-erp/internal/domain/repository"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 8

// UserUseCase aplica reglas de negocio para usuarios. Admin y staff gestionan a todos;
// el resto solo se ve y se edita a sí mismo, sin poder cambiar rol ni zona de acceso.
type UserUseCase struct {
	repo repository.UserRepository
	now  func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Register crea un usuario. Solo admin/staff.
func (uc *UserUseCase) Register(ctx context.Context, caller access.Caller, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if !caller.IsAdmin() {
		return nil, fmt.Errorf("%w: solo los administradores y staff pueden crear nuevos usuarios", domain.ErrForbidden)
	}
	return uc.create(ctx, in)
}

// Bootstrap crea un usuario sin verificar al llamador (semilla inicial).
func (uc *UserUseCase) Bootstrap(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	return uc.create(ctx, in)
}

func (uc *UserUseCase) create(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(in.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = entity.RoleUser
	}
	if !validRole(role) {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, role)
	}
	zone := strings.TrimSpace(in.AccessZone)
	if zone == "" {
		zone = entity.AccessZoneGeneral
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = username
	}

	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           entity.UserID(uuid.New().String()),
		Email:        email,
		Username:     username,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		AccessZone:   zone,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Get obtiene un usuario. Un usuario sin privilegios solo puede verse a sí mismo.
func (uc *UserUseCase) Get(ctx context.Context, caller access.Caller, id entity.UserID) (*dto.UserResponse, error) {
	if !caller.IsAdmin() && caller.UserID != id {
		return nil, domain.ErrUserNotFound
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(user), nil
}

// List admin/staff ven todos; el resto solo a sí mismo.
func (uc *UserUseCase) List(ctx context.Context, caller access.Caller, limit, offset int) ([]dto.UserResponse, error) {
	if !caller.IsAdmin() {
		u, err := uc.repo.GetByID(ctx, caller.UserID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return []dto.UserResponse{}, nil
		}
		return []dto.UserResponse{*ToUserResponse(u)}, nil
	}
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *ToUserResponse(u))
	}
	return out, nil
}

// Update aplica cambios parciales.
func (uc *UserUseCase) Update(ctx context.Context, caller access.Caller, id entity.UserID, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !caller.IsAdmin() {
		if caller.UserID != id {
			return nil, fmt.Errorf("%w: no tienes permiso para modificar otros usuarios", domain.ErrForbidden)
		}
		if in.Role != nil || in.AccessZone != nil {
			return nil, fmt.Errorf("%w: no tienes permiso para modificar roles o zonas de acceso", domain.ErrForbidden)
		}
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
		}
		user.Email = email
	}
	if in.Username != nil && strings.TrimSpace(*in.Username) != "" {
		user.Username = strings.TrimSpace(*in.Username)
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		if !validRole(*in.Role) {
			return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, *in.Role)
		}
		user.Role = *in.Role
	}
	if in.AccessZone != nil && strings.TrimSpace(*in.AccessZone) != "" {
		user.AccessZone = strings.TrimSpace(*in.AccessZone)
	}
	if in.Password != nil && *in.Password != "" {
		if len(*in.Password) < MinPasswordLength {
			return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Delete solo admin/staff y nunca sobre sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, caller access.Caller, id entity.UserID) error {
	if !caller.IsAdmin() {
		return fmt.Errorf("%w: no tienes permiso para eliminar usuarios", domain.ErrForbidden)
	}
	if caller.UserID == id {
		return fmt.Errorf("%w: no puedes eliminar tu propio usuario", domain.ErrInvalidInput)
	}
	return uc.repo.Delete(ctx, id)
}

func validRole(role string) bool {
	switch role {
	case entity.RoleAdmin, entity.RoleStaff, entity.RoleUser:
		return true
	}
	return false
}

// ToUserResponse convierte la entidad a DTO (sin password).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:                 string(u.ID),
		Email:              u.Email,
		Username:           u.Username,
		Name:               u.Name,
		Role:               u.Role,
		AccessZone:         u.AccessZone,
		IsAdmin:            u.IsAdmin(),
		CreatedAtFormatted: u.CreatedAt.Format("02/01/2006 15:04"),
		CreatedAt:          u.CreatedAt,
	}
}
