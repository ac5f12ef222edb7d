package dto

import "time"

// RegisterRequest entrada para registrar un usuario (solo admin/staff).
type RegisterRequest struct {
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Name       string `json:"nombre"`
	Role       string `json:"rol"`
	AccessZone string `json:"zona_acceso"`
}

// UpdateUserRequest campos opcionales. Password vacío no cambia la contraseña.
type UpdateUserRequest struct {
	Email      *string `json:"email,omitempty"`
	Username   *string `json:"username,omitempty"`
	Password   *string `json:"password,omitempty"`
	Name       *string `json:"nombre,omitempty"`
	Role       *string `json:"rol,omitempty"`
	AccessZone *string `json:"zona_acceso,omitempty"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Username           string    `json:"username"`
	Name               string    `json:"nombre"`
	Role               string    `json:"rol"`
	AccessZone         string    `json:"zona_acceso"`
	IsAdmin            bool      `json:"is_admin"`
	CreatedAtFormatted string    `json:"created_at_formatted"`
	CreatedAt          time.Time `json:"-"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest refresh token emitido en el login.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// TokenResponse par de tokens JWT.
type TokenResponse struct {
	Access  string        `json:"access"`
	Refresh string        `json:"refresh,omitempty"`
	User    *UserResponse `json:"user,omitempty"`
}
