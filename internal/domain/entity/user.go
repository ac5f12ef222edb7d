package entity

import "time"

// Roles conocidos. RoleUser es el rol por defecto de los usuarios nuevos.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleUser  = "Usuario"
)

// AccessZoneGeneral zona de acceso por defecto.
const AccessZoneGeneral = "general"

// User representa un usuario del sistema.
type User struct {
	ID           UserID
	Email        string
	Username     string
	Name         string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string
	AccessZone   string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el usuario tiene privilegios de administración (admin o staff).
func (u *User) IsAdmin() bool {
	return IsAdminRole(u.Role)
}

// IsAdminRole indica si el rol tiene privilegios de administración.
func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}
