package entity

import "time"

// User representa un usuario del sistema. RoleID es una referencia débil al
// rol vigente (no propiedad): reasignar rol no toca filas históricas. Los
// usuarios nunca se borran físicamente para que user_id en auditoría siga
// siendo resoluble.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	RoleID       int64
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Estados válidos para User.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)
