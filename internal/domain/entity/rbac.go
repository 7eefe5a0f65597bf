package entity

import "time"

// Permission es una capacidad nombrada con namespace por punto ("products.view").
type Permission struct {
	ID       int64
	Name     string
	Category string
	Active   bool
}

// Role agrupa permisos bajo un nombre. Un rol sin permisos es válido y no
// concede ningún acceso (fail-closed).
type Role struct {
	ID          int64
	Name        string
	DisplayName string
	CreatedAt   time.Time
}

// RolePermission es la junción rol→permiso, única por (role_id, permission_id).
type RolePermission struct {
	RoleID       int64
	PermissionID int64
}
