package model

import (
	"time"

	"github.com/google/uuid"
)

// Rol is the closed set of system roles. Capability checks live in the
// authz package; nothing should compare raw role strings outside of it.
type Rol string

const (
	RolAdmin      Rol = "admin"
	RolSecretaria Rol = "secretaria"
	RolVendedor   Rol = "vendedor"
)

// Usuario stores system users with role-based access. Vendedores are the
// salespeople bound to routes; secretaria and admin operate the back office.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Apellido     string    `gorm:"not null"`
	Email        *string
	Telefono     *string
	PasswordHash string `gorm:"not null"`
	Rol          Rol    `gorm:"type:varchar(20);not null"`
	Activo       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Usuario) TableName() string { return "usuarios" }

// NombreCompleto is the display name used in agendas and reports.
func (u *Usuario) NombreCompleto() string {
	if u.Apellido == "" {
		return u.Nombre
	}
	return u.Nombre + " " + u.Apellido
}
