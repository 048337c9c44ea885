package model

import (
	"time"

	"github.com/google/uuid"
)

// Ruta is an ordered sequence of client stops assigned to vendedores as a
// unit. Stops live in RutaDetalle; the order drives the daily agenda.
type Ruta struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string    `gorm:"uniqueIndex;not null"`
	Nombre      string    `gorm:"not null"`
	Descripcion *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Detalles []RutaDetalle `gorm:"foreignKey:RutaID"`
}

func (Ruta) TableName() string { return "rutas" }

// RutaDetalle is one stop on a route: a client plus its visit position.
// Among active stops OrdenVisita is unique within the route and a client
// appears at most once; both are enforced by partial unique indexes created
// in the migration patches. Removing a stop flips Activo so historic
// planificaciones keep their FK.
type RutaDetalle struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RutaID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ClienteID   uuid.UUID `gorm:"type:uuid;not null;index"`
	OrdenVisita int       `gorm:"not null"`
	Activo      bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time

	Ruta    *Ruta    `gorm:"foreignKey:RutaID"`
	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

func (RutaDetalle) TableName() string { return "ruta_detalles" }
