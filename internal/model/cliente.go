package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a point of sale visited by a route. Latitud/Longitud anchor the
// geofence check on visit check-in; both nil means the client was registered
// without coordinates and location validation is skipped.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	Direccion string    `gorm:"not null"`
	Telefono  *string
	NIT       *string `gorm:"column:nit"`
	Latitud   *float64
	Longitud  *float64
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }

// TieneCoordenadas reports whether the client has a registered location.
func (c *Cliente) TieneCoordenadas() bool {
	return c.Latitud != nil && c.Longitud != nil
}
