package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Camion is a delivery truck. Cargas diarias (CargaCamion) hang off it.
type Camion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Placa       string    `gorm:"uniqueIndex;not null"`
	Marca       string
	Modelo      string
	CapacidadKg decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Camion) TableName() string { return "camiones" }

// AsignacionCamionRuta binds a truck to a route. At most one active binding
// per route; reassigning deactivates the previous one instead of deleting it.
// Ventas resolve the day's carga through this binding.
type AsignacionCamionRuta struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CamionID        uuid.UUID `gorm:"type:uuid;not null;index"`
	RutaID          uuid.UUID `gorm:"type:uuid;not null;index"`
	FechaAsignacion time.Time `gorm:"type:date;not null"`
	Activo          bool      `gorm:"not null;default:true"`
	CreatedAt       time.Time

	Camion *Camion `gorm:"foreignKey:CamionID"`
	Ruta   *Ruta   `gorm:"foreignKey:RutaID"`
}

func (AsignacionCamionRuta) TableName() string { return "asignaciones_camion_ruta" }
