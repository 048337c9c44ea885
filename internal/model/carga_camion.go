package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CargaCamion is a day's snapshot of products physically loaded onto a truck.
// One carga per (camion, fecha). Once Cerrada, lines and sales against it are
// frozen; only the cuadre reads it afterwards.
type CargaCamion struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CamionID               uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_carga_camion_fecha"`
	AsignacionCamionRutaID uuid.UUID `gorm:"type:uuid;not null"`
	Fecha                  time.Time `gorm:"type:date;not null;uniqueIndex:idx_carga_camion_fecha"`
	Cerrada                bool      `gorm:"not null;default:false"`
	CreatedAt              time.Time
	UpdatedAt              time.Time

	Camion               *Camion               `gorm:"foreignKey:CamionID"`
	AsignacionCamionRuta *AsignacionCamionRuta `gorm:"foreignKey:AsignacionCamionRutaID"`
	Detalles             []CargaCamionDetalle  `gorm:"foreignKey:CargaCamionID"`
}

func (CargaCamion) TableName() string { return "cargas_camion" }

// CargaCamionDetalle is the per-product ledger line of a carga.
// CantidadActual starts equal to CantidadCargada and is decremented only by
// ventas (pedidos never touch it). A DB check keeps it from going negative.
type CargaCamionDetalle struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CargaCamionID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_carga_producto"`
	ProductoID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_carga_producto"`
	CantidadCargada decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CantidadActual  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (CargaCamionDetalle) TableName() string { return "carga_camion_detalles" }

// CantidadVendida is the quantity sold so far off this line.
func (d *CargaCamionDetalle) CantidadVendida() decimal.Decimal {
	return d.CantidadCargada.Sub(d.CantidadActual)
}
