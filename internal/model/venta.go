package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoVenta: completada | cancelada. Cancelling restores truck stock via
// inverse movements; the row itself is never deleted.
type EstadoVenta string

const (
	VentaCompletada EstadoVenta = "completada"
	VentaCancelada  EstadoVenta = "cancelada"
)

// Venta is a sale registered during an active visit. Creating it decrements
// the matching carga lines atomically in the same transaction.
type Venta struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DetallePlanificacionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClienteID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	CargaCamionID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Fecha                  time.Time       `gorm:"not null;index"`
	Total                  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Estado                 EstadoVenta     `gorm:"type:varchar(20);not null;default:'completada'"`
	Observaciones          string

	DetallePlanificacion *DetallePlanificacion `gorm:"foreignKey:DetallePlanificacionID"`
	Cliente              *Cliente              `gorm:"foreignKey:ClienteID"`
	CargaCamion          *CargaCamion          `gorm:"foreignKey:CargaCamionID"`
	Detalles             []DetalleVenta        `gorm:"foreignKey:VentaID"`
}

func (Venta) TableName() string { return "ventas" }

// DetalleVenta is one product line of a sale. Subtotal is always computed
// server-side from the catalog price, never taken from the client.
type DetalleVenta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetalleVenta) TableName() string { return "detalle_ventas" }
