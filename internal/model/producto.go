package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoProducto models the product lifecycle. Descontinuado keeps the row
// (historic ventas reference it) but blocks new cargas and ventas.
type EstadoProducto string

const (
	ProductoActivo        EstadoProducto = "activo"
	ProductoInactivo      EstadoProducto = "inactivo"
	ProductoDescontinuado EstadoProducto = "descontinuado"
)

// Producto is a catalog item sold off the truck. PrecioUnitario is the
// authoritative price: ventas and pedidos always resolve it server-side.
type Producto struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo         string    `gorm:"uniqueIndex;not null"`
	Nombre         string    `gorm:"index;not null"`
	Descripcion    *string
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UnidadMedida   string          `gorm:"not null;default:'unidad'"`
	Estado         EstadoProducto  `gorm:"type:varchar(20);not null;default:'activo'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Producto) TableName() string { return "productos" }

// Vendible reports whether the product can appear on new cargas and ventas.
func (p *Producto) Vendible() bool { return p.Estado == ProductoActivo }
