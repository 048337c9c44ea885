package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoPedido models deferred fulfillment: the back office moves a pedido
// from pendiente through procesado to entregado, or cancels it.
type EstadoPedido string

const (
	PedidoPendiente EstadoPedido = "pendiente"
	PedidoProcesado EstadoPedido = "procesado"
	PedidoEntregado EstadoPedido = "entregado"
	PedidoCancelado EstadoPedido = "cancelado"
)

// Pedido records products a client wants delivered later. It shares the
// shape of Venta but NEVER touches truck stock.
type Pedido struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DetallePlanificacionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClienteID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	Fecha                  time.Time       `gorm:"not null;index"`
	FechaEntregaEstimada   *time.Time      `gorm:"type:date"`
	Total                  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Estado                 EstadoPedido    `gorm:"type:varchar(20);not null;default:'pendiente'"`
	Observaciones          string

	DetallePlanificacion *DetallePlanificacion `gorm:"foreignKey:DetallePlanificacionID"`
	Cliente              *Cliente              `gorm:"foreignKey:ClienteID"`
	Detalles             []DetallePedido       `gorm:"foreignKey:PedidoID"`
}

func (Pedido) TableName() string { return "pedidos" }

type DetallePedido struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (DetallePedido) TableName() string { return "detalle_pedidos" }
