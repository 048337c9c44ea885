package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoCuadre: pendiente until finalized, then cuadrado when every line has
// zero difference or con_diferencia otherwise.
type EstadoCuadre string

const (
	CuadrePendiente     EstadoCuadre = "pendiente"
	CuadreCuadrado      EstadoCuadre = "cuadrado"
	CuadreConDiferencia EstadoCuadre = "con_diferencia"
)

// CuadreDiario is the end-of-day reconciliation of a closed carga, one per
// carga (1:1). Lines are seeded from the carga snapshot at open and become
// immutable once the cuadre is finalized.
type CuadreDiario struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CargaCamionID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex"`
	Fecha         time.Time    `gorm:"type:date;not null;index"`
	Estado        EstadoCuadre `gorm:"type:varchar(20);not null;default:'pendiente'"`
	Observaciones string
	FinalizadoPor *uuid.UUID `gorm:"type:uuid"`
	FinalizadoEn  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	CargaCamion *CargaCamion          `gorm:"foreignKey:CargaCamionID"`
	Detalles    []CuadreDiarioDetalle `gorm:"foreignKey:CuadreDiarioID"`
}

func (CuadreDiario) TableName() string { return "cuadres_diarios" }

// Finalizado reports whether the cuadre reached a terminal state.
func (c *CuadreDiario) Finalizado() bool { return c.Estado != CuadrePendiente }

// CuadreDiarioDetalle compares expected vs. actual returns for one product.
// Diferencia = RetornoReal - RetornoEsperado; negative means missing stock.
type CuadreDiarioDetalle struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CuadreDiarioID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cuadre_producto"`
	ProductoID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cuadre_producto"`
	CantidadCargada decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CantidadVendida decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	RetornoEsperado decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	RetornoReal     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Diferencia      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Observaciones   string
	UpdatedAt       time.Time

	CuadreDiario *CuadreDiario `gorm:"foreignKey:CuadreDiarioID"`
	Producto     *Producto     `gorm:"foreignKey:ProductoID"`
}

func (CuadreDiarioDetalle) TableName() string { return "cuadre_diario_detalles" }
