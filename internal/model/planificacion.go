package model

import (
	"time"

	"github.com/google/uuid"
)

// TipoPlanificacion distinguishes generator output from ad-hoc visits a
// vendedor registers mid-day for a newly captured client.
type TipoPlanificacion string

const (
	PlanProgramada   TipoPlanificacion = "programada"
	PlanNoProgramada TipoPlanificacion = "no_programada"
)

// Planificacion is one (asignacion, stop, date) obligation to visit a client.
// The composite unique index makes generation idempotent: the generator
// upserts with conflict-do-nothing and counts only newly created rows.
type Planificacion struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AsignacionID  uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_plan_unico"`
	RutaDetalleID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_plan_unico"`
	Fecha         time.Time         `gorm:"type:date;not null;uniqueIndex:idx_plan_unico;index"`
	Tipo          TipoPlanificacion `gorm:"type:varchar(20);not null;default:'programada'"`
	CreatedAt     time.Time

	Asignacion  *Asignacion           `gorm:"foreignKey:AsignacionID"`
	RutaDetalle *RutaDetalle          `gorm:"foreignKey:RutaDetalleID"`
	Detalle     *DetallePlanificacion `gorm:"foreignKey:PlanificacionID;constraint:OnDelete:CASCADE"`
}

func (Planificacion) TableName() string { return "planificaciones" }

// EstadoVisita is the visit state machine. Pendiente is the only non-terminal
// state without an arrival; visitado becomes terminal once HoraSalida is set.
type EstadoVisita string

const (
	VisitaPendiente      EstadoVisita = "pendiente"
	VisitaVisitado       EstadoVisita = "visitado"
	VisitaNoVisitado     EstadoVisita = "no_visitado"
	VisitaNegocioCerrado EstadoVisita = "negocio_cerrado"
)

// DetallePlanificacion is the realized visit record, one-to-one with its
// Planificacion and created lazily on first access. FotoDuplicada and
// UbicacionValida are informational audit flags: they never block a visit.
type DetallePlanificacion struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PlanificacionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Latitud         *float64
	Longitud        *float64
	FotoPath        *string
	FotoHash        *string      `gorm:"type:varchar(32);index"`
	FotoDuplicada   bool         `gorm:"not null;default:false"`
	UbicacionValida *bool
	Estado          EstadoVisita `gorm:"type:varchar(20);not null;default:'pendiente'"`
	HoraLlegada     *time.Time
	HoraSalida      *time.Time
	Observaciones   string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Planificacion *Planificacion `gorm:"foreignKey:PlanificacionID"`
}

func (DetallePlanificacion) TableName() string { return "detalle_planificaciones" }

// VisitaActiva reports an open check-in: arrival recorded, departure pending.
// It is the gate for registering ventas and pedidos.
func (d *DetallePlanificacion) VisitaActiva() bool {
	return d.HoraLlegada != nil && d.HoraSalida == nil
}

// EstadoTerminal reports whether the record can no longer transition.
func (d *DetallePlanificacion) EstadoTerminal() bool {
	switch d.Estado {
	case VisitaNoVisitado, VisitaNegocioCerrado:
		return true
	case VisitaVisitado:
		return d.HoraSalida != nil
	default:
		return false
	}
}
