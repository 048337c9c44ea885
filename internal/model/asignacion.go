package model

import (
	"time"

	"github.com/google/uuid"
)

// Asignacion binds a route to a vendedor for a date window. FechaFin nil
// means open-ended (extends to infinity for overlap purposes). Finalizing
// sets FechaFin and Activo=false; rows are never hard-deleted.
type Asignacion struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RutaID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_asignacion_ruta_vendedor"`
	VendedorID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_asignacion_ruta_vendedor"`
	FechaInicio time.Time  `gorm:"type:date;not null"`
	FechaFin    *time.Time `gorm:"type:date"`
	Activo      bool       `gorm:"not null;default:true"`
	CreatedAt   time.Time

	Ruta     *Ruta    `gorm:"foreignKey:RutaID"`
	Vendedor *Usuario `gorm:"foreignKey:VendedorID"`
}

func (Asignacion) TableName() string { return "asignaciones" }

// TraslapaCon reports whether two date windows overlap. Open-ended windows
// count as extending to infinity: [s1,e1?] and [s2,e2?] overlap iff
// s1 <= (e2 or +inf) and s2 <= (e1 or +inf).
func (a *Asignacion) TraslapaCon(inicio time.Time, fin *time.Time) bool {
	if fin != nil && a.FechaInicio.After(*fin) {
		return false
	}
	if a.FechaFin != nil && inicio.After(*a.FechaFin) {
		return false
	}
	return true
}
