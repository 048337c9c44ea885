package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// IniciarVisitaRequest is bound from the multipart check-in form. The photo
// itself travels as the "foto" file part and is hashed server-side.
type IniciarVisitaRequest struct {
	Latitud  *float64 `form:"latitud"  validate:"omitempty,latitude"`
	Longitud *float64 `form:"longitud" validate:"omitempty,longitude"`
}

type FinalizarVisitaRequest struct {
	Observaciones string `json:"observaciones" validate:"max=500"`
}

// MarcarNoVisitaRequest closes a stop without a check-in. Estado selects the
// terminal outcome; the reason is mandatory.
type MarcarNoVisitaRequest struct {
	Estado string `json:"estado" validate:"required,oneof=no_visitado negocio_cerrado"`
	Motivo string `json:"motivo" validate:"required,min=5,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VisitaResponse struct {
	DetalleID       string   `json:"detalle_id"`
	PlanificacionID string   `json:"planificacion_id"`
	Cliente         string   `json:"cliente"`
	Estado          string   `json:"estado"`
	HoraLlegada     *string  `json:"hora_llegada"`
	HoraSalida      *string  `json:"hora_salida"`
	Latitud         *float64 `json:"latitud"`
	Longitud        *float64 `json:"longitud"`
	FotoDuplicada   bool     `json:"foto_duplicada"`
	UbicacionValida *bool    `json:"ubicacion_valida"`
	Observaciones   string   `json:"observaciones,omitempty"`
}
