package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearAsignacionRequest opens a route-vendedor window. FechaFin empty means
// open-ended; plan generation then covers the configured horizon.
type CrearAsignacionRequest struct {
	RutaID      string `json:"ruta_id"      validate:"required,uuid"`
	VendedorID  string `json:"vendedor_id"  validate:"required,uuid"`
	FechaInicio string `json:"fecha_inicio" validate:"required,datetime=2006-01-02"`
	FechaFin    string `json:"fecha_fin"    validate:"omitempty,datetime=2006-01-02"`
}

type FinalizarAsignacionRequest struct {
	FechaFin string `json:"fecha_fin" validate:"omitempty,datetime=2006-01-02"` // empty = today
}

type RegenerarPlanesRequest struct {
	Desde string `json:"desde" validate:"omitempty,datetime=2006-01-02"` // empty = today
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type AsignacionFilter struct {
	VendedorID string `form:"vendedor_id" validate:"omitempty,uuid"`
	RutaID     string `form:"ruta_id"     validate:"omitempty,uuid"`
	Activo     string `form:"activo"` // "false" | "all" | anything else = only active
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AsignacionResponse struct {
	ID              string  `json:"id"`
	RutaID          string  `json:"ruta_id"`
	Ruta            string  `json:"ruta"`
	VendedorID      string  `json:"vendedor_id"`
	Vendedor        string  `json:"vendedor"`
	FechaInicio     string  `json:"fecha_inicio"`
	FechaFin        *string `json:"fecha_fin"`
	Activo          bool    `json:"activo"`
	PlanesGenerados int     `json:"planes_generados,omitempty"`
}

type AsignacionListResponse struct {
	Data  []AsignacionResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// RegeneracionResponse reports a plan regeneration run: rows dropped because
// the stop roster changed, rows (re)created for the remaining horizon.
type RegeneracionResponse struct {
	AsignacionID string `json:"asignacion_id"`
	Eliminados   int64  `json:"eliminados"`
	Generados    int    `json:"generados"`
}
