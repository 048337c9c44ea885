package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearRutaRequest struct {
	Codigo      string  `json:"codigo"      validate:"required,min=2,max=20"`
	Nombre      string  `json:"nombre"      validate:"required,min=2,max=120"`
	Descripcion *string `json:"descripcion"`
}

type ActualizarRutaRequest struct {
	Nombre      *string `json:"nombre"      validate:"omitempty,min=2,max=120"`
	Descripcion *string `json:"descripcion"`
}

// AgregarParadaRequest appends a client to a route. OrdenVisita zero or
// absent means "next free position".
type AgregarParadaRequest struct {
	ClienteID   string `json:"cliente_id"   validate:"required,uuid"`
	OrdenVisita int    `json:"orden_visita" validate:"min=0"`
}

// ReordenarParadasRequest replaces the visit order wholesale: Orden must
// list every active stop of the route exactly once, in the new sequence.
type ReordenarParadasRequest struct {
	Orden []string `json:"orden" validate:"required,min=1,dive,uuid"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type RutaFilter struct {
	Nombre string `form:"nombre"`
	Activo string `form:"activo"` // "false" | "all" | anything else = only active
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ParadaResponse struct {
	ID          string   `json:"id"`
	ClienteID   string   `json:"cliente_id"`
	Cliente     string   `json:"cliente"`
	Direccion   string   `json:"direccion"`
	OrdenVisita int      `json:"orden_visita"`
	Activo      bool     `json:"activo"`
	Latitud     *float64 `json:"latitud"`
	Longitud    *float64 `json:"longitud"`
}

type RutaResponse struct {
	ID          string           `json:"id"`
	Codigo      string           `json:"codigo"`
	Nombre      string           `json:"nombre"`
	Descripcion *string          `json:"descripcion"`
	Activo      bool             `json:"activo"`
	Paradas     []ParadaResponse `json:"paradas,omitempty"`
}

type RutaListResponse struct {
	Data  []RutaResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
