package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearClienteRequest struct {
	Nombre    string   `json:"nombre"    validate:"required,min=2,max=150"`
	Direccion string   `json:"direccion" validate:"required,min=5,max=250"`
	Telefono  *string  `json:"telefono"  validate:"omitempty,min=8,max=15"`
	NIT       *string  `json:"nit"       validate:"omitempty,max=20"`
	Latitud   *float64 `json:"latitud"   validate:"omitempty,latitude"`
	Longitud  *float64 `json:"longitud"  validate:"omitempty,longitude"`
}

type ActualizarClienteRequest struct {
	Nombre    *string  `json:"nombre"    validate:"omitempty,min=2,max=150"`
	Direccion *string  `json:"direccion" validate:"omitempty,min=5,max=250"`
	Telefono  *string  `json:"telefono"  validate:"omitempty,min=8,max=15"`
	NIT       *string  `json:"nit"       validate:"omitempty,max=20"`
	Latitud   *float64 `json:"latitud"   validate:"omitempty,latitude"`
	Longitud  *float64 `json:"longitud"  validate:"omitempty,longitude"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ClienteFilter struct {
	Nombre string `form:"nombre"`
	Activo string `form:"activo"` // "false" | "all" | anything else = only active
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID        string   `json:"id"`
	Nombre    string   `json:"nombre"`
	Direccion string   `json:"direccion"`
	Telefono  *string  `json:"telefono"`
	NIT       *string  `json:"nit"`
	Latitud   *float64 `json:"latitud"`
	Longitud  *float64 `json:"longitud"`
	Activo    bool     `json:"activo"`
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
