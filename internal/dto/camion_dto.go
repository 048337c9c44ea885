package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearCamionRequest struct {
	Placa       string          `json:"placa"        validate:"required,min=5,max=12"`
	Marca       string          `json:"marca"        validate:"max=60"`
	Modelo      string          `json:"modelo"       validate:"max=60"`
	CapacidadKg decimal.Decimal `json:"capacidad_kg" validate:"omitempty"`
}

type ActualizarCamionRequest struct {
	Marca       *string          `json:"marca"        validate:"omitempty,max=60"`
	Modelo      *string          `json:"modelo"       validate:"omitempty,max=60"`
	CapacidadKg *decimal.Decimal `json:"capacidad_kg"`
}

// AsignarRutaRequest binds the truck to a route, replacing any active binding
// for that route.
type AsignarRutaRequest struct {
	RutaID string `json:"ruta_id" validate:"required,uuid"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type CamionFilter struct {
	Placa  string `form:"placa"`
	Activo string `form:"activo"` // "false" | "all" | anything else = only active
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CamionResponse struct {
	ID          string          `json:"id"`
	Placa       string          `json:"placa"`
	Marca       string          `json:"marca"`
	Modelo      string          `json:"modelo"`
	CapacidadKg decimal.Decimal `json:"capacidad_kg"`
	Activo      bool            `json:"activo"`
}

type CamionListResponse struct {
	Data  []CamionResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type AsignacionCamionRutaResponse struct {
	ID              string `json:"id"`
	CamionID        string `json:"camion_id"`
	Placa           string `json:"placa"`
	RutaID          string `json:"ruta_id"`
	Ruta            string `json:"ruta"`
	FechaAsignacion string `json:"fecha_asignacion"`
	Activo          bool   `json:"activo"`
}
