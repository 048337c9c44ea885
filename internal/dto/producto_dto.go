package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo         string          `json:"codigo"          validate:"required,min=2,max=30"`
	Nombre         string          `json:"nombre"          validate:"required,min=2,max=120"`
	Descripcion    *string         `json:"descripcion"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required"`
	UnidadMedida   string          `json:"unidad_medida"`
}

type ActualizarProductoRequest struct {
	Nombre         *string          `json:"nombre"          validate:"omitempty,min=2,max=120"`
	Descripcion    *string          `json:"descripcion"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario"`
	UnidadMedida   *string          `json:"unidad_medida"`
}

type CambiarEstadoProductoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=activo inactivo descontinuado"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Codigo string `form:"codigo"`
	Nombre string `form:"nombre"`
	Estado string `form:"estado"` // activo | inactivo | descontinuado | all; empty = activo
	Page   int    `form:"page,default=1"  validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID             string          `json:"id"`
	Codigo         string          `json:"codigo"`
	Nombre         string          `json:"nombre"`
	Descripcion    *string         `json:"descripcion"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	UnidadMedida   string          `json:"unidad_medida"`
	Estado         string          `json:"estado"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ConsultaPreciosResponse is returned by the vendedor price check endpoint.
// StockDisponible reflects the querying vendedor's truck for today; EnCamion
// is false when the vendedor has no open carga or the product is not loaded.
type ConsultaPreciosResponse struct {
	Codigo          string          `json:"codigo"`
	Nombre          string          `json:"nombre"`
	PrecioUnitario  decimal.Decimal `json:"precio_unitario"`
	UnidadMedida    string          `json:"unidad_medida"`
	StockDisponible decimal.Decimal `json:"stock_disponible"`
	EnCamion        bool            `json:"en_camion"`
}
