package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearCargaRequest struct {
	CamionID string `json:"camion_id" validate:"required,uuid"`
	Fecha    string `json:"fecha"     validate:"omitempty,datetime=2006-01-02"` // empty = today
}

type AgregarProductoCargaRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"required"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type CargaFilter struct {
	CamionID string `form:"camion_id" validate:"omitempty,uuid"`
	Fecha    string `form:"fecha"     validate:"omitempty,datetime=2006-01-02"`
	Cerrada  string `form:"cerrada"` // "true" | "false" | empty = all
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CargaDetalleResponse struct {
	ID              string          `json:"id"`
	ProductoID      string          `json:"producto_id"`
	Producto        string          `json:"producto"`
	Codigo          string          `json:"codigo"`
	CantidadCargada decimal.Decimal `json:"cantidad_cargada"`
	CantidadActual  decimal.Decimal `json:"cantidad_actual"`
	CantidadVendida decimal.Decimal `json:"cantidad_vendida"`
}

type CargaResponse struct {
	ID       string                 `json:"id"`
	CamionID string                 `json:"camion_id"`
	Placa    string                 `json:"placa"`
	Fecha    string                 `json:"fecha"`
	Cerrada  bool                   `json:"cerrada"`
	Detalles []CargaDetalleResponse `json:"detalles,omitempty"`
}

type CargaListResponse struct {
	Data  []CargaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
