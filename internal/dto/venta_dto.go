package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ───────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	FechaInicio string `form:"fecha_inicio" validate:"omitempty,datetime=2006-01-02"`
	FechaFin    string `form:"fecha_fin"    validate:"omitempty,datetime=2006-01-02"`
	Estado      string `form:"estado,default=completada"` // completada | cancelada | all
	ClienteID   string `form:"cliente_id"   validate:"omitempty,uuid"`
	VendedorID  string `form:"vendedor_id"  validate:"omitempty,uuid"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"required"`
}

// RegistrarVentaRequest creates a sale inside an active visit. Prices come
// from the catalog; the client never sends amounts.
type RegistrarVentaRequest struct {
	DetallePlanificacionID string             `json:"detalle_planificacion_id" validate:"required,uuid"`
	Items                  []ItemVentaRequest `json:"items"                    validate:"required,min=1,dive"`
	Observaciones          string             `json:"observaciones"            validate:"max=500"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID            string              `json:"id"`
	ClienteID     string              `json:"cliente_id"`
	Cliente       string              `json:"cliente"`
	Fecha         string              `json:"fecha"`
	Items         []ItemVentaResponse `json:"items"`
	Total         decimal.Decimal     `json:"total"`
	Estado        string              `json:"estado"`
	Observaciones string              `json:"observaciones,omitempty"`
}

type VentaListResponse struct {
	Data       []VentaResponse `json:"data"`
	Total      int64           `json:"total"`
	MontoTotal decimal.Decimal `json:"monto_total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
}

// VentasVendedorRow is one aggregation row of the sales-per-vendedor report.
type VentasVendedorRow struct {
	VendedorID     string          `json:"vendedor_id"`
	Vendedor       string          `json:"vendedor"`
	CantidadVentas int64           `json:"cantidad_ventas"`
	Total          decimal.Decimal `json:"total"`
}
