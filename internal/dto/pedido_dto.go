package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ───────────────────────────────────────────────────────────

type PedidoFilter struct {
	FechaInicio string `form:"fecha_inicio" validate:"omitempty,datetime=2006-01-02"`
	FechaFin    string `form:"fecha_fin"    validate:"omitempty,datetime=2006-01-02"`
	Estado      string `form:"estado"` // pendiente | procesado | entregado | cancelado | all
	ClienteID   string `form:"cliente_id"   validate:"omitempty,uuid"`
	VendedorID  string `form:"vendedor_id"  validate:"omitempty,uuid"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemPedidoRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"required"`
}

// RegistrarPedidoRequest books products for later delivery. Truck stock is
// never touched; only the catalog price is captured.
type RegistrarPedidoRequest struct {
	DetallePlanificacionID string              `json:"detalle_planificacion_id" validate:"required,uuid"`
	Items                  []ItemPedidoRequest `json:"items"                    validate:"required,min=1,dive"`
	FechaEntregaEstimada   string              `json:"fecha_entrega_estimada"   validate:"omitempty,datetime=2006-01-02"`
	Observaciones          string              `json:"observaciones"            validate:"max=500"`
}

type CambiarEstadoPedidoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=pendiente procesado entregado cancelado"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemPedidoResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type PedidoResponse struct {
	ID                   string               `json:"id"`
	ClienteID            string               `json:"cliente_id"`
	Cliente              string               `json:"cliente"`
	Fecha                string               `json:"fecha"`
	FechaEntregaEstimada *string              `json:"fecha_entrega_estimada"`
	Items                []ItemPedidoResponse `json:"items"`
	Total                decimal.Decimal      `json:"total"`
	Estado               string               `json:"estado"`
	Observaciones        string               `json:"observaciones,omitempty"`
}

type PedidoListResponse struct {
	Data       []PedidoResponse `json:"data"`
	Total      int64            `json:"total"`
	MontoTotal decimal.Decimal  `json:"monto_total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}
