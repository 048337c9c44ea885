package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AbrirCuadreRequest starts the reconciliation of a closed carga.
type AbrirCuadreRequest struct {
	CargaCamionID string `json:"carga_camion_id" validate:"required,uuid"`
}

// ActualizarRetornoRequest captures the stock physically counted back at the
// warehouse for one product line.
type ActualizarRetornoRequest struct {
	RetornoReal   decimal.Decimal `json:"retorno_real"  validate:"required"`
	Observaciones string          `json:"observaciones" validate:"max=500"`
}

type FinalizarCuadreRequest struct {
	Observaciones string `json:"observaciones" validate:"max=500"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type CuadreFilter struct {
	Estado   string `form:"estado"` // pendiente | cuadrado | con_diferencia | all
	Fecha    string `form:"fecha"     validate:"omitempty,datetime=2006-01-02"`
	CamionID string `form:"camion_id" validate:"omitempty,uuid"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CuadreDetalleResponse struct {
	ID              string          `json:"id"`
	ProductoID      string          `json:"producto_id"`
	Producto        string          `json:"producto"`
	Codigo          string          `json:"codigo"`
	CantidadCargada decimal.Decimal `json:"cantidad_cargada"`
	CantidadVendida decimal.Decimal `json:"cantidad_vendida"`
	RetornoEsperado decimal.Decimal `json:"retorno_esperado"`
	RetornoReal     decimal.Decimal `json:"retorno_real"`
	Diferencia      decimal.Decimal `json:"diferencia"`
	Observaciones   string          `json:"observaciones,omitempty"`
}

type CuadreResponse struct {
	ID            string                  `json:"id"`
	CargaCamionID string                  `json:"carga_camion_id"`
	Placa         string                  `json:"placa"`
	Fecha         string                  `json:"fecha"`
	Estado        string                  `json:"estado"`
	Observaciones string                  `json:"observaciones,omitempty"`
	FinalizadoPor *string                 `json:"finalizado_por"`
	FinalizadoEn  *string                 `json:"finalizado_en"`
	Detalles      []CuadreDetalleResponse `json:"detalles,omitempty"`
}

type CuadreListResponse struct {
	Data  []CuadreResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ResumenCuadreResponse totals a day: ventas and pedidos registered against
// the carga plus the net stock difference found at reconciliation.
type ResumenCuadreResponse struct {
	CuadreID            string          `json:"cuadre_id"`
	Fecha               string          `json:"fecha"`
	Estado              string          `json:"estado"`
	TotalVentas         decimal.Decimal `json:"total_ventas"`
	CantidadVentas      int64           `json:"cantidad_ventas"`
	TotalPedidos        decimal.Decimal `json:"total_pedidos"`
	CantidadPedidos     int64           `json:"cantidad_pedidos"`
	LineasConDiferencia int             `json:"lineas_con_diferencia"`
	TotalDiferencias    decimal.Decimal `json:"total_diferencias"`
}
