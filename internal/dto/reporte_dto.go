package dto

import "github.com/shopspring/decimal"

// ─── Filter ──────────────────────────────────────────────────────────────────

type ReporteRangoFilter struct {
	Desde string `form:"desde" validate:"omitempty,datetime=2006-01-02"` // empty = 7 days ago
	Hasta string `form:"hasta" validate:"omitempty,datetime=2006-01-02"` // empty = today
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// FotosDuplicadasResponse groups flagged visits by photo hash so repeated
// images across clients surface together.
type FotosDuplicadasResponse struct {
	Desde  string               `json:"desde"`
	Hasta  string               `json:"hasta"`
	Total  int                  `json:"total"`
	Grupos []GrupoFotoDuplicada `json:"grupos"`
}

type GrupoFotoDuplicada struct {
	FotoHash string                    `json:"foto_hash"`
	Visitas  []AuditoriaVisitaResponse `json:"visitas"`
}

type UbicacionesInvalidasResponse struct {
	Desde   string                    `json:"desde"`
	Hasta   string                    `json:"hasta"`
	Total   int                       `json:"total"`
	Visitas []AuditoriaVisitaResponse `json:"visitas"`
}

type VentasPorVendedorResponse struct {
	Desde      string              `json:"desde"`
	Hasta      string              `json:"hasta"`
	Filas      []VentasVendedorRow `json:"filas"`
	MontoTotal decimal.Decimal     `json:"monto_total"`
}

// ResumenCuadresResponse counts cuadres per state, the back office health
// check for pending reconciliations.
type ResumenCuadresResponse struct {
	Pendientes    int64 `json:"pendientes"`
	Cuadrados     int64 `json:"cuadrados"`
	ConDiferencia int64 `json:"con_diferencia"`
}
