package dto

// ─── Filter / List ───────────────────────────────────────────────────────────

// AgendaFilter selects the day's agenda. Vendedores see their own agenda;
// VendedorID only applies for back office callers.
type AgendaFilter struct {
	Fecha      string `form:"fecha"       validate:"omitempty,datetime=2006-01-02"` // empty = today
	VendedorID string `form:"vendedor_id" validate:"omitempty,uuid"`
}

// AuditoriaFilter bounds the photo / location audit listings.
type AuditoriaFilter struct {
	Desde string `form:"desde" validate:"omitempty,datetime=2006-01-02"` // empty = 7 days ago
	Hasta string `form:"hasta" validate:"omitempty,datetime=2006-01-02"` // empty = today
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ClienteNuevoVendedorRequest registers a client captured on the road: the
// cliente, its stop at the end of the vendedor's route and an ad-hoc
// planificacion for today are created in one transaction.
type ClienteNuevoVendedorRequest struct {
	Nombre    string   `json:"nombre"    validate:"required,min=3,max=200"`
	Direccion string   `json:"direccion" validate:"required,min=5,max=300"`
	Telefono  *string  `json:"telefono"  validate:"omitempty,max=20"`
	NIT       *string  `json:"nit"       validate:"omitempty,max=20"`
	Latitud   *float64 `json:"latitud"   validate:"omitempty,latitude"`
	Longitud  *float64 `json:"longitud"  validate:"omitempty,longitude"`
}

// VisitaNoPlanificadaResponse reports what the ad-hoc registration created.
type VisitaNoPlanificadaResponse struct {
	ClienteID       string `json:"cliente_id"`
	RutaDetalleID   string `json:"ruta_detalle_id"`
	PlanificacionID string `json:"planificacion_id"`
	OrdenVisita     int    `json:"orden_visita"`
	Fecha           string `json:"fecha"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// AgendaItemResponse is one stop of the daily agenda, ordered by the route.
type AgendaItemResponse struct {
	PlanificacionID string   `json:"planificacion_id"`
	ClienteID       string   `json:"cliente_id"`
	Cliente         string   `json:"cliente"`
	Direccion       string   `json:"direccion"`
	Telefono        *string  `json:"telefono"`
	Latitud         *float64 `json:"latitud"`
	Longitud        *float64 `json:"longitud"`
	OrdenVisita     int      `json:"orden_visita"`
	Tipo            string   `json:"tipo"`
	Estado          string   `json:"estado"`
	HoraLlegada     *string  `json:"hora_llegada"`
	HoraSalida      *string  `json:"hora_salida"`
	Observaciones   string   `json:"observaciones,omitempty"`
}

type AgendaResumen struct {
	Total            int `json:"total"`
	Pendientes       int `json:"pendientes"`
	Visitados        int `json:"visitados"`
	NoVisitados      int `json:"no_visitados"`
	NegociosCerrados int `json:"negocios_cerrados"`
}

type AgendaResponse struct {
	Fecha    string               `json:"fecha"`
	Vendedor string               `json:"vendedor"`
	Visitas  []AgendaItemResponse `json:"visitas"`
	Resumen  AgendaResumen        `json:"resumen"`
}

// AuditoriaVisitaResponse is one flagged visit in the photo / location audit.
type AuditoriaVisitaResponse struct {
	DetalleID       string  `json:"detalle_id"`
	Fecha           string  `json:"fecha"`
	Cliente         string  `json:"cliente"`
	Vendedor        string  `json:"vendedor"`
	Estado          string  `json:"estado"`
	FotoHash        *string `json:"foto_hash"`
	FotoDuplicada   bool    `json:"foto_duplicada"`
	UbicacionValida *bool   `json:"ubicacion_valida"`
}
