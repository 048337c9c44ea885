package service

import (
	"context"
	"time"

	"github.com/dizanrev24/control-rutas/internal/apierror"
	"github.com/dizanrev24/control-rutas/internal/clock"
	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/model"
	"github.com/dizanrev24/control-rutas/internal/repository"

	"github.com/shopspring/decimal"
)

// ReporteService serves the back-office audit views: duplicated photos,
// out-of-range check-ins, sales per vendedor and reconciliation health.
type ReporteService interface {
	FotosDuplicadas(ctx context.Context, filter dto.ReporteRangoFilter) (*dto.FotosDuplicadasResponse, error)
	UbicacionesInvalidas(ctx context.Context, filter dto.ReporteRangoFilter) (*dto.UbicacionesInvalidasResponse, error)
	VentasPorVendedor(ctx context.Context, filter dto.ReporteRangoFilter) (*dto.VentasPorVendedorResponse, error)
	ResumenCuadres(ctx context.Context) (*dto.ResumenCuadresResponse, error)
}

type reporteService struct {
	planRepo   repository.PlanificacionRepository
	ventaRepo  repository.VentaRepository
	cuadreRepo repository.CuadreRepository
	reloj      clock.Clock
}

func NewReporteService(
	planRepo repository.PlanificacionRepository,
	ventaRepo repository.VentaRepository,
	cuadreRepo repository.CuadreRepository,
	reloj clock.Clock,
) ReporteService {
	return &reporteService{planRepo: planRepo, ventaRepo: ventaRepo, cuadreRepo: cuadreRepo, reloj: reloj}
}

// rangoFechas resolves the report window, defaulting to the last 7 days.
func (s *reporteService) rangoFechas(filter dto.ReporteRangoFilter) (time.Time, time.Time, error) {
	hoy := s.reloj.Today()
	desde := hoy.AddDate(0, 0, -7)
	hasta := hoy
	var err error
	if filter.Desde != "" {
		if desde, err = time.Parse("2006-01-02", filter.Desde); err != nil {
			return desde, hasta, apierror.Validacion("desde invalida")
		}
	}
	if filter.Hasta != "" {
		if hasta, err = time.Parse("2006-01-02", filter.Hasta); err != nil {
			return desde, hasta, apierror.Validacion("hasta invalida")
		}
	}
	if hasta.Before(desde) {
		return desde, hasta, apierror.Validacion("hasta no puede ser anterior a desde")
	}
	return desde, hasta, nil
}

func (s *reporteService) FotosDuplicadas(ctx context.Context, filter dto.ReporteRangoFilter) (*dto.FotosDuplicadasResponse, error) {
	desde, hasta, err := s.rangoFechas(filter)
	if err != nil {
		return nil, err
	}
	detalles, err := s.planRepo.ListDetallesFotoDuplicada(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	resp := &dto.FotosDuplicadasResponse{
		Desde: desde.Format("2006-01-02"),
		Hasta: hasta.Format("2006-01-02"),
		Total: len(detalles),
	}
	// Group by hash preserving first-seen order.
	indice := make(map[string]int)
	for i := range detalles {
		d := &detalles[i]
		hash := ""
		if d.FotoHash != nil {
			hash = *d.FotoHash
		}
		pos, ok := indice[hash]
		if !ok {
			pos = len(resp.Grupos)
			indice[hash] = pos
			resp.Grupos = append(resp.Grupos, dto.GrupoFotoDuplicada{FotoHash: hash})
		}
		resp.Grupos[pos].Visitas = append(resp.Grupos[pos].Visitas, *auditoriaVisita(d))
	}
	return resp, nil
}

func (s *reporteService) UbicacionesInvalidas(ctx context.Context, filter dto.ReporteRangoFilter) (*dto.UbicacionesInvalidasResponse, error) {
	desde, hasta, err := s.rangoFechas(filter)
	if err != nil {
		return nil, err
	}
	detalles, err := s.planRepo.ListDetallesUbicacionInvalida(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	resp := &dto.UbicacionesInvalidasResponse{
		Desde:   desde.Format("2006-01-02"),
		Hasta:   hasta.Format("2006-01-02"),
		Total:   len(detalles),
		Visitas: make([]dto.AuditoriaVisitaResponse, 0, len(detalles)),
	}
	for i := range detalles {
		resp.Visitas = append(resp.Visitas, *auditoriaVisita(&detalles[i]))
	}
	return resp, nil
}

func (s *reporteService) VentasPorVendedor(ctx context.Context, filter dto.ReporteRangoFilter) (*dto.VentasPorVendedorResponse, error) {
	desde, hasta, err := s.rangoFechas(filter)
	if err != nil {
		return nil, err
	}
	filas, err := s.ventaRepo.TotalesPorVendedor(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for i := range filas {
		total = total.Add(filas[i].Total)
	}
	return &dto.VentasPorVendedorResponse{
		Desde:      desde.Format("2006-01-02"),
		Hasta:      hasta.Format("2006-01-02"),
		Filas:      filas,
		MontoTotal: total,
	}, nil
}

func (s *reporteService) ResumenCuadres(ctx context.Context) (*dto.ResumenCuadresResponse, error) {
	pendientes, err := s.cuadreRepo.CountPorEstado(ctx, model.CuadrePendiente)
	if err != nil {
		return nil, err
	}
	cuadrados, err := s.cuadreRepo.CountPorEstado(ctx, model.CuadreCuadrado)
	if err != nil {
		return nil, err
	}
	conDif, err := s.cuadreRepo.CountPorEstado(ctx, model.CuadreConDiferencia)
	if err != nil {
		return nil, err
	}
	return &dto.ResumenCuadresResponse{
		Pendientes:    pendientes,
		Cuadrados:     cuadrados,
		ConDiferencia: conDif,
	}, nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func auditoriaVisita(d *model.DetallePlanificacion) *dto.AuditoriaVisitaResponse {
	resp := &dto.AuditoriaVisitaResponse{
		DetalleID:       d.ID.String(),
		Estado:          string(d.Estado),
		FotoHash:        d.FotoHash,
		FotoDuplicada:   d.FotoDuplicada,
		UbicacionValida: d.UbicacionValida,
	}
	if p := d.Planificacion; p != nil {
		resp.Fecha = p.Fecha.Format("2006-01-02")
		if p.RutaDetalle != nil && p.RutaDetalle.Cliente != nil {
			resp.Cliente = p.RutaDetalle.Cliente.Nombre
		}
		if p.Asignacion != nil && p.Asignacion.Vendedor != nil {
			resp.Vendedor = p.Asignacion.Vendedor.NombreCompleto()
		}
	}
	return resp
}
