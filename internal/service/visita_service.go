package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/dizanrev24/control-rutas/internal/apierror"
	"github.com/dizanrev24/control-rutas/internal/clock"
	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/geo"
	"github.com/dizanrev24/control-rutas/internal/metrics"
	"github.com/dizanrev24/control-rutas/internal/model"
	"github.com/dizanrev24/control-rutas/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// FotoStore persists check-in photos. The disk implementation lives in infra;
// tests substitute an in-memory one.
type FotoStore interface {
	Guardar(relPath string, contenido []byte) error
}

// FotoSubida is the uploaded check-in photo as received by the handler.
type FotoSubida struct {
	Nombre    string
	Contenido []byte
}

// VisitaService drives the visit state machine: check-in with photo and
// location capture, check-out, and terminal skip states. The photo hash and
// geofence checks are informational flags for later audit, never blockers.
type VisitaService interface {
	// Iniciar opens the visit. Calling it again while the visit is active
	// returns the existing record unchanged so a reconnecting client resumes
	// instead of duplicating.
	Iniciar(ctx context.Context, vendedorID, planID uuid.UUID, req dto.IniciarVisitaRequest, foto *FotoSubida) (*dto.VisitaResponse, error)
	Finalizar(ctx context.Context, vendedorID, detalleID uuid.UUID, req dto.FinalizarVisitaRequest) (*dto.VisitaResponse, error)
	MarcarNoVisita(ctx context.Context, vendedorID, planID uuid.UUID, req dto.MarcarNoVisitaRequest) (*dto.VisitaResponse, error)
	ObtenerDetalle(ctx context.Context, vendedorID, detalleID uuid.UUID) (*dto.VisitaResponse, error)
}

type visitaService struct {
	repo         repository.PlanificacionRepository
	fotos        FotoStore
	rdb          *redis.Client
	reloj        clock.Clock
	margenMetros float64
}

func NewVisitaService(repo repository.PlanificacionRepository, fotos FotoStore, rdb *redis.Client, reloj clock.Clock, margenMetros float64) VisitaService {
	return &visitaService{repo: repo, fotos: fotos, rdb: rdb, reloj: reloj, margenMetros: margenMetros}
}

// ── Iniciar ──────────────────────────────────────────────────────────────────

func (s *visitaService) Iniciar(ctx context.Context, vendedorID, planID uuid.UUID, req dto.IniciarVisitaRequest, foto *FotoSubida) (*dto.VisitaResponse, error) {
	if (req.Latitud == nil) != (req.Longitud == nil) {
		return nil, apierror.Validacion("latitud y longitud deben enviarse juntas")
	}
	plan, err := s.repo.FindByID(ctx, planID)
	if err != nil {
		return nil, apierror.NoEncontrado("planificacion no encontrada")
	}
	if plan.Asignacion == nil || plan.Asignacion.VendedorID != vendedorID {
		return nil, apierror.Prohibido("la visita pertenece a otro vendedor")
	}

	detalle := &model.DetallePlanificacion{
		PlanificacionID: planID,
		Estado:          model.VisitaPendiente,
	}
	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		_, err := s.repo.GetOrCreateDetalleTx(tx, detalle)
		return err
	}); err != nil {
		return nil, err
	}

	if detalle.VisitaActiva() {
		// Resume: the vendedor already checked in and lost the session.
		return visitaToResponse(detalle, plan), nil
	}
	if detalle.EstadoTerminal() {
		return nil, apierror.Estado("la visita ya fue completada hoy")
	}

	ahora := s.reloj.Now()
	detalle.HoraLlegada = &ahora
	detalle.Estado = model.VisitaVisitado
	detalle.Latitud = req.Latitud
	detalle.Longitud = req.Longitud

	if foto != nil && len(foto.Contenido) > 0 {
		if err := s.procesarFoto(ctx, detalle, plan, foto); err != nil {
			return nil, err
		}
	}

	var cliente *model.Cliente
	if plan.RutaDetalle != nil {
		cliente = plan.RutaDetalle.Cliente
	}
	if cliente != nil && cliente.TieneCoordenadas() && req.Latitud != nil {
		valida := geo.UbicacionValida(*cliente.Latitud, *cliente.Longitud, *req.Latitud, *req.Longitud, s.margenMetros)
		detalle.UbicacionValida = &valida
		if !valida {
			log.Warn().
				Str("detalle_id", detalle.ID.String()).
				Float64("distancia_max_m", s.margenMetros).
				Msg("check-in fuera de la geocerca del cliente")
		}
	}

	if err := s.repo.UpdateDetalle(ctx, detalle); err != nil {
		return nil, err
	}
	metrics.VisitasRegistradas.WithLabelValues(string(model.VisitaVisitado)).Inc()
	invalidarCacheAgenda(s.rdb, vendedorID, plan.Fecha)
	log.Info().
		Str("detalle_id", detalle.ID.String()).
		Str("planificacion_id", planID.String()).
		Bool("foto_duplicada", detalle.FotoDuplicada).
		Msg("visita iniciada")
	return visitaToResponse(detalle, plan), nil
}

// procesarFoto hashes, duplicate-checks and persists the check-in photo.
// A hash match anywhere in the system flags the visit for audit; it does
// not reject the check-in.
func (s *visitaService) procesarFoto(ctx context.Context, detalle *model.DetallePlanificacion, plan *model.Planificacion, foto *FotoSubida) error {
	suma := md5.Sum(foto.Contenido)
	hash := hex.EncodeToString(suma[:])

	duplicada, err := s.repo.ExisteFotoHash(ctx, hash, detalle.ID)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(foto.Nombre))
	if ext == "" {
		ext = ".jpg"
	}
	relPath := filepath.Join("visitas", plan.Fecha.Format("2006/01/02"), detalle.ID.String()+ext)
	if err := s.fotos.Guardar(relPath, foto.Contenido); err != nil {
		return err
	}

	detalle.FotoPath = &relPath
	detalle.FotoHash = &hash
	detalle.FotoDuplicada = duplicada
	if duplicada {
		metrics.FotosDuplicadas.Inc()
	}
	return nil
}

// ── Finalizar ────────────────────────────────────────────────────────────────

func (s *visitaService) Finalizar(ctx context.Context, vendedorID, detalleID uuid.UUID, req dto.FinalizarVisitaRequest) (*dto.VisitaResponse, error) {
	detalle, err := s.repo.FindDetalleByID(ctx, detalleID)
	if err != nil {
		return nil, apierror.NoEncontrado("visita no encontrada")
	}
	if err := visitaDelVendedor(detalle, vendedorID); err != nil {
		return nil, err
	}
	if !detalle.VisitaActiva() {
		return nil, apierror.Estado("no hay una visita activa para finalizar")
	}

	ahora := s.reloj.Now()
	detalle.HoraSalida = &ahora
	if req.Observaciones != "" {
		if detalle.Observaciones == "" {
			detalle.Observaciones = "[Cierre] " + req.Observaciones
		} else {
			detalle.Observaciones += "\n[Cierre] " + req.Observaciones
		}
	}

	if err := s.repo.UpdateDetalle(ctx, detalle); err != nil {
		return nil, err
	}
	invalidarCacheAgenda(s.rdb, vendedorID, detalle.Planificacion.Fecha)
	log.Info().Str("detalle_id", detalle.ID.String()).Msg("visita finalizada")
	return visitaToResponse(detalle, detalle.Planificacion), nil
}

// ── MarcarNoVisita ───────────────────────────────────────────────────────────

func (s *visitaService) MarcarNoVisita(ctx context.Context, vendedorID, planID uuid.UUID, req dto.MarcarNoVisitaRequest) (*dto.VisitaResponse, error) {
	plan, err := s.repo.FindByID(ctx, planID)
	if err != nil {
		return nil, apierror.NoEncontrado("planificacion no encontrada")
	}
	if plan.Asignacion == nil || plan.Asignacion.VendedorID != vendedorID {
		return nil, apierror.Prohibido("la visita pertenece a otro vendedor")
	}

	detalle := &model.DetallePlanificacion{
		PlanificacionID: planID,
		Estado:          model.VisitaPendiente,
	}
	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		_, err := s.repo.GetOrCreateDetalleTx(tx, detalle)
		return err
	}); err != nil {
		return nil, err
	}

	// Skipping only applies to stops never checked into: an active or
	// completed visit cannot be retroactively declared not visited.
	if detalle.Estado != model.VisitaPendiente || detalle.HoraLlegada != nil {
		return nil, apierror.Estado("solo una visita pendiente puede marcarse como no realizada")
	}

	detalle.Estado = model.EstadoVisita(req.Estado)
	detalle.Observaciones = req.Motivo
	if err := s.repo.UpdateDetalle(ctx, detalle); err != nil {
		return nil, err
	}
	metrics.VisitasRegistradas.WithLabelValues(req.Estado).Inc()
	invalidarCacheAgenda(s.rdb, vendedorID, plan.Fecha)
	log.Info().
		Str("detalle_id", detalle.ID.String()).
		Str("estado", req.Estado).
		Msg("parada marcada sin visita")
	return visitaToResponse(detalle, plan), nil
}

// ── Lectura ──────────────────────────────────────────────────────────────────

func (s *visitaService) ObtenerDetalle(ctx context.Context, vendedorID, detalleID uuid.UUID) (*dto.VisitaResponse, error) {
	detalle, err := s.repo.FindDetalleByID(ctx, detalleID)
	if err != nil {
		return nil, apierror.NoEncontrado("visita no encontrada")
	}
	if err := visitaDelVendedor(detalle, vendedorID); err != nil {
		return nil, err
	}
	return visitaToResponse(detalle, detalle.Planificacion), nil
}

func visitaDelVendedor(d *model.DetallePlanificacion, vendedorID uuid.UUID) error {
	if d.Planificacion == nil || d.Planificacion.Asignacion == nil ||
		d.Planificacion.Asignacion.VendedorID != vendedorID {
		return apierror.Prohibido("la visita pertenece a otro vendedor")
	}
	return nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func visitaToResponse(d *model.DetallePlanificacion, plan *model.Planificacion) *dto.VisitaResponse {
	resp := &dto.VisitaResponse{
		DetalleID:       d.ID.String(),
		PlanificacionID: d.PlanificacionID.String(),
		Estado:          string(d.Estado),
		HoraLlegada:     formatearHora(d.HoraLlegada),
		HoraSalida:      formatearHora(d.HoraSalida),
		Latitud:         d.Latitud,
		Longitud:        d.Longitud,
		FotoDuplicada:   d.FotoDuplicada,
		UbicacionValida: d.UbicacionValida,
		Observaciones:   d.Observaciones,
	}
	if plan != nil && plan.RutaDetalle != nil && plan.RutaDetalle.Cliente != nil {
		resp.Cliente = plan.RutaDetalle.Cliente.Nombre
	}
	return resp
}
