package service

import (
	"context"
	"time"

	"github.com/dizanrev24/control-rutas/internal/apierror"
	"github.com/dizanrev24/control-rutas/internal/clock"
	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/metrics"
	"github.com/dizanrev24/control-rutas/internal/model"
	"github.com/dizanrev24/control-rutas/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// maxDuracionAsignacionDias bounds closed assignment windows; open-ended
// windows are exempt because generation only covers the rolling horizon.
const maxDuracionAsignacionDias = 365

// AsignacionService owns the ruta-vendedor assignment lifecycle. Creating an
// assignment generates its visit plans in the same transaction; finalizing
// deactivates the vendedor account as a documented side effect.
type AsignacionService interface {
	Crear(ctx context.Context, req dto.CrearAsignacionRequest) (*dto.AsignacionResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.AsignacionResponse, error)
	Listar(ctx context.Context, filter dto.AsignacionFilter) (*dto.AsignacionListResponse, error)
	Finalizar(ctx context.Context, id uuid.UUID, req dto.FinalizarAsignacionRequest) (*dto.AsignacionResponse, error)
	Regenerar(ctx context.Context, id uuid.UUID, req dto.RegenerarPlanesRequest) (*dto.RegeneracionResponse, error)
}

type asignacionService struct {
	repo          repository.AsignacionRepository
	rutaRepo      repository.RutaRepository
	usuarioRepo   repository.UsuarioRepository
	planRepo      repository.PlanificacionRepository
	planificacion PlanificacionService
	reloj         clock.Clock
}

func NewAsignacionService(
	repo repository.AsignacionRepository,
	rutaRepo repository.RutaRepository,
	usuarioRepo repository.UsuarioRepository,
	planRepo repository.PlanificacionRepository,
	planificacion PlanificacionService,
	reloj clock.Clock,
) AsignacionService {
	return &asignacionService{
		repo:          repo,
		rutaRepo:      rutaRepo,
		usuarioRepo:   usuarioRepo,
		planRepo:      planRepo,
		planificacion: planificacion,
		reloj:         reloj,
	}
}

// ── Crear ────────────────────────────────────────────────────────────────────

func (s *asignacionService) Crear(ctx context.Context, req dto.CrearAsignacionRequest) (*dto.AsignacionResponse, error) {
	rutaID, err := uuid.Parse(req.RutaID)
	if err != nil {
		return nil, apierror.Validacion("ruta_id invalido")
	}
	vendedorID, err := uuid.Parse(req.VendedorID)
	if err != nil {
		return nil, apierror.Validacion("vendedor_id invalido")
	}

	vendedor, err := s.usuarioRepo.FindByID(ctx, vendedorID)
	if err != nil {
		return nil, apierror.NoEncontrado("vendedor no encontrado")
	}
	if vendedor.Rol != model.RolVendedor {
		return nil, apierror.Validacion("el usuario no tiene rol de vendedor")
	}
	if !vendedor.Activo {
		return nil, apierror.Validacion("el vendedor esta inactivo")
	}

	ruta, err := s.rutaRepo.FindByID(ctx, rutaID)
	if err != nil {
		return nil, apierror.NoEncontrado("ruta no encontrada")
	}
	if !ruta.Activo {
		return nil, apierror.Validacion("la ruta esta inactiva")
	}
	paradas, err := s.rutaRepo.CountParadasActivas(ctx, rutaID)
	if err != nil {
		return nil, err
	}
	if paradas == 0 {
		return nil, apierror.Validacion("la ruta no tiene paradas activas")
	}

	fechaInicio, fechaFin, err := parseVentanaFechas(req.FechaInicio, req.FechaFin)
	if err != nil {
		return nil, err
	}

	// Overlap check spans every historical window of the pair; the finalized
	// ones already carry a FechaFin so old windows rarely collide.
	existentes, err := s.repo.FindPorRutaVendedor(ctx, rutaID, vendedorID)
	if err != nil {
		return nil, err
	}
	for i := range existentes {
		if existentes[i].TraslapaCon(fechaInicio, fechaFin) {
			return nil, apierror.Conflicto("la asignacion se traslapa con una existente para la misma ruta y vendedor")
		}
	}

	asignacion := &model.Asignacion{
		RutaID:      rutaID,
		VendedorID:  vendedorID,
		FechaInicio: fechaInicio,
		FechaFin:    fechaFin,
		Activo:      true,
	}
	var generados int
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, asignacion); err != nil {
			return err
		}
		generados, err = s.planificacion.GenerarTx(tx, asignacion, fechaInicio)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.PlanificacionesGeneradas.Add(float64(generados))

	log.Info().
		Str("asignacion_id", asignacion.ID.String()).
		Str("ruta_id", rutaID.String()).
		Str("vendedor_id", vendedorID.String()).
		Int("planes", generados).
		Msg("asignacion creada")
	asignacion.Ruta = ruta
	asignacion.Vendedor = vendedor
	resp := asignacionToResponse(asignacion)
	resp.PlanesGenerados = generados
	return resp, nil
}

func parseVentanaFechas(inicio, fin string) (time.Time, *time.Time, error) {
	fechaInicio, err := time.Parse("2006-01-02", inicio)
	if err != nil {
		return time.Time{}, nil, apierror.Validacion("fecha_inicio invalida")
	}
	if fin == "" {
		return fechaInicio, nil, nil
	}
	fechaFin, err := time.Parse("2006-01-02", fin)
	if err != nil {
		return time.Time{}, nil, apierror.Validacion("fecha_fin invalida")
	}
	if fechaFin.Before(fechaInicio) {
		return time.Time{}, nil, apierror.Validacion("fecha_fin no puede ser anterior a fecha_inicio")
	}
	if fechaFin.Sub(fechaInicio) > maxDuracionAsignacionDias*24*time.Hour {
		return time.Time{}, nil, apierror.Validacion("la asignacion no puede durar mas de 365 dias")
	}
	return fechaInicio, &fechaFin, nil
}

// ── Lecturas ─────────────────────────────────────────────────────────────────

func (s *asignacionService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.AsignacionResponse, error) {
	asignacion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("asignacion no encontrada")
	}
	return asignacionToResponse(asignacion), nil
}

func (s *asignacionService) Listar(ctx context.Context, filter dto.AsignacionFilter) (*dto.AsignacionListResponse, error) {
	asignaciones, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.AsignacionListResponse{
		Data:  make([]dto.AsignacionResponse, 0, len(asignaciones)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range asignaciones {
		resp.Data = append(resp.Data, *asignacionToResponse(&asignaciones[i]))
	}
	return resp, nil
}

// ── Finalizar ────────────────────────────────────────────────────────────────

func (s *asignacionService) Finalizar(ctx context.Context, id uuid.UUID, req dto.FinalizarAsignacionRequest) (*dto.AsignacionResponse, error) {
	asignacion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("asignacion no encontrada")
	}
	if !asignacion.Activo {
		// Idempotent: finalizing twice is a no-op.
		return asignacionToResponse(asignacion), nil
	}

	fechaFin := s.reloj.Today()
	if req.FechaFin != "" {
		f, err := time.Parse("2006-01-02", req.FechaFin)
		if err != nil {
			return nil, apierror.Validacion("fecha_fin invalida")
		}
		fechaFin = f
	}
	if fechaFin.Before(asignacion.FechaInicio) {
		return nil, apierror.Validacion("fecha_fin no puede ser anterior a fecha_inicio")
	}

	asignacion.FechaFin = &fechaFin
	asignacion.Activo = false
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, asignacion); err != nil {
			return err
		}
		// Documented side effect: the vendedor account is deactivated with
		// its assignment so stale credentials stop working in the field.
		return s.usuarioRepo.SetActivoTx(tx, asignacion.VendedorID, false)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("asignacion_id", asignacion.ID.String()).
		Str("fecha_fin", fechaFin.Format("2006-01-02")).
		Msg("asignacion finalizada")
	return asignacionToResponse(asignacion), nil
}

// ── Regenerar ────────────────────────────────────────────────────────────────

// Regenerar drops future plans without a recorded visit and re-runs the
// generator from desde. Run it after editing the stop roster or to extend
// the rolling horizon of an open-ended assignment.
func (s *asignacionService) Regenerar(ctx context.Context, id uuid.UUID, req dto.RegenerarPlanesRequest) (*dto.RegeneracionResponse, error) {
	asignacion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("asignacion no encontrada")
	}
	if !asignacion.Activo {
		return nil, apierror.Estado("la asignacion ya fue finalizada")
	}

	hoy := s.reloj.Today()
	desde := hoy
	if req.Desde != "" {
		f, err := time.Parse("2006-01-02", req.Desde)
		if err != nil {
			return nil, apierror.Validacion("desde invalida")
		}
		// Plans already in the past are history, visited or not.
		if f.Before(hoy) {
			return nil, apierror.Validacion("desde no puede ser anterior a hoy")
		}
		desde = f
	}
	if desde.Before(asignacion.FechaInicio) {
		desde = asignacion.FechaInicio
	}

	var eliminados int64
	var generados int
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		eliminados, err = s.planRepo.DeleteFuturasSinVisitaTx(tx, asignacion.ID, desde)
		if err != nil {
			return err
		}
		generados, err = s.planificacion.GenerarTx(tx, asignacion, desde)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.PlanificacionesGeneradas.Add(float64(generados))

	log.Info().
		Str("asignacion_id", asignacion.ID.String()).
		Int64("eliminados", eliminados).
		Int("generados", generados).
		Msg("planes regenerados")
	return &dto.RegeneracionResponse{
		AsignacionID: asignacion.ID.String(),
		Eliminados:   eliminados,
		Generados:    generados,
	}, nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func asignacionToResponse(a *model.Asignacion) *dto.AsignacionResponse {
	resp := &dto.AsignacionResponse{
		ID:          a.ID.String(),
		RutaID:      a.RutaID.String(),
		VendedorID:  a.VendedorID.String(),
		FechaInicio: a.FechaInicio.Format("2006-01-02"),
		Activo:      a.Activo,
	}
	if a.FechaFin != nil {
		f := a.FechaFin.Format("2006-01-02")
		resp.FechaFin = &f
	}
	if a.Ruta != nil {
		resp.Ruta = a.Ruta.Nombre
	}
	if a.Vendedor != nil {
		resp.Vendedor = a.Vendedor.NombreCompleto()
	}
	return resp
}
