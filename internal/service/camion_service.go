package service

import (
	"context"

	"github.com/dizanrev24/control-rutas/internal/apierror"
	"github.com/dizanrev24/control-rutas/internal/clock"
	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/model"
	"github.com/dizanrev24/control-rutas/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CamionService manages the truck fleet and the camion-ruta bindings that
// route the day's carga to the vendedor selling on it.
type CamionService interface {
	Crear(ctx context.Context, req dto.CrearCamionRequest) (*dto.CamionResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CamionResponse, error)
	Listar(ctx context.Context, filter dto.CamionFilter) (*dto.CamionListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCamionRequest) (*dto.CamionResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error

	AsignarRuta(ctx context.Context, camionID uuid.UUID, req dto.AsignarRutaRequest) (*dto.AsignacionCamionRutaResponse, error)
	ObtenerAsignacionActiva(ctx context.Context, camionID uuid.UUID) (*dto.AsignacionCamionRutaResponse, error)
}

type camionService struct {
	repo     repository.CamionRepository
	rutaRepo repository.RutaRepository
	reloj    clock.Clock
}

func NewCamionService(repo repository.CamionRepository, rutaRepo repository.RutaRepository, reloj clock.Clock) CamionService {
	return &camionService{repo: repo, rutaRepo: rutaRepo, reloj: reloj}
}

// ── CRUD ─────────────────────────────────────────────────────────────────────

func (s *camionService) Crear(ctx context.Context, req dto.CrearCamionRequest) (*dto.CamionResponse, error) {
	existe, err := s.repo.ExistePlaca(ctx, req.Placa)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, apierror.Conflicto("ya existe un camion con placa " + req.Placa)
	}

	camion := &model.Camion{
		Placa:       req.Placa,
		Marca:       req.Marca,
		Modelo:      req.Modelo,
		CapacidadKg: req.CapacidadKg,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, camion); err != nil {
		return nil, err
	}
	log.Info().Str("camion_id", camion.ID.String()).Str("placa", camion.Placa).Msg("camion creado")
	return camionToResponse(camion), nil
}

func (s *camionService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CamionResponse, error) {
	camion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("camion no encontrado")
	}
	return camionToResponse(camion), nil
}

func (s *camionService) Listar(ctx context.Context, filter dto.CamionFilter) (*dto.CamionListResponse, error) {
	camiones, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.CamionListResponse{
		Data:  make([]dto.CamionResponse, 0, len(camiones)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range camiones {
		resp.Data = append(resp.Data, *camionToResponse(&camiones[i]))
	}
	return resp, nil
}

func (s *camionService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCamionRequest) (*dto.CamionResponse, error) {
	camion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("camion no encontrado")
	}
	if req.Marca != nil {
		camion.Marca = *req.Marca
	}
	if req.Modelo != nil {
		camion.Modelo = *req.Modelo
	}
	if req.CapacidadKg != nil {
		camion.CapacidadKg = *req.CapacidadKg
	}
	if err := s.repo.Update(ctx, camion); err != nil {
		return nil, err
	}
	return camionToResponse(camion), nil
}

func (s *camionService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NoEncontrado("camion no encontrado")
	}
	return s.repo.SoftDelete(ctx, id)
}

// ── Asignacion camion-ruta ───────────────────────────────────────────────────

// AsignarRuta replaces, atomically, whatever binding the route or the truck
// had: at most one active binding per route and per truck at any time.
func (s *camionService) AsignarRuta(ctx context.Context, camionID uuid.UUID, req dto.AsignarRutaRequest) (*dto.AsignacionCamionRutaResponse, error) {
	camion, err := s.repo.FindByID(ctx, camionID)
	if err != nil {
		return nil, apierror.NoEncontrado("camion no encontrado")
	}
	if !camion.Activo {
		return nil, apierror.Validacion("el camion esta inactivo")
	}
	rutaID, err := uuid.Parse(req.RutaID)
	if err != nil {
		return nil, apierror.Validacion("ruta_id invalido")
	}
	ruta, err := s.rutaRepo.FindByID(ctx, rutaID)
	if err != nil {
		return nil, apierror.NoEncontrado("ruta no encontrada")
	}
	if !ruta.Activo {
		return nil, apierror.Validacion("la ruta esta inactiva")
	}

	asignacion := &model.AsignacionCamionRuta{
		CamionID:        camionID,
		RutaID:          rutaID,
		FechaAsignacion: s.reloj.Today(),
		Activo:          true,
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DesactivarAsignacionesPorRutaTx(tx, rutaID); err != nil {
			return err
		}
		if err := s.repo.DesactivarAsignacionesPorCamionTx(tx, camionID); err != nil {
			return err
		}
		return s.repo.CreateAsignacionRutaTx(tx, asignacion)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("camion_id", camionID.String()).
		Str("ruta_id", rutaID.String()).
		Msg("camion asignado a ruta")
	asignacion.Camion = camion
	asignacion.Ruta = ruta
	return asignacionCamionToResponse(asignacion), nil
}

func (s *camionService) ObtenerAsignacionActiva(ctx context.Context, camionID uuid.UUID) (*dto.AsignacionCamionRutaResponse, error) {
	if _, err := s.repo.FindByID(ctx, camionID); err != nil {
		return nil, apierror.NoEncontrado("camion no encontrado")
	}
	asignacion, err := s.repo.FindAsignacionActivaPorCamion(ctx, camionID)
	if err != nil {
		return nil, apierror.NoEncontrado("el camion no tiene ruta asignada")
	}
	return asignacionCamionToResponse(asignacion), nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func camionToResponse(c *model.Camion) *dto.CamionResponse {
	return &dto.CamionResponse{
		ID:          c.ID.String(),
		Placa:       c.Placa,
		Marca:       c.Marca,
		Modelo:      c.Modelo,
		CapacidadKg: c.CapacidadKg,
		Activo:      c.Activo,
	}
}

func asignacionCamionToResponse(a *model.AsignacionCamionRuta) *dto.AsignacionCamionRutaResponse {
	resp := &dto.AsignacionCamionRutaResponse{
		ID:              a.ID.String(),
		CamionID:        a.CamionID.String(),
		RutaID:          a.RutaID.String(),
		FechaAsignacion: a.FechaAsignacion.Format("2006-01-02"),
		Activo:          a.Activo,
	}
	if a.Camion != nil {
		resp.Placa = a.Camion.Placa
	}
	if a.Ruta != nil {
		resp.Ruta = a.Ruta.Nombre
	}
	return resp
}
