package service

import (
	"context"

	"github.com/dizanrev24/control-rutas/internal/apierror"
	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/model"
	"github.com/dizanrev24/control-rutas/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RutaService manages routes and their ordered client stops.
type RutaService interface {
	Crear(ctx context.Context, req dto.CrearRutaRequest) (*dto.RutaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.RutaResponse, error)
	Listar(ctx context.Context, filter dto.RutaFilter) (*dto.RutaListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarRutaRequest) (*dto.RutaResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	AgregarParada(ctx context.Context, rutaID uuid.UUID, req dto.AgregarParadaRequest) (*dto.ParadaResponse, error)
	QuitarParada(ctx context.Context, rutaID, paradaID uuid.UUID) error
	ReordenarParadas(ctx context.Context, rutaID uuid.UUID, req dto.ReordenarParadasRequest) error
	ListarParadas(ctx context.Context, rutaID uuid.UUID, soloActivas bool) ([]dto.ParadaResponse, error)
}

type rutaService struct {
	repo        repository.RutaRepository
	clienteRepo repository.ClienteRepository
}

func NewRutaService(repo repository.RutaRepository, clienteRepo repository.ClienteRepository) RutaService {
	return &rutaService{repo: repo, clienteRepo: clienteRepo}
}

// ── CRUD ─────────────────────────────────────────────────────────────────────

func (s *rutaService) Crear(ctx context.Context, req dto.CrearRutaRequest) (*dto.RutaResponse, error) {
	existe, err := s.repo.ExisteCodigo(ctx, req.Codigo)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, apierror.Conflicto("ya existe una ruta con codigo " + req.Codigo)
	}

	ruta := &model.Ruta{
		Codigo:      req.Codigo,
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, ruta); err != nil {
		return nil, err
	}
	log.Info().Str("ruta_id", ruta.ID.String()).Str("codigo", ruta.Codigo).Msg("ruta creada")
	return rutaToResponse(ruta, nil), nil
}

func (s *rutaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.RutaResponse, error) {
	ruta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("ruta no encontrada")
	}
	return rutaToResponse(ruta, ruta.Detalles), nil
}

func (s *rutaService) Listar(ctx context.Context, filter dto.RutaFilter) (*dto.RutaListResponse, error) {
	rutas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.RutaListResponse{
		Data:  make([]dto.RutaResponse, 0, len(rutas)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range rutas {
		resp.Data = append(resp.Data, *rutaToResponse(&rutas[i], nil))
	}
	return resp, nil
}

func (s *rutaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarRutaRequest) (*dto.RutaResponse, error) {
	ruta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("ruta no encontrada")
	}
	if req.Nombre != nil {
		ruta.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		ruta.Descripcion = req.Descripcion
	}
	if err := s.repo.Update(ctx, ruta); err != nil {
		return nil, err
	}
	return rutaToResponse(ruta, ruta.Detalles), nil
}

func (s *rutaService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NoEncontrado("ruta no encontrada")
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *rutaService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apierror.NoEncontrado("ruta no encontrada")
	}
	return s.repo.Reactivar(ctx, id)
}

// ── Paradas ──────────────────────────────────────────────────────────────────

func (s *rutaService) AgregarParada(ctx context.Context, rutaID uuid.UUID, req dto.AgregarParadaRequest) (*dto.ParadaResponse, error) {
	if _, err := s.repo.FindByID(ctx, rutaID); err != nil {
		return nil, apierror.NoEncontrado("ruta no encontrada")
	}
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, apierror.Validacion("cliente_id invalido")
	}
	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		return nil, apierror.NoEncontrado("cliente no encontrado")
	}
	if !cliente.Activo {
		return nil, apierror.Validacion("el cliente esta inactivo")
	}

	activas, err := s.repo.ListParadas(ctx, rutaID, true)
	if err != nil {
		return nil, err
	}
	for i := range activas {
		if activas[i].ClienteID == clienteID {
			return nil, apierror.Conflicto("el cliente ya tiene una parada en esta ruta")
		}
		if req.OrdenVisita > 0 && activas[i].OrdenVisita == req.OrdenVisita {
			return nil, apierror.Conflicto("el orden de visita ya esta ocupado en esta ruta")
		}
	}

	orden := req.OrdenVisita
	if orden == 0 {
		max, err := s.repo.MaxOrdenVisita(ctx, rutaID)
		if err != nil {
			return nil, err
		}
		orden = max + 1
	}

	// A client removed from the route earlier keeps its row; re-adding it
	// reactivates that row so historic planificaciones stay linked.
	if previa, err := s.repo.FindParadaPorCliente(ctx, rutaID, clienteID); err == nil && !previa.Activo {
		previa.Activo = true
		previa.OrdenVisita = orden
		if err := s.repo.UpdateParada(ctx, previa); err != nil {
			return nil, err
		}
		previa.Cliente = cliente
		return paradaToResponse(previa), nil
	}

	parada := &model.RutaDetalle{
		RutaID:      rutaID,
		ClienteID:   clienteID,
		OrdenVisita: orden,
		Activo:      true,
	}
	if err := s.repo.CreateParada(ctx, parada); err != nil {
		return nil, err
	}
	parada.Cliente = cliente
	log.Info().
		Str("ruta_id", rutaID.String()).
		Str("cliente_id", clienteID.String()).
		Int("orden", orden).
		Msg("parada agregada")
	return paradaToResponse(parada), nil
}

func (s *rutaService) QuitarParada(ctx context.Context, rutaID, paradaID uuid.UUID) error {
	parada, err := s.repo.FindParadaByID(ctx, paradaID)
	if err != nil {
		return apierror.NoEncontrado("parada no encontrada")
	}
	if parada.RutaID != rutaID {
		return apierror.NoEncontrado("parada no encontrada")
	}
	if !parada.Activo {
		return nil
	}
	return s.repo.DesactivarParada(ctx, paradaID)
}

func (s *rutaService) ReordenarParadas(ctx context.Context, rutaID uuid.UUID, req dto.ReordenarParadasRequest) error {
	if _, err := s.repo.FindByID(ctx, rutaID); err != nil {
		return apierror.NoEncontrado("ruta no encontrada")
	}
	activas, err := s.repo.ListParadas(ctx, rutaID, true)
	if err != nil {
		return err
	}

	// The new order must cover every active stop exactly once; a partial
	// list would leave the missing stops with corrupted positions.
	if len(req.Orden) != len(activas) {
		return apierror.Validacion("el orden debe incluir todas las paradas activas de la ruta")
	}
	ids := make([]uuid.UUID, 0, len(req.Orden))
	vistos := make(map[uuid.UUID]bool, len(req.Orden))
	for _, raw := range req.Orden {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apierror.Validacion("id de parada invalido: " + raw)
		}
		if vistos[id] {
			return apierror.Validacion("parada repetida en el orden")
		}
		vistos[id] = true
		ids = append(ids, id)
	}
	for i := range activas {
		if !vistos[activas[i].ID] {
			return apierror.Validacion("el orden debe incluir todas las paradas activas de la ruta")
		}
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.ReordenarParadasTx(tx, rutaID, ids)
	})
}

func (s *rutaService) ListarParadas(ctx context.Context, rutaID uuid.UUID, soloActivas bool) ([]dto.ParadaResponse, error) {
	if _, err := s.repo.FindByID(ctx, rutaID); err != nil {
		return nil, apierror.NoEncontrado("ruta no encontrada")
	}
	paradas, err := s.repo.ListParadas(ctx, rutaID, soloActivas)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ParadaResponse, 0, len(paradas))
	for i := range paradas {
		resp = append(resp, *paradaToResponse(&paradas[i]))
	}
	return resp, nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func rutaToResponse(rt *model.Ruta, paradas []model.RutaDetalle) *dto.RutaResponse {
	resp := &dto.RutaResponse{
		ID:          rt.ID.String(),
		Codigo:      rt.Codigo,
		Nombre:      rt.Nombre,
		Descripcion: rt.Descripcion,
		Activo:      rt.Activo,
	}
	for i := range paradas {
		resp.Paradas = append(resp.Paradas, *paradaToResponse(&paradas[i]))
	}
	return resp
}

func paradaToResponse(d *model.RutaDetalle) *dto.ParadaResponse {
	resp := &dto.ParadaResponse{
		ID:          d.ID.String(),
		ClienteID:   d.ClienteID.String(),
		OrdenVisita: d.OrdenVisita,
		Activo:      d.Activo,
	}
	if d.Cliente != nil {
		resp.Cliente = d.Cliente.Nombre
		resp.Direccion = d.Cliente.Direccion
		resp.Latitud = d.Cliente.Latitud
		resp.Longitud = d.Cliente.Longitud
	}
	return resp
}
