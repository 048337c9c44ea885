package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dizanrev24/control-rutas/internal/apierror"
	"github.com/dizanrev24/control-rutas/internal/clock"
	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/metrics"
	"github.com/dizanrev24/control-rutas/internal/model"
	"github.com/dizanrev24/control-rutas/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PlanificacionService generates the per-day visit plans of an assignment
// and serves the vendedor's daily agenda. Generation always runs inside the
// caller's transaction: creating or regenerating an asignacion either
// commits with its full plan or not at all.
type PlanificacionService interface {
	// GenerarTx walks every day of the window and every active stop of the
	// route, upserting one plan per (day, stop). Returns how many rows were
	// newly created; already existing plans are left untouched.
	GenerarTx(tx *gorm.DB, asignacion *model.Asignacion, desde time.Time) (int, error)
	Agenda(ctx context.Context, vendedorID uuid.UUID, fecha time.Time) (*dto.AgendaResponse, error)
	// RegistrarClienteNuevo captures a client the vendedor found on the road:
	// cliente, stop at the end of the route and an unscheduled plan for today
	// are created in one transaction.
	RegistrarClienteNuevo(ctx context.Context, vendedorID uuid.UUID, req dto.ClienteNuevoVendedorRequest) (*dto.VisitaNoPlanificadaResponse, error)
}

type planificacionService struct {
	repo           repository.PlanificacionRepository
	rutaRepo       repository.RutaRepository
	clienteRepo    repository.ClienteRepository
	usuarioRepo    repository.UsuarioRepository
	asignacionRepo repository.AsignacionRepository
	rdb            *redis.Client
	reloj          clock.Clock
	horizonteDias  int
	cacheTTL       time.Duration
}

func NewPlanificacionService(
	repo repository.PlanificacionRepository,
	rutaRepo repository.RutaRepository,
	clienteRepo repository.ClienteRepository,
	usuarioRepo repository.UsuarioRepository,
	asignacionRepo repository.AsignacionRepository,
	rdb *redis.Client,
	reloj clock.Clock,
	horizonteDias int,
	cacheTTL time.Duration,
) PlanificacionService {
	return &planificacionService{
		repo:           repo,
		rutaRepo:       rutaRepo,
		clienteRepo:    clienteRepo,
		usuarioRepo:    usuarioRepo,
		asignacionRepo: asignacionRepo,
		rdb:            rdb,
		reloj:          reloj,
		horizonteDias:  horizonteDias,
		cacheTTL:       cacheTTL,
	}
}

// ── GenerarTx ────────────────────────────────────────────────────────────────

func (s *planificacionService) GenerarTx(tx *gorm.DB, asignacion *model.Asignacion, desde time.Time) (int, error) {
	paradas, err := s.rutaRepo.ListParadasTx(tx, asignacion.RutaID, true)
	if err != nil {
		return 0, err
	}
	if len(paradas) == 0 {
		return 0, apierror.Validacion("la ruta no tiene paradas activas")
	}

	desde = clock.Fecha(desde)
	// Open-ended assignments plan a rolling horizon; regenerate extends it.
	hasta := desde.AddDate(0, 0, s.horizonteDias)
	if asignacion.FechaFin != nil {
		hasta = clock.Fecha(*asignacion.FechaFin)
	}

	creados := 0
	for dia := desde; !dia.After(hasta); dia = dia.AddDate(0, 0, 1) {
		for i := range paradas {
			plan := &model.Planificacion{
				AsignacionID:  asignacion.ID,
				RutaDetalleID: paradas[i].ID,
				Fecha:         dia,
				Tipo:          model.PlanProgramada,
			}
			creado, err := s.repo.GetOrCreateTx(tx, plan)
			if err != nil {
				return creados, err
			}
			if creado {
				creados++
			}
		}
	}
	log.Info().
		Str("asignacion_id", asignacion.ID.String()).
		Str("desde", desde.Format("2006-01-02")).
		Str("hasta", hasta.Format("2006-01-02")).
		Int("creados", creados).
		Msg("planificaciones generadas")
	return creados, nil
}

// ── Agenda ───────────────────────────────────────────────────────────────────

func (s *planificacionService) Agenda(ctx context.Context, vendedorID uuid.UUID, fecha time.Time) (*dto.AgendaResponse, error) {
	vendedor, err := s.usuarioRepo.FindByID(ctx, vendedorID)
	if err != nil {
		return nil, apierror.NoEncontrado("vendedor no encontrado")
	}
	if vendedor.Rol != model.RolVendedor {
		return nil, apierror.Validacion("el usuario no es un vendedor")
	}

	if fecha.IsZero() {
		fecha = s.reloj.Today()
	}
	fecha = clock.Fecha(fecha)

	// The roster query with its preloads is the expensive part; the agenda
	// changes only when a visit of the day mutates, which invalidates it.
	cacheKey := claveAgenda(vendedorID, fecha)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.AgendaResponse
			if json.Unmarshal(cached, &resp) == nil {
				return &resp, nil
			}
		}
	}

	planes, err := s.repo.ListPorVendedorFecha(ctx, vendedorID, fecha)
	if err != nil {
		return nil, err
	}

	resp := &dto.AgendaResponse{
		Fecha:    fecha.Format("2006-01-02"),
		Vendedor: vendedor.NombreCompleto(),
		Visitas:  make([]dto.AgendaItemResponse, 0, len(planes)),
	}
	for i := range planes {
		item := agendaItem(&planes[i])
		resp.Visitas = append(resp.Visitas, item)

		resp.Resumen.Total++
		switch model.EstadoVisita(item.Estado) {
		case model.VisitaVisitado:
			resp.Resumen.Visitados++
		case model.VisitaNoVisitado:
			resp.Resumen.NoVisitados++
		case model.VisitaNegocioCerrado:
			resp.Resumen.NegociosCerrados++
		default:
			resp.Resumen.Pendientes++
		}
	}

	// Populate cache best effort, ignore errors.
	if s.rdb != nil {
		if b, err := json.Marshal(resp); err == nil {
			_ = s.rdb.Set(context.Background(), cacheKey, b, s.cacheTTL).Err()
		}
	}
	return resp, nil
}

// claveAgenda is the redis key under which a vendedor's agenda for one day
// is cached.
func claveAgenda(vendedorID uuid.UUID, fecha time.Time) string {
	return "agenda:" + vendedorID.String() + ":" + fecha.Format("2006-01-02")
}

// invalidarCacheAgenda drops the cached agenda after a visit or plan
// mutation. Best effort: a stale entry expires on its own TTL anyway.
func invalidarCacheAgenda(rdb *redis.Client, vendedorID uuid.UUID, fecha time.Time) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(context.Background(), claveAgenda(vendedorID, fecha)).Err(); err != nil {
		log.Warn().Err(err).Str("vendedor_id", vendedorID.String()).Msg("no se pudo invalidar cache de agenda")
	}
}

// ── RegistrarClienteNuevo ────────────────────────────────────────────────────

func (s *planificacionService) RegistrarClienteNuevo(ctx context.Context, vendedorID uuid.UUID, req dto.ClienteNuevoVendedorRequest) (*dto.VisitaNoPlanificadaResponse, error) {
	if (req.Latitud == nil) != (req.Longitud == nil) {
		return nil, apierror.Validacion("latitud y longitud deben enviarse juntas")
	}
	asignacion, err := s.asignacionRepo.FindActivaPorVendedor(ctx, vendedorID)
	if err != nil {
		return nil, apierror.Validacion("no tienes una ruta asignada actualmente")
	}

	hoy := s.reloj.Today()
	cliente := &model.Cliente{
		Nombre:    req.Nombre,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
		NIT:       req.NIT,
		Latitud:   req.Latitud,
		Longitud:  req.Longitud,
		Activo:    true,
	}
	var parada *model.RutaDetalle
	var plan *model.Planificacion

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.clienteRepo.CreateTx(tx, cliente); err != nil {
			return err
		}
		max, err := s.rutaRepo.MaxOrdenVisitaTx(tx, asignacion.RutaID)
		if err != nil {
			return err
		}
		parada = &model.RutaDetalle{
			RutaID:      asignacion.RutaID,
			ClienteID:   cliente.ID,
			OrdenVisita: max + 1,
			Activo:      true,
		}
		if err := s.rutaRepo.CreateParadaTx(tx, parada); err != nil {
			return err
		}
		plan = &model.Planificacion{
			AsignacionID:  asignacion.ID,
			RutaDetalleID: parada.ID,
			Fecha:         hoy,
			Tipo:          model.PlanNoProgramada,
		}
		_, err = s.repo.GetOrCreateTx(tx, plan)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.PlanificacionesGeneradas.Inc()
	invalidarCacheAgenda(s.rdb, vendedorID, hoy)
	log.Info().
		Str("vendedor_id", vendedorID.String()).
		Str("cliente_id", cliente.ID.String()).
		Str("planificacion_id", plan.ID.String()).
		Msg("cliente nuevo registrado en ruta")
	return &dto.VisitaNoPlanificadaResponse{
		ClienteID:       cliente.ID.String(),
		RutaDetalleID:   parada.ID.String(),
		PlanificacionID: plan.ID.String(),
		OrdenVisita:     parada.OrdenVisita,
		Fecha:           hoy.Format("2006-01-02"),
	}, nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func agendaItem(p *model.Planificacion) dto.AgendaItemResponse {
	item := dto.AgendaItemResponse{
		PlanificacionID: p.ID.String(),
		Tipo:            string(p.Tipo),
		Estado:          string(model.VisitaPendiente),
	}
	if p.RutaDetalle != nil {
		item.OrdenVisita = p.RutaDetalle.OrdenVisita
		if p.RutaDetalle.Cliente != nil {
			c := p.RutaDetalle.Cliente
			item.ClienteID = c.ID.String()
			item.Cliente = c.Nombre
			item.Direccion = c.Direccion
			item.Telefono = c.Telefono
			item.Latitud = c.Latitud
			item.Longitud = c.Longitud
		}
	}
	// The visit record is created lazily: a plan without one is pendiente.
	if p.Detalle != nil {
		item.Estado = string(p.Detalle.Estado)
		item.Observaciones = p.Detalle.Observaciones
		item.HoraLlegada = formatearHora(p.Detalle.HoraLlegada)
		item.HoraSalida = formatearHora(p.Detalle.HoraSalida)
	}
	return item
}

func formatearHora(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
