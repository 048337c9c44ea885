package service

import (
	"context"
	"time"

	"github.com/dizanrev24/control-rutas/internal/apierror"
	"github.com/dizanrev24/control-rutas/internal/clock"
	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/model"
	"github.com/dizanrev24/control-rutas/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CargaService is the truck inventory ledger: the secretaria loads products
// onto a truck in the morning, ventas decrement the lines during the day and
// the cuadre reads the remains after close.
type CargaService interface {
	Crear(ctx context.Context, req dto.CrearCargaRequest) (*dto.CargaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CargaResponse, error)
	Listar(ctx context.Context, filter dto.CargaFilter) (*dto.CargaListResponse, error)
	AgregarProducto(ctx context.Context, cargaID uuid.UUID, req dto.AgregarProductoCargaRequest) (*dto.CargaResponse, error)
	EliminarProducto(ctx context.Context, cargaID, productoID uuid.UUID) error
	Cerrar(ctx context.Context, id uuid.UUID) (*dto.CargaResponse, error)

	// ResolverCargaPorRuta walks ruta -> camion asignado -> carga abierta del
	// dia. Ventas and the price check resolve their stock through it.
	ResolverCargaPorRuta(ctx context.Context, rutaID uuid.UUID, fecha time.Time) (*model.CargaCamion, error)
}

type cargaService struct {
	repo         repository.CargaRepository
	camionRepo   repository.CamionRepository
	productoRepo repository.ProductoRepository
	reloj        clock.Clock
}

func NewCargaService(
	repo repository.CargaRepository,
	camionRepo repository.CamionRepository,
	productoRepo repository.ProductoRepository,
	reloj clock.Clock,
) CargaService {
	return &cargaService{repo: repo, camionRepo: camionRepo, productoRepo: productoRepo, reloj: reloj}
}

// ── Crear ────────────────────────────────────────────────────────────────────

func (s *cargaService) Crear(ctx context.Context, req dto.CrearCargaRequest) (*dto.CargaResponse, error) {
	camionID, err := uuid.Parse(req.CamionID)
	if err != nil {
		return nil, apierror.Validacion("camion_id invalido")
	}
	camion, err := s.camionRepo.FindByID(ctx, camionID)
	if err != nil {
		return nil, apierror.NoEncontrado("camion no encontrado")
	}
	if !camion.Activo {
		return nil, apierror.Validacion("el camion esta inactivo")
	}
	// The carga belongs to the route the truck serves; without a binding
	// there is no vendedor who could sell it.
	binding, err := s.camionRepo.FindAsignacionActivaPorCamion(ctx, camionID)
	if err != nil {
		return nil, apierror.Validacion("el camion no tiene una ruta asignada")
	}

	fecha := s.reloj.Today()
	if req.Fecha != "" {
		f, err := time.Parse("2006-01-02", req.Fecha)
		if err != nil {
			return nil, apierror.Validacion("fecha invalida")
		}
		fecha = f
	}

	existe, err := s.repo.ExistePorCamionFecha(ctx, camionID, fecha)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, apierror.Conflicto("ya existe una carga para el camion en esa fecha")
	}

	carga := &model.CargaCamion{
		CamionID:               camionID,
		AsignacionCamionRutaID: binding.ID,
		Fecha:                  fecha,
		Cerrada:                false,
	}
	if err := s.repo.Create(ctx, carga); err != nil {
		return nil, err
	}
	log.Info().
		Str("carga_id", carga.ID.String()).
		Str("camion_id", camionID.String()).
		Str("fecha", fecha.Format("2006-01-02")).
		Msg("carga creada")
	carga.Camion = camion
	return cargaToResponse(carga), nil
}

// ── Lecturas ─────────────────────────────────────────────────────────────────

func (s *cargaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CargaResponse, error) {
	carga, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("carga no encontrada")
	}
	return cargaToResponse(carga), nil
}

func (s *cargaService) Listar(ctx context.Context, filter dto.CargaFilter) (*dto.CargaListResponse, error) {
	cargas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.CargaListResponse{
		Data:  make([]dto.CargaResponse, 0, len(cargas)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range cargas {
		resp.Data = append(resp.Data, *cargaToResponse(&cargas[i]))
	}
	return resp, nil
}

// ── Lineas ───────────────────────────────────────────────────────────────────

func (s *cargaService) AgregarProducto(ctx context.Context, cargaID uuid.UUID, req dto.AgregarProductoCargaRequest) (*dto.CargaResponse, error) {
	carga, err := s.repo.FindByID(ctx, cargaID)
	if err != nil {
		return nil, apierror.NoEncontrado("carga no encontrada")
	}
	if carga.Cerrada {
		return nil, apierror.Estado("la carga ya esta cerrada")
	}
	if !req.Cantidad.IsPositive() {
		return nil, apierror.Validacion("la cantidad debe ser mayor a cero")
	}

	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, apierror.Validacion("producto_id invalido")
	}
	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, apierror.NoEncontrado("producto no encontrado")
	}
	if !producto.Vendible() {
		return nil, apierror.Validacion("el producto no esta activo")
	}

	if _, err := s.repo.FindDetalle(ctx, cargaID, productoID); err == nil {
		return nil, apierror.Conflicto("el producto ya esta cargado en el camion")
	}

	detalle := &model.CargaCamionDetalle{
		CargaCamionID:   cargaID,
		ProductoID:      productoID,
		CantidadCargada: req.Cantidad,
		CantidadActual:  req.Cantidad,
	}
	if err := s.repo.CreateDetalle(ctx, detalle); err != nil {
		return nil, err
	}
	log.Info().
		Str("carga_id", cargaID.String()).
		Str("producto_id", productoID.String()).
		Str("cantidad", req.Cantidad.String()).
		Msg("producto cargado al camion")

	carga, err = s.repo.FindByID(ctx, cargaID)
	if err != nil {
		return nil, err
	}
	return cargaToResponse(carga), nil
}

func (s *cargaService) EliminarProducto(ctx context.Context, cargaID, productoID uuid.UUID) error {
	carga, err := s.repo.FindByID(ctx, cargaID)
	if err != nil {
		return apierror.NoEncontrado("carga no encontrada")
	}
	if carga.Cerrada {
		return apierror.Estado("la carga ya esta cerrada")
	}
	detalle, err := s.repo.FindDetalle(ctx, cargaID, productoID)
	if err != nil {
		return apierror.NoEncontrado("el producto no esta en la carga")
	}
	// Once a line registered sales removing it would falsify the cuadre.
	if !detalle.CantidadActual.Equal(detalle.CantidadCargada) {
		return apierror.Conflicto("el producto ya registra ventas y no puede eliminarse de la carga")
	}
	return s.repo.DeleteDetalle(ctx, detalle.ID)
}

// ── Cerrar ───────────────────────────────────────────────────────────────────

func (s *cargaService) Cerrar(ctx context.Context, id uuid.UUID) (*dto.CargaResponse, error) {
	carga, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("carga no encontrada")
	}
	if carga.Cerrada {
		return nil, apierror.Estado("la carga ya esta cerrada")
	}
	lineas, err := s.repo.CountDetalles(ctx, id)
	if err != nil {
		return nil, err
	}
	if lineas == 0 {
		return nil, apierror.Validacion("no se puede cerrar una carga sin productos")
	}
	if err := s.repo.MarcarCerrada(ctx, id); err != nil {
		return nil, err
	}
	carga.Cerrada = true
	log.Info().Str("carga_id", id.String()).Msg("carga cerrada")
	return cargaToResponse(carga), nil
}

// ── Resolucion ───────────────────────────────────────────────────────────────

func (s *cargaService) ResolverCargaPorRuta(ctx context.Context, rutaID uuid.UUID, fecha time.Time) (*model.CargaCamion, error) {
	binding, err := s.camionRepo.FindAsignacionActivaPorRuta(ctx, rutaID)
	if err != nil {
		return nil, apierror.Estado("no hay un camion asignado a la ruta")
	}
	carga, err := s.repo.FindAbiertaPorCamionFecha(ctx, binding.CamionID, clock.Fecha(fecha))
	if err != nil {
		return nil, apierror.Estado("no existe carga abierta del camion para la fecha")
	}
	return carga, nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func cargaToResponse(c *model.CargaCamion) *dto.CargaResponse {
	resp := &dto.CargaResponse{
		ID:       c.ID.String(),
		CamionID: c.CamionID.String(),
		Fecha:    c.Fecha.Format("2006-01-02"),
		Cerrada:  c.Cerrada,
	}
	if c.Camion != nil {
		resp.Placa = c.Camion.Placa
	}
	for i := range c.Detalles {
		d := &c.Detalles[i]
		item := dto.CargaDetalleResponse{
			ID:              d.ID.String(),
			ProductoID:      d.ProductoID.String(),
			CantidadCargada: d.CantidadCargada,
			CantidadActual:  d.CantidadActual,
			CantidadVendida: d.CantidadVendida(),
		}
		if d.Producto != nil {
			item.Producto = d.Producto.Nombre
			item.Codigo = d.Producto.Codigo
		}
		resp.Detalles = append(resp.Detalles, item)
	}
	return resp
}
