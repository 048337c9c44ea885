package service

import (
	"context"

	"github.com/dizanrev24/control-rutas/internal/apierror"
	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/model"
	"github.com/dizanrev24/control-rutas/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ProductoService defines the business logic contract for the catalog.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, estado model.EstadoProducto) (*dto.ProductoResponse, error)
}

type productoService struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	existe, err := s.repo.ExisteCodigo(ctx, req.Codigo)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, apierror.Conflicto("ya existe un producto con codigo " + req.Codigo)
	}
	if req.PrecioUnitario.IsNegative() {
		return nil, apierror.Validacion("precio_unitario no puede ser negativo")
	}

	unidad := req.UnidadMedida
	if unidad == "" {
		unidad = "unidad"
	}
	producto := &model.Producto{
		Codigo:         req.Codigo,
		Nombre:         req.Nombre,
		Descripcion:    req.Descripcion,
		PrecioUnitario: req.PrecioUnitario,
		UnidadMedida:   unidad,
		Estado:         model.ProductoActivo,
	}
	if err := s.repo.Create(ctx, producto); err != nil {
		return nil, err
	}
	log.Info().Str("producto_id", producto.ID.String()).Str("codigo", producto.Codigo).Msg("producto creado")
	return productoToResponse(producto), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("producto no encontrado")
	}
	return productoToResponse(producto), nil
}

func (s *productoService) ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, apierror.NoEncontrado("producto no encontrado")
	}
	return productoToResponse(producto), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductoListResponse{
		Data:  make([]dto.ProductoResponse, 0, len(productos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range productos {
		resp.Data = append(resp.Data, *productoToResponse(&productos[i]))
	}
	return resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("producto no encontrado")
	}

	if req.Nombre != nil {
		producto.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		producto.Descripcion = req.Descripcion
	}
	if req.PrecioUnitario != nil {
		if req.PrecioUnitario.IsNegative() {
			return nil, apierror.Validacion("precio_unitario no puede ser negativo")
		}
		producto.PrecioUnitario = *req.PrecioUnitario
	}
	if req.UnidadMedida != nil {
		producto.UnidadMedida = *req.UnidadMedida
	}

	if err := s.repo.Update(ctx, producto); err != nil {
		return nil, err
	}
	s.invalidarCachePrecio(producto.Codigo)
	return productoToResponse(producto), nil
}

func (s *productoService) CambiarEstado(ctx context.Context, id uuid.UUID, estado model.EstadoProducto) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("producto no encontrado")
	}
	if producto.Estado == estado {
		return productoToResponse(producto), nil
	}
	if err := s.repo.CambiarEstado(ctx, id, estado); err != nil {
		return nil, err
	}
	producto.Estado = estado
	s.invalidarCachePrecio(producto.Codigo)
	return productoToResponse(producto), nil
}

// invalidarCachePrecio drops the cached price-check entry after a catalog
// change. Best effort: a stale entry expires on its own TTL anyway.
func (s *productoService) invalidarCachePrecio(codigo string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(context.Background(), "precio:"+codigo).Err(); err != nil {
		log.Warn().Err(err).Str("codigo", codigo).Msg("no se pudo invalidar cache de precio")
	}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:             p.ID.String(),
		Codigo:         p.Codigo,
		Nombre:         p.Nombre,
		Descripcion:    p.Descripcion,
		PrecioUnitario: p.PrecioUnitario,
		UnidadMedida:   p.UnidadMedida,
		Estado:         string(p.Estado),
	}
}
