package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dizanrev24/control-rutas/internal/apierror"
	"github.com/dizanrev24/control-rutas/internal/clock"
	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/model"
	"github.com/dizanrev24/control-rutas/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PedidoService books future deliveries taken during a visit. A pedido never
// touches the truck's stock; the back office fulfills it from the warehouse.
type PedidoService interface {
	Registrar(ctx context.Context, vendedorID uuid.UUID, req dto.RegistrarPedidoRequest) (*dto.PedidoResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoPedidoRequest) (*dto.PedidoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
}

type pedidoService struct {
	repo         repository.PedidoRepository
	planRepo     repository.PlanificacionRepository
	productoRepo repository.ProductoRepository
	reloj        clock.Clock
}

func NewPedidoService(
	repo repository.PedidoRepository,
	planRepo repository.PlanificacionRepository,
	productoRepo repository.ProductoRepository,
	reloj clock.Clock,
) PedidoService {
	return &pedidoService{repo: repo, planRepo: planRepo, productoRepo: productoRepo, reloj: reloj}
}

// ── Registrar ────────────────────────────────────────────────────────────────

func (s *pedidoService) Registrar(ctx context.Context, vendedorID uuid.UUID, req dto.RegistrarPedidoRequest) (*dto.PedidoResponse, error) {
	detalleID, err := uuid.Parse(req.DetallePlanificacionID)
	if err != nil {
		return nil, apierror.Validacion("detalle_planificacion_id invalido")
	}
	visita, err := s.planRepo.FindDetalleByID(ctx, detalleID)
	if err != nil {
		return nil, apierror.NoEncontrado("visita no encontrada")
	}
	plan := visita.Planificacion
	if plan == nil || plan.Asignacion == nil || plan.RutaDetalle == nil {
		return nil, fmt.Errorf("pedido: planificacion incompleta para detalle %s", detalleID)
	}
	if plan.Asignacion.VendedorID != vendedorID {
		return nil, apierror.Prohibido("la visita pertenece a otro vendedor")
	}
	if !visita.VisitaActiva() {
		return nil, apierror.Estado("la visita debe estar activa para registrar pedidos")
	}

	var fechaEntrega *time.Time
	if req.FechaEntregaEstimada != "" {
		f, err := time.Parse("2006-01-02", req.FechaEntregaEstimada)
		if err != nil {
			return nil, apierror.Validacion("fecha_entrega_estimada invalida")
		}
		if f.Before(s.reloj.Today()) {
			return nil, apierror.Validacion("fecha_entrega_estimada no puede ser pasada")
		}
		fechaEntrega = &f
	}

	pedido := &model.Pedido{
		DetallePlanificacionID: detalleID,
		ClienteID:              plan.RutaDetalle.ClienteID,
		Fecha:                  s.reloj.Now(),
		FechaEntregaEstimada:   fechaEntrega,
		Estado:                 model.PedidoPendiente,
		Observaciones:          req.Observaciones,
	}
	total := decimal.Zero
	vistos := make(map[uuid.UUID]bool, len(req.Items))
	for _, item := range req.Items {
		productoID, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, apierror.Validacion("producto_id invalido: " + item.ProductoID)
		}
		if vistos[productoID] {
			return nil, apierror.Validacion("producto repetido en los items")
		}
		vistos[productoID] = true
		if !item.Cantidad.IsPositive() {
			return nil, apierror.Validacion("la cantidad debe ser mayor a cero")
		}
		producto, err := s.productoRepo.FindByID(ctx, productoID)
		if err != nil {
			return nil, apierror.NoEncontrado("producto no encontrado: " + item.ProductoID)
		}
		if !producto.Vendible() {
			return nil, apierror.Validacion("el producto " + producto.Nombre + " no esta activo")
		}
		subtotal := producto.PrecioUnitario.Mul(item.Cantidad)
		pedido.Detalles = append(pedido.Detalles, model.DetallePedido{
			ProductoID:     productoID,
			Cantidad:       item.Cantidad,
			PrecioUnitario: producto.PrecioUnitario,
			Subtotal:       subtotal,
		})
		total = total.Add(subtotal)
	}
	pedido.Total = total

	if err := s.repo.Create(ctx, pedido); err != nil {
		return nil, err
	}
	log.Info().
		Str("pedido_id", pedido.ID.String()).
		Str("total", total.String()).
		Int("items", len(pedido.Detalles)).
		Msg("pedido registrado")

	completo, err := s.repo.FindByID(ctx, pedido.ID)
	if err != nil {
		return nil, err
	}
	return pedidoToResponse(completo), nil
}

// ── CambiarEstado ────────────────────────────────────────────────────────────

// transicionesPedido lists the legal next states; entregado and cancelado
// are terminal.
var transicionesPedido = map[model.EstadoPedido][]model.EstadoPedido{
	model.PedidoPendiente: {model.PedidoProcesado, model.PedidoCancelado},
	model.PedidoProcesado: {model.PedidoEntregado, model.PedidoCancelado},
}

func (s *pedidoService) CambiarEstado(ctx context.Context, id uuid.UUID, req dto.CambiarEstadoPedidoRequest) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("pedido no encontrado")
	}
	nuevo := model.EstadoPedido(req.Estado)
	if pedido.Estado == nuevo {
		return pedidoToResponse(pedido), nil
	}
	permitido := false
	for _, e := range transicionesPedido[pedido.Estado] {
		if e == nuevo {
			permitido = true
			break
		}
	}
	if !permitido {
		return nil, apierror.Estado(fmt.Sprintf("transicion de %s a %s no permitida", pedido.Estado, nuevo))
	}

	if err := s.repo.UpdateEstado(ctx, id, nuevo); err != nil {
		return nil, err
	}
	pedido.Estado = nuevo
	log.Info().Str("pedido_id", id.String()).Str("estado", req.Estado).Msg("estado de pedido actualizado")
	return pedidoToResponse(pedido), nil
}

// ── Lecturas ─────────────────────────────────────────────────────────────────

func (s *pedidoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("pedido no encontrado")
	}
	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	pedidos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	monto, err := s.repo.SumTotal(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.PedidoListResponse{
		Data:       make([]dto.PedidoResponse, 0, len(pedidos)),
		Total:      total,
		MontoTotal: monto,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for i := range pedidos {
		resp.Data = append(resp.Data, *pedidoToResponse(&pedidos[i]))
	}
	return resp, nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	resp := &dto.PedidoResponse{
		ID:            p.ID.String(),
		ClienteID:     p.ClienteID.String(),
		Fecha:         p.Fecha.Format("2006-01-02 15:04:05"),
		Total:         p.Total,
		Estado:        string(p.Estado),
		Observaciones: p.Observaciones,
	}
	if p.FechaEntregaEstimada != nil {
		f := p.FechaEntregaEstimada.Format("2006-01-02")
		resp.FechaEntregaEstimada = &f
	}
	if p.Cliente != nil {
		resp.Cliente = p.Cliente.Nombre
	}
	for i := range p.Detalles {
		d := &p.Detalles[i]
		item := dto.ItemPedidoResponse{
			ProductoID:     d.ProductoID.String(),
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		}
		if d.Producto != nil {
			item.Producto = d.Producto.Nombre
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}
