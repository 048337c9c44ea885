package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/dizanrev24/control-rutas/internal/apierror"
	"github.com/dizanrev24/control-rutas/internal/clock"
	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/metrics"
	"github.com/dizanrev24/control-rutas/internal/model"
	"github.com/dizanrev24/control-rutas/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VentaService registers sales during active visits. A sale decrements the
// truck's carga lines in the same transaction that creates it; stock can
// never drift from the recorded sales.
type VentaService interface {
	Registrar(ctx context.Context, vendedorID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	Anular(ctx context.Context, id uuid.UUID, req dto.AnularVentaRequest) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	planRepo     repository.PlanificacionRepository
	productoRepo repository.ProductoRepository
	cargaRepo    repository.CargaRepository
	cuadreRepo   repository.CuadreRepository
	carga        CargaService
	reloj        clock.Clock
}

func NewVentaService(
	repo repository.VentaRepository,
	planRepo repository.PlanificacionRepository,
	productoRepo repository.ProductoRepository,
	cargaRepo repository.CargaRepository,
	cuadreRepo repository.CuadreRepository,
	carga CargaService,
	reloj clock.Clock,
) VentaService {
	return &ventaService{
		repo:         repo,
		planRepo:     planRepo,
		productoRepo: productoRepo,
		cargaRepo:    cargaRepo,
		cuadreRepo:   cuadreRepo,
		carga:        carga,
		reloj:        reloj,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Registrar ────────────────────────────────────────────────────────────────
// 1. Resolve the visit and check the gate: active visit, owning vendedor
// 2. Resolve the day's carga through ruta -> camion -> carga abierta
// 3. Pre-flight: resolve products and prices from the catalog, outside TX
// 4. BEGIN TX: lock each carga line, check stock, decrement, create venta
// 5. COMMIT; reload for the response

func (s *ventaService) Registrar(ctx context.Context, vendedorID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
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
		return nil, fmt.Errorf("venta: planificacion incompleta para detalle %s", detalleID)
	}
	if plan.Asignacion.VendedorID != vendedorID {
		return nil, apierror.Prohibido("la visita pertenece a otro vendedor")
	}
	if !visita.VisitaActiva() {
		return nil, apierror.Estado("la visita debe estar activa para registrar ventas")
	}

	carga, err := s.carga.ResolverCargaPorRuta(ctx, plan.Asignacion.RutaID, plan.Fecha)
	if err != nil {
		return nil, err
	}

	// Pre-flight: resolve products and compute totals before touching stock.
	type resolvedItem struct {
		productoID uuid.UUID
		nombre     string
		precio     decimal.Decimal
		cantidad   decimal.Decimal
		subtotal   decimal.Decimal
	}
	resolved := make([]resolvedItem, 0, len(req.Items))
	vistos := make(map[uuid.UUID]bool, len(req.Items))
	total := decimal.Zero
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
		resolved = append(resolved, resolvedItem{
			productoID: productoID,
			nombre:     producto.Nombre,
			precio:     producto.PrecioUnitario,
			cantidad:   item.Cantidad,
			subtotal:   subtotal,
		})
		total = total.Add(subtotal)
	}
	// Lines lock in producto order so concurrent ventas never deadlock.
	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].productoID.String() < resolved[j].productoID.String()
	})

	venta := &model.Venta{
		DetallePlanificacionID: detalleID,
		ClienteID:              plan.RutaDetalle.ClienteID,
		CargaCamionID:          carga.ID,
		Fecha:                  s.reloj.Now(),
		Total:                  total,
		Estado:                 model.VentaCompletada,
		Observaciones:          req.Observaciones,
	}
	for _, it := range resolved {
		venta.Detalles = append(venta.Detalles, model.DetalleVenta{
			ProductoID:     it.productoID,
			Cantidad:       it.cantidad,
			PrecioUnitario: it.precio,
			Subtotal:       it.subtotal,
		})
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, it := range resolved {
			linea, err := s.cargaRepo.FindDetalleForUpdateTx(tx, carga.ID, it.productoID)
			if err != nil {
				return apierror.ProductoNoCargado("el producto " + it.nombre + " no esta cargado en el camion")
			}
			if linea.CantidadActual.LessThan(it.cantidad) {
				return apierror.StockInsuficiente(fmt.Sprintf(
					"stock insuficiente de %s: disponible %s, solicitado %s",
					it.nombre, linea.CantidadActual.String(), it.cantidad.String()))
			}
			if err := s.cargaRepo.DescontarStockTx(tx, linea.ID, it.cantidad); err != nil {
				return err
			}
		}
		return s.repo.CreateTx(tx, venta)
	})
	if err != nil {
		return nil, err
	}

	metrics.VentasRegistradas.Inc()
	log.Info().
		Str("venta_id", venta.ID.String()).
		Str("carga_id", carga.ID.String()).
		Str("total", total.String()).
		Int("items", len(resolved)).
		Msg("venta registrada")

	completa, err := s.repo.FindByID(ctx, venta.ID)
	if err != nil {
		return nil, err
	}
	return ventaToResponse(completa), nil
}

// ── Anular ───────────────────────────────────────────────────────────────────

// Anular cancels a completed sale and restores the truck stock it consumed.
// Once a cuadre exists for the carga its seeded numbers are authoritative,
// so cancellation is rejected from that point on.
func (s *ventaService) Anular(ctx context.Context, id uuid.UUID, req dto.AnularVentaRequest) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NoEncontrado("venta no encontrada")
	}
	if venta.Estado == model.VentaCancelada {
		return apierror.Estado("la venta ya fue anulada")
	}
	if _, err := s.cuadreRepo.FindPorCarga(ctx, venta.CargaCamionID); err == nil {
		return apierror.Estado("el cuadre del dia ya existe; la venta no puede anularse")
	}

	observaciones := "[Anulada] " + req.Motivo
	if venta.Observaciones != "" {
		observaciones = venta.Observaciones + "\n[Anulada] " + req.Motivo
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for i := range venta.Detalles {
			d := &venta.Detalles[i]
			if err := s.cargaRepo.ReponerStockTx(tx, venta.CargaCamionID, d.ProductoID, d.Cantidad); err != nil {
				return err
			}
		}
		return s.repo.UpdateEstadoTx(tx, id, model.VentaCancelada, observaciones)
	})
	if err != nil {
		return err
	}
	log.Info().Str("venta_id", id.String()).Msg("venta anulada, stock repuesto")
	return nil
}

// ── Lecturas ─────────────────────────────────────────────────────────────────

func (s *ventaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("venta no encontrada")
	}
	return ventaToResponse(venta), nil
}

func (s *ventaService) Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	monto, err := s.repo.SumTotal(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.VentaListResponse{
		Data:       make([]dto.VentaResponse, 0, len(ventas)),
		Total:      total,
		MontoTotal: monto,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for i := range ventas {
		resp.Data = append(resp.Data, *ventaToResponse(&ventas[i]))
	}
	return resp, nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	resp := &dto.VentaResponse{
		ID:            v.ID.String(),
		ClienteID:     v.ClienteID.String(),
		Fecha:         v.Fecha.Format("2006-01-02 15:04:05"),
		Total:         v.Total,
		Estado:        string(v.Estado),
		Observaciones: v.Observaciones,
	}
	if v.Cliente != nil {
		resp.Cliente = v.Cliente.Nombre
	}
	for i := range v.Detalles {
		d := &v.Detalles[i]
		item := dto.ItemVentaResponse{
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
