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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CuadreService reconciles a closed carga at end of day. Opening a cuadre
// snapshots every carga line with its expected return; the warehouse then
// counts the truck and records the real returns, and finalizing freezes the
// result as cuadrado or con_diferencia.
type CuadreService interface {
	Abrir(ctx context.Context, req dto.AbrirCuadreRequest) (*dto.CuadreResponse, error)
	ActualizarRetorno(ctx context.Context, detalleID uuid.UUID, req dto.ActualizarRetornoRequest) (*dto.CuadreDetalleResponse, error)
	Finalizar(ctx context.Context, id, usuarioID uuid.UUID, req dto.FinalizarCuadreRequest) (*dto.CuadreResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CuadreResponse, error)
	Listar(ctx context.Context, filter dto.CuadreFilter) (*dto.CuadreListResponse, error)
	Resumen(ctx context.Context, id uuid.UUID) (*dto.ResumenCuadreResponse, error)
}

type cuadreService struct {
	repo       repository.CuadreRepository
	cargaRepo  repository.CargaRepository
	ventaRepo  repository.VentaRepository
	pedidoRepo repository.PedidoRepository
	reloj      clock.Clock
}

func NewCuadreService(
	repo repository.CuadreRepository,
	cargaRepo repository.CargaRepository,
	ventaRepo repository.VentaRepository,
	pedidoRepo repository.PedidoRepository,
	reloj clock.Clock,
) CuadreService {
	return &cuadreService{repo: repo, cargaRepo: cargaRepo, ventaRepo: ventaRepo, pedidoRepo: pedidoRepo, reloj: reloj}
}

// ── Abrir ────────────────────────────────────────────────────────────────────

func (s *cuadreService) Abrir(ctx context.Context, req dto.AbrirCuadreRequest) (*dto.CuadreResponse, error) {
	cargaID, err := uuid.Parse(req.CargaCamionID)
	if err != nil {
		return nil, apierror.Validacion("carga_camion_id invalido")
	}
	carga, err := s.cargaRepo.FindByID(ctx, cargaID)
	if err != nil {
		return nil, apierror.NoEncontrado("carga no encontrada")
	}
	if !carga.Cerrada {
		return nil, apierror.Estado("la carga debe estar cerrada antes del cuadre")
	}
	if _, err := s.repo.FindPorCarga(ctx, cargaID); err == nil {
		return nil, apierror.Conflicto("ya existe un cuadre para esta carga")
	}

	cuadre := &model.CuadreDiario{
		CargaCamionID: cargaID,
		Fecha:         carga.Fecha,
		Estado:        model.CuadrePendiente,
	}
	// Seed every line from the carga snapshot; the real return starts equal
	// to the expected one until the warehouse counts the truck.
	for i := range carga.Detalles {
		d := &carga.Detalles[i]
		cuadre.Detalles = append(cuadre.Detalles, model.CuadreDiarioDetalle{
			ProductoID:      d.ProductoID,
			CantidadCargada: d.CantidadCargada,
			CantidadVendida: d.CantidadVendida(),
			RetornoEsperado: d.CantidadActual,
			RetornoReal:     d.CantidadActual,
			Diferencia:      decimal.Zero,
		})
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.CreateTx(tx, cuadre)
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("cuadre_id", cuadre.ID.String()).
		Str("carga_id", cargaID.String()).
		Int("lineas", len(cuadre.Detalles)).
		Msg("cuadre abierto")

	completo, err := s.repo.FindByID(ctx, cuadre.ID)
	if err != nil {
		return nil, err
	}
	return cuadreToResponse(completo), nil
}

// ── ActualizarRetorno ────────────────────────────────────────────────────────

func (s *cuadreService) ActualizarRetorno(ctx context.Context, detalleID uuid.UUID, req dto.ActualizarRetornoRequest) (*dto.CuadreDetalleResponse, error) {
	detalle, err := s.repo.FindDetalleByID(ctx, detalleID)
	if err != nil {
		return nil, apierror.NoEncontrado("detalle de cuadre no encontrado")
	}
	if detalle.CuadreDiario != nil && detalle.CuadreDiario.Finalizado() {
		return nil, apierror.Estado("el cuadre ya fue finalizado; no admite cambios")
	}
	if req.RetornoReal.IsNegative() {
		return nil, apierror.Validacion("retorno_real no puede ser negativo")
	}
	if req.RetornoReal.GreaterThan(detalle.CantidadCargada) {
		return nil, apierror.Validacion("retorno_real no puede superar la cantidad cargada")
	}

	detalle.RetornoReal = req.RetornoReal
	detalle.Diferencia = req.RetornoReal.Sub(detalle.RetornoEsperado)
	detalle.Observaciones = req.Observaciones
	if err := s.repo.UpdateDetalle(ctx, detalle); err != nil {
		return nil, err
	}
	return cuadreDetalleToResponse(detalle), nil
}

// ── Finalizar ────────────────────────────────────────────────────────────────

func (s *cuadreService) Finalizar(ctx context.Context, id, usuarioID uuid.UUID, req dto.FinalizarCuadreRequest) (*dto.CuadreResponse, error) {
	cuadre, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("cuadre no encontrado")
	}
	if cuadre.Finalizado() {
		return nil, apierror.Estado("el cuadre ya fue finalizado")
	}

	cuadre.Estado = model.CuadreCuadrado
	for i := range cuadre.Detalles {
		if !cuadre.Detalles[i].Diferencia.IsZero() {
			cuadre.Estado = model.CuadreConDiferencia
			break
		}
	}
	ahora := s.reloj.Now()
	cuadre.FinalizadoPor = &usuarioID
	cuadre.FinalizadoEn = &ahora
	if req.Observaciones != "" {
		cuadre.Observaciones = req.Observaciones
	}
	if err := s.repo.Update(ctx, cuadre); err != nil {
		return nil, err
	}
	metrics.CuadresFinalizados.WithLabelValues(string(cuadre.Estado)).Inc()
	log.Info().
		Str("cuadre_id", id.String()).
		Str("estado", string(cuadre.Estado)).
		Msg("cuadre finalizado")
	return cuadreToResponse(cuadre), nil
}

// ── Lecturas ─────────────────────────────────────────────────────────────────

func (s *cuadreService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CuadreResponse, error) {
	cuadre, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("cuadre no encontrado")
	}
	return cuadreToResponse(cuadre), nil
}

func (s *cuadreService) Listar(ctx context.Context, filter dto.CuadreFilter) (*dto.CuadreListResponse, error) {
	cuadres, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.CuadreListResponse{
		Data:  make([]dto.CuadreResponse, 0, len(cuadres)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range cuadres {
		resp.Data = append(resp.Data, *cuadreToResponse(&cuadres[i]))
	}
	return resp, nil
}

// Resumen aggregates the day behind a cuadre: money sold off the truck,
// pedidos booked on the route, and the net stock difference found.
func (s *cuadreService) Resumen(ctx context.Context, id uuid.UUID) (*dto.ResumenCuadreResponse, error) {
	cuadre, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NoEncontrado("cuadre no encontrado")
	}
	carga, err := s.cargaRepo.FindByID(ctx, cuadre.CargaCamionID)
	if err != nil {
		return nil, err
	}

	totalVentas, cantVentas, err := s.ventaRepo.SumPorCarga(ctx, carga.ID)
	if err != nil {
		return nil, err
	}
	totalPedidos := decimal.Zero
	var cantPedidos int64
	if carga.AsignacionCamionRuta != nil {
		totalPedidos, cantPedidos, err = s.pedidoRepo.SumPorRutaFecha(ctx, carga.AsignacionCamionRuta.RutaID, carga.Fecha)
		if err != nil {
			return nil, err
		}
	}

	lineas := 0
	totalDif := decimal.Zero
	for i := range cuadre.Detalles {
		d := &cuadre.Detalles[i]
		if !d.Diferencia.IsZero() {
			lineas++
		}
		totalDif = totalDif.Add(d.Diferencia)
	}

	return &dto.ResumenCuadreResponse{
		CuadreID:            cuadre.ID.String(),
		Fecha:               cuadre.Fecha.Format("2006-01-02"),
		Estado:              string(cuadre.Estado),
		TotalVentas:         totalVentas,
		CantidadVentas:      cantVentas,
		TotalPedidos:        totalPedidos,
		CantidadPedidos:     cantPedidos,
		LineasConDiferencia: lineas,
		TotalDiferencias:    totalDif,
	}, nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func cuadreToResponse(c *model.CuadreDiario) *dto.CuadreResponse {
	resp := &dto.CuadreResponse{
		ID:            c.ID.String(),
		CargaCamionID: c.CargaCamionID.String(),
		Fecha:         c.Fecha.Format("2006-01-02"),
		Estado:        string(c.Estado),
		Observaciones: c.Observaciones,
	}
	if c.CargaCamion != nil && c.CargaCamion.Camion != nil {
		resp.Placa = c.CargaCamion.Camion.Placa
	}
	if c.FinalizadoPor != nil {
		u := c.FinalizadoPor.String()
		resp.FinalizadoPor = &u
	}
	if c.FinalizadoEn != nil {
		f := c.FinalizadoEn.Format(time.RFC3339)
		resp.FinalizadoEn = &f
	}
	for i := range c.Detalles {
		resp.Detalles = append(resp.Detalles, *cuadreDetalleToResponse(&c.Detalles[i]))
	}
	return resp
}

func cuadreDetalleToResponse(d *model.CuadreDiarioDetalle) *dto.CuadreDetalleResponse {
	resp := &dto.CuadreDetalleResponse{
		ID:              d.ID.String(),
		ProductoID:      d.ProductoID.String(),
		CantidadCargada: d.CantidadCargada,
		CantidadVendida: d.CantidadVendida,
		RetornoEsperado: d.RetornoEsperado,
		RetornoReal:     d.RetornoReal,
		Diferencia:      d.Diferencia,
		Observaciones:   d.Observaciones,
	}
	if d.Producto != nil {
		resp.Producto = d.Producto.Nombre
		resp.Codigo = d.Producto.Codigo
	}
	return resp
}
