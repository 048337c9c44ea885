package service

import (
	"context"
	"testing"

	"github.com/dizanrev24/control-rutas/internal/apierror"
	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fixture ──────────────────────────────────────────────────────────────────
// A day in the field: vendedor with an active visit, truck bound to the
// ruta, carga abierta for today. Tests add product lines as needed.

type ventaEnv struct {
	svc       VentaService
	esc       *escenarioCampo
	visita    *model.DetallePlanificacion
	carga     *model.CargaCamion
	ventas    *stubVentaRepo
	cargas    *stubCargaRepo
	cuadres   *stubCuadreRepo
	productos *stubProductoRepo
}

func buildVentaEnv() *ventaEnv {
	esc := nuevoEscenarioCampo(relojMarzo.Today())
	camiones := newStubCamionRepo()
	_, vinculo := seedCamionConRuta(camiones, esc.ruta.ID, "C-482BBB")

	cargas := newStubCargaRepo()
	carga := &model.CargaCamion{
		ID:                     uuid.New(),
		CamionID:               vinculo.CamionID,
		AsignacionCamionRutaID: vinculo.ID,
		Fecha:                  relojMarzo.Today(),
		AsignacionCamionRuta:   vinculo,
	}
	cargas.cargas[carga.ID] = carga

	productos := newStubProductoRepo()
	ventas := newStubVentaRepo()
	cuadres := newStubCuadreRepo()
	cargaSvc := NewCargaService(cargas, camiones, productos, relojMarzo)
	return &ventaEnv{
		svc:       NewVentaService(ventas, esc.planRepo, productos, cargas, cuadres, cargaSvc, relojMarzo),
		esc:       esc,
		visita:    esc.visitaActiva(relojMarzo),
		carga:     carga,
		ventas:    ventas,
		cargas:    cargas,
		cuadres:   cuadres,
		productos: productos,
	}
}

func (e *ventaEnv) cargarProducto(nombre, codigo string, precio float64, cantidad int64) *model.Producto {
	p := seedProducto(e.productos, nombre, codigo, precio)
	e.cargas.lineas = append(e.cargas.lineas, &model.CargaCamionDetalle{
		ID:              uuid.New(),
		CargaCamionID:   e.carga.ID,
		ProductoID:      p.ID,
		CantidadCargada: decimal.NewFromInt(cantidad),
		CantidadActual:  decimal.NewFromInt(cantidad),
	})
	return p
}

func (e *ventaEnv) stockActual(t *testing.T, productoID uuid.UUID) string {
	t.Helper()
	linea, err := e.cargas.FindDetalle(context.Background(), e.carga.ID, productoID)
	require.NoError(t, err)
	return linea.CantidadActual.String()
}

func itemVenta(p *model.Producto, cantidad int64) dto.ItemVentaRequest {
	return dto.ItemVentaRequest{ProductoID: p.ID.String(), Cantidad: decimal.NewFromInt(cantidad)}
}

// ── Registrar ────────────────────────────────────────────────────────────────

func TestRegistrarVenta_DescuentaStockDelCamion(t *testing.T) {
	env := buildVentaEnv()
	agua := env.cargarProducto("Agua Pura 500ml", "AGU-500", 2.50, 50)

	resp, err := env.svc.Registrar(context.Background(), env.esc.vendedor.ID, dto.RegistrarVentaRequest{
		DetallePlanificacionID: env.visita.ID.String(),
		Items:                  []dto.ItemVentaRequest{itemVenta(agua, 30)},
	})
	require.NoError(t, err)

	assert.Equal(t, string(model.VentaCompletada), resp.Estado)
	assert.Equal(t, "75", resp.Total.String())
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "75", resp.Items[0].Subtotal.String())
	assert.Equal(t, "20", env.stockActual(t, agua.ID))
}

func TestRegistrarVenta_VariosItems(t *testing.T) {
	env := buildVentaEnv()
	agua := env.cargarProducto("Agua Pura 500ml", "AGU-500", 2.50, 50)
	gaseosa := env.cargarProducto("Gaseosa Cola 600ml", "GAS-600", 6.00, 24)

	resp, err := env.svc.Registrar(context.Background(), env.esc.vendedor.ID, dto.RegistrarVentaRequest{
		DetallePlanificacionID: env.visita.ID.String(),
		Items:                  []dto.ItemVentaRequest{itemVenta(agua, 10), itemVenta(gaseosa, 6)},
	})
	require.NoError(t, err)

	// 10 x 2.50 + 6 x 6.00
	assert.Equal(t, "61", resp.Total.String())
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, "40", env.stockActual(t, agua.ID))
	assert.Equal(t, "18", env.stockActual(t, gaseosa.ID))
}

func TestRegistrarVenta_StockInsuficiente(t *testing.T) {
	env := buildVentaEnv()
	agua := env.cargarProducto("Agua Pura 500ml", "AGU-500", 2.50, 5)

	_, err := env.svc.Registrar(context.Background(), env.esc.vendedor.ID, dto.RegistrarVentaRequest{
		DetallePlanificacionID: env.visita.ID.String(),
		Items:                  []dto.ItemVentaRequest{itemVenta(agua, 8)},
	})
	assertKind(t, err, apierror.KindStockInsuficiente)
	assert.ErrorContains(t, err, "disponible 5, solicitado 8")

	assert.Equal(t, "5", env.stockActual(t, agua.ID))
	assert.Empty(t, env.ventas.ventas)
}

func TestRegistrarVenta_ProductoNoCargado(t *testing.T) {
	env := buildVentaEnv()
	agua := seedProducto(env.productos, "Agua Pura 500ml", "AGU-500", 2.50)

	_, err := env.svc.Registrar(context.Background(), env.esc.vendedor.ID, dto.RegistrarVentaRequest{
		DetallePlanificacionID: env.visita.ID.String(),
		Items:                  []dto.ItemVentaRequest{itemVenta(agua, 1)},
	})
	assertKind(t, err, apierror.KindProductoNoCargado)
	assert.ErrorContains(t, err, "no esta cargado en el camion")
}

func TestRegistrarVenta_VisitaInactiva(t *testing.T) {
	env := buildVentaEnv()
	agua := env.cargarProducto("Agua Pura 500ml", "AGU-500", 2.50, 50)
	salida := relojMarzo.Now()
	env.visita.HoraSalida = &salida

	_, err := env.svc.Registrar(context.Background(), env.esc.vendedor.ID, dto.RegistrarVentaRequest{
		DetallePlanificacionID: env.visita.ID.String(),
		Items:                  []dto.ItemVentaRequest{itemVenta(agua, 1)},
	})
	assertKind(t, err, apierror.KindEstado)
	assert.ErrorContains(t, err, "activa")
}

func TestRegistrarVenta_DeOtroVendedor(t *testing.T) {
	env := buildVentaEnv()
	agua := env.cargarProducto("Agua Pura 500ml", "AGU-500", 2.50, 50)

	_, err := env.svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		DetallePlanificacionID: env.visita.ID.String(),
		Items:                  []dto.ItemVentaRequest{itemVenta(agua, 1)},
	})
	assertKind(t, err, apierror.KindProhibido)
}

func TestRegistrarVenta_SinCargaAbierta(t *testing.T) {
	env := buildVentaEnv()
	agua := env.cargarProducto("Agua Pura 500ml", "AGU-500", 2.50, 50)
	env.carga.Cerrada = true

	_, err := env.svc.Registrar(context.Background(), env.esc.vendedor.ID, dto.RegistrarVentaRequest{
		DetallePlanificacionID: env.visita.ID.String(),
		Items:                  []dto.ItemVentaRequest{itemVenta(agua, 1)},
	})
	assertKind(t, err, apierror.KindEstado)
	assert.ErrorContains(t, err, "carga abierta")
}

func TestRegistrarVenta_ProductoRepetido(t *testing.T) {
	env := buildVentaEnv()
	agua := env.cargarProducto("Agua Pura 500ml", "AGU-500", 2.50, 50)

	_, err := env.svc.Registrar(context.Background(), env.esc.vendedor.ID, dto.RegistrarVentaRequest{
		DetallePlanificacionID: env.visita.ID.String(),
		Items:                  []dto.ItemVentaRequest{itemVenta(agua, 2), itemVenta(agua, 3)},
	})
	assertKind(t, err, apierror.KindValidacion)
	assert.ErrorContains(t, err, "repetido")
}

func TestRegistrarVenta_ProductoDescontinuado(t *testing.T) {
	env := buildVentaEnv()
	agua := env.cargarProducto("Agua Pura 500ml", "AGU-500", 2.50, 50)
	agua.Estado = model.ProductoDescontinuado

	_, err := env.svc.Registrar(context.Background(), env.esc.vendedor.ID, dto.RegistrarVentaRequest{
		DetallePlanificacionID: env.visita.ID.String(),
		Items:                  []dto.ItemVentaRequest{itemVenta(agua, 1)},
	})
	assertKind(t, err, apierror.KindValidacion)
	assert.ErrorContains(t, err, "no esta activo")
}

func TestRegistrarVenta_CantidadCero(t *testing.T) {
	env := buildVentaEnv()
	agua := env.cargarProducto("Agua Pura 500ml", "AGU-500", 2.50, 50)

	_, err := env.svc.Registrar(context.Background(), env.esc.vendedor.ID, dto.RegistrarVentaRequest{
		DetallePlanificacionID: env.visita.ID.String(),
		Items: []dto.ItemVentaRequest{
			{ProductoID: agua.ID.String(), Cantidad: decimal.Zero},
		},
	})
	assertKind(t, err, apierror.KindValidacion)
	assert.ErrorContains(t, err, "mayor a cero")
}

// ── Anular ───────────────────────────────────────────────────────────────────

func registrarVentaDePrueba(t *testing.T, env *ventaEnv, items ...dto.ItemVentaRequest) uuid.UUID {
	t.Helper()
	resp, err := env.svc.Registrar(context.Background(), env.esc.vendedor.ID, dto.RegistrarVentaRequest{
		DetallePlanificacionID: env.visita.ID.String(),
		Items:                  items,
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func TestAnularVenta_ReponeStock(t *testing.T) {
	env := buildVentaEnv()
	agua := env.cargarProducto("Agua Pura 500ml", "AGU-500", 2.50, 50)
	ventaID := registrarVentaDePrueba(t, env, itemVenta(agua, 30))
	require.Equal(t, "20", env.stockActual(t, agua.ID))

	err := env.svc.Anular(context.Background(), ventaID, dto.AnularVentaRequest{Motivo: "el cliente devolvio el producto"})
	require.NoError(t, err)

	assert.Equal(t, "50", env.stockActual(t, agua.ID))
	venta := env.ventas.ventas[ventaID]
	assert.Equal(t, model.VentaCancelada, venta.Estado)
	assert.Equal(t, "[Anulada] el cliente devolvio el producto", venta.Observaciones)
}

func TestAnularVenta_DosVeces(t *testing.T) {
	env := buildVentaEnv()
	agua := env.cargarProducto("Agua Pura 500ml", "AGU-500", 2.50, 50)
	ventaID := registrarVentaDePrueba(t, env, itemVenta(agua, 10))

	require.NoError(t, env.svc.Anular(context.Background(), ventaID, dto.AnularVentaRequest{Motivo: "pedido equivocado"}))

	err := env.svc.Anular(context.Background(), ventaID, dto.AnularVentaRequest{Motivo: "pedido equivocado"})
	assertKind(t, err, apierror.KindEstado)
	assert.ErrorContains(t, err, "ya fue anulada")
}

func TestAnularVenta_ConCuadreExistente(t *testing.T) {
	env := buildVentaEnv()
	agua := env.cargarProducto("Agua Pura 500ml", "AGU-500", 2.50, 50)
	ventaID := registrarVentaDePrueba(t, env, itemVenta(agua, 30))

	require.NoError(t, env.cuadres.CreateTx(nil, &model.CuadreDiario{
		CargaCamionID: env.carga.ID,
		Fecha:         relojMarzo.Today(),
		Estado:        model.CuadrePendiente,
	}))

	err := env.svc.Anular(context.Background(), ventaID, dto.AnularVentaRequest{Motivo: "intento tardio"})
	assertKind(t, err, apierror.KindEstado)
	assert.ErrorContains(t, err, "cuadre")
	assert.Equal(t, "20", env.stockActual(t, agua.ID))
}
