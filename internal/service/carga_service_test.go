package service

import (
	"context"
	"testing"

	"github.com/dizanrev24/control-rutas/internal/apierror"
	"github.com/dizanrev24/control-rutas/internal/clock"
	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fixture ──────────────────────────────────────────────────────────────────

type cargaEnv struct {
	svc       CargaService
	cargas    *stubCargaRepo
	camiones  *stubCamionRepo
	productos *stubProductoRepo
}

func buildCargaEnv(reloj clock.Clock) *cargaEnv {
	cargas := newStubCargaRepo()
	camiones := newStubCamionRepo()
	productos := newStubProductoRepo()
	return &cargaEnv{
		svc:       NewCargaService(cargas, camiones, productos, reloj),
		cargas:    cargas,
		camiones:  camiones,
		productos: productos,
	}
}

// cargaDelDia seeds a truck bound to rutaID and opens its carga for today.
func cargaDelDia(t *testing.T, env *cargaEnv, rutaID uuid.UUID) (*model.Camion, uuid.UUID) {
	t.Helper()
	camion, _ := seedCamionConRuta(env.camiones, rutaID, "C-482BBB")
	resp, err := env.svc.Crear(context.Background(), dto.CrearCargaRequest{CamionID: camion.ID.String()})
	require.NoError(t, err)
	return camion, uuid.MustParse(resp.ID)
}

// ── Crear ────────────────────────────────────────────────────────────────────

func TestCrearCarga_UsaFechaDeHoy(t *testing.T) {
	env := buildCargaEnv(relojMarzo)
	camion, _ := seedCamionConRuta(env.camiones, uuid.New(), "C-777AAA")

	resp, err := env.svc.Crear(context.Background(), dto.CrearCargaRequest{CamionID: camion.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, "2026-03-02", resp.Fecha)
	assert.Equal(t, "C-777AAA", resp.Placa)
	assert.False(t, resp.Cerrada)
}

func TestCrearCarga_DuplicadaMismaFecha(t *testing.T) {
	env := buildCargaEnv(relojMarzo)
	camion, _ := cargaDelDia(t, env, uuid.New())

	_, err := env.svc.Crear(context.Background(), dto.CrearCargaRequest{CamionID: camion.ID.String()})
	assertKind(t, err, apierror.KindConflicto)
	assert.ErrorContains(t, err, "ya existe una carga")
}

func TestCrearCarga_CamionSinRuta(t *testing.T) {
	env := buildCargaEnv(relojMarzo)
	camion := &model.Camion{ID: uuid.New(), Placa: "C-000XXX", Activo: true}
	env.camiones.camiones[camion.ID] = camion

	_, err := env.svc.Crear(context.Background(), dto.CrearCargaRequest{CamionID: camion.ID.String()})
	assertKind(t, err, apierror.KindValidacion)
	assert.ErrorContains(t, err, "ruta asignada")
}

func TestCrearCarga_CamionInactivo(t *testing.T) {
	env := buildCargaEnv(relojMarzo)
	camion, _ := seedCamionConRuta(env.camiones, uuid.New(), "C-111CCC")
	camion.Activo = false

	_, err := env.svc.Crear(context.Background(), dto.CrearCargaRequest{CamionID: camion.ID.String()})
	assertKind(t, err, apierror.KindValidacion)
	assert.ErrorContains(t, err, "inactivo")
}

func TestCrearCarga_FechaExplicita(t *testing.T) {
	env := buildCargaEnv(relojMarzo)
	camion, _ := seedCamionConRuta(env.camiones, uuid.New(), "C-222DDD")

	resp, err := env.svc.Crear(context.Background(), dto.CrearCargaRequest{
		CamionID: camion.ID.String(), Fecha: "2026-03-05",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-05", resp.Fecha)
}

// ── AgregarProducto ──────────────────────────────────────────────────────────

func TestAgregarProducto_AcumulaLineas(t *testing.T) {
	env := buildCargaEnv(relojMarzo)
	_, cargaID := cargaDelDia(t, env, uuid.New())
	agua := seedProducto(env.productos, "Agua Pura 500ml", "AGU-500", 2.50)
	gaseosa := seedProducto(env.productos, "Gaseosa Cola 600ml", "GAS-600", 6.00)

	_, err := env.svc.AgregarProducto(context.Background(), cargaID, dto.AgregarProductoCargaRequest{
		ProductoID: agua.ID.String(), Cantidad: decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	resp, err := env.svc.AgregarProducto(context.Background(), cargaID, dto.AgregarProductoCargaRequest{
		ProductoID: gaseosa.ID.String(), Cantidad: decimal.NewFromInt(48),
	})
	require.NoError(t, err)

	require.Len(t, resp.Detalles, 2)
	for _, d := range resp.Detalles {
		assert.Equal(t, d.CantidadCargada.String(), d.CantidadActual.String())
	}
}

func TestAgregarProducto_RepetidoRechazado(t *testing.T) {
	env := buildCargaEnv(relojMarzo)
	_, cargaID := cargaDelDia(t, env, uuid.New())
	agua := seedProducto(env.productos, "Agua Pura 500ml", "AGU-500", 2.50)

	req := dto.AgregarProductoCargaRequest{ProductoID: agua.ID.String(), Cantidad: decimal.NewFromInt(10)}
	_, err := env.svc.AgregarProducto(context.Background(), cargaID, req)
	require.NoError(t, err)

	_, err = env.svc.AgregarProducto(context.Background(), cargaID, req)
	assertKind(t, err, apierror.KindConflicto)
	assert.ErrorContains(t, err, "ya esta cargado")
}

func TestAgregarProducto_CargaCerrada(t *testing.T) {
	env := buildCargaEnv(relojMarzo)
	_, cargaID := cargaDelDia(t, env, uuid.New())
	agua := seedProducto(env.productos, "Agua Pura 500ml", "AGU-500", 2.50)

	_, err := env.svc.AgregarProducto(context.Background(), cargaID, dto.AgregarProductoCargaRequest{
		ProductoID: agua.ID.String(), Cantidad: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	_, err = env.svc.Cerrar(context.Background(), cargaID)
	require.NoError(t, err)

	_, err = env.svc.AgregarProducto(context.Background(), cargaID, dto.AgregarProductoCargaRequest{
		ProductoID: agua.ID.String(), Cantidad: decimal.NewFromInt(5),
	})
	assertKind(t, err, apierror.KindEstado)
}

func TestAgregarProducto_CantidadInvalida(t *testing.T) {
	env := buildCargaEnv(relojMarzo)
	_, cargaID := cargaDelDia(t, env, uuid.New())
	agua := seedProducto(env.productos, "Agua Pura 500ml", "AGU-500", 2.50)

	_, err := env.svc.AgregarProducto(context.Background(), cargaID, dto.AgregarProductoCargaRequest{
		ProductoID: agua.ID.String(), Cantidad: decimal.Zero,
	})
	assertKind(t, err, apierror.KindValidacion)
	assert.ErrorContains(t, err, "mayor a cero")
}

func TestAgregarProducto_ProductoInactivo(t *testing.T) {
	env := buildCargaEnv(relojMarzo)
	_, cargaID := cargaDelDia(t, env, uuid.New())
	agua := seedProducto(env.productos, "Agua Pura 500ml", "AGU-500", 2.50)
	agua.Estado = model.ProductoInactivo

	_, err := env.svc.AgregarProducto(context.Background(), cargaID, dto.AgregarProductoCargaRequest{
		ProductoID: agua.ID.String(), Cantidad: decimal.NewFromInt(10),
	})
	assertKind(t, err, apierror.KindValidacion)
	assert.ErrorContains(t, err, "no esta activo")
}

// ── EliminarProducto ─────────────────────────────────────────────────────────

func TestEliminarProducto_SinVentas(t *testing.T) {
	env := buildCargaEnv(relojMarzo)
	_, cargaID := cargaDelDia(t, env, uuid.New())
	agua := seedProducto(env.productos, "Agua Pura 500ml", "AGU-500", 2.50)

	_, err := env.svc.AgregarProducto(context.Background(), cargaID, dto.AgregarProductoCargaRequest{
		ProductoID: agua.ID.String(), Cantidad: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.EliminarProducto(context.Background(), cargaID, agua.ID))
	lineas, err := env.cargas.CountDetalles(context.Background(), cargaID)
	require.NoError(t, err)
	assert.Zero(t, lineas)
}

func TestEliminarProducto_ConVentasRegistradas(t *testing.T) {
	env := buildCargaEnv(relojMarzo)
	_, cargaID := cargaDelDia(t, env, uuid.New())
	agua := seedProducto(env.productos, "Agua Pura 500ml", "AGU-500", 2.50)

	_, err := env.svc.AgregarProducto(context.Background(), cargaID, dto.AgregarProductoCargaRequest{
		ProductoID: agua.ID.String(), Cantidad: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	linea, err := env.cargas.FindDetalle(context.Background(), cargaID, agua.ID)
	require.NoError(t, err)
	require.NoError(t, env.cargas.DescontarStockTx(nil, linea.ID, decimal.NewFromInt(3)))

	err = env.svc.EliminarProducto(context.Background(), cargaID, agua.ID)
	assertKind(t, err, apierror.KindConflicto)
	assert.ErrorContains(t, err, "registra ventas")
}

// ── Cerrar ───────────────────────────────────────────────────────────────────

func TestCerrarCarga_SinProductos(t *testing.T) {
	env := buildCargaEnv(relojMarzo)
	_, cargaID := cargaDelDia(t, env, uuid.New())

	_, err := env.svc.Cerrar(context.Background(), cargaID)
	assertKind(t, err, apierror.KindValidacion)
	assert.ErrorContains(t, err, "sin productos")
}

func TestCerrarCarga_DosVeces(t *testing.T) {
	env := buildCargaEnv(relojMarzo)
	_, cargaID := cargaDelDia(t, env, uuid.New())
	agua := seedProducto(env.productos, "Agua Pura 500ml", "AGU-500", 2.50)

	_, err := env.svc.AgregarProducto(context.Background(), cargaID, dto.AgregarProductoCargaRequest{
		ProductoID: agua.ID.String(), Cantidad: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	resp, err := env.svc.Cerrar(context.Background(), cargaID)
	require.NoError(t, err)
	assert.True(t, resp.Cerrada)

	_, err = env.svc.Cerrar(context.Background(), cargaID)
	assertKind(t, err, apierror.KindEstado)
	assert.ErrorContains(t, err, "ya esta cerrada")
}

// ── ResolverCargaPorRuta ─────────────────────────────────────────────────────

func TestResolverCargaPorRuta_EncuentraLaCargaDelDia(t *testing.T) {
	env := buildCargaEnv(relojMarzo)
	rutaID := uuid.New()
	_, cargaID := cargaDelDia(t, env, rutaID)

	carga, err := env.svc.ResolverCargaPorRuta(context.Background(), rutaID, relojMarzo.Now())
	require.NoError(t, err)
	assert.Equal(t, cargaID, carga.ID)
}

func TestResolverCargaPorRuta_SinCamionAsignado(t *testing.T) {
	env := buildCargaEnv(relojMarzo)

	_, err := env.svc.ResolverCargaPorRuta(context.Background(), uuid.New(), relojMarzo.Now())
	assertKind(t, err, apierror.KindEstado)
	assert.ErrorContains(t, err, "camion asignado")
}

func TestResolverCargaPorRuta_SinCargaAbierta(t *testing.T) {
	env := buildCargaEnv(relojMarzo)
	rutaID := uuid.New()
	seedCamionConRuta(env.camiones, rutaID, "C-333EEE")

	_, err := env.svc.ResolverCargaPorRuta(context.Background(), rutaID, relojMarzo.Now())
	assertKind(t, err, apierror.KindEstado)
	assert.ErrorContains(t, err, "carga abierta")
}
