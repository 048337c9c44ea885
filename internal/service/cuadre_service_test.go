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
// End of day: the carga came back closed with two lines. Agua sold 30 of
// 50; gaseosa came back untouched.

type cuadreEnv struct {
	svc     CuadreService
	cuadres *stubCuadreRepo
	cargas  *stubCargaRepo
	ventas  *stubVentaRepo
	pedidos *stubPedidoRepo
	carga   *model.CargaCamion
	aguaID  uuid.UUID
	gasID   uuid.UUID
}

func buildCuadreEnv() *cuadreEnv {
	cargas := newStubCargaRepo()
	ventas := newStubVentaRepo()
	pedidos := newStubPedidoRepo()
	cuadres := newStubCuadreRepo()

	vinculo := &model.AsignacionCamionRuta{
		ID: uuid.New(), CamionID: uuid.New(), RutaID: uuid.New(), Activo: true,
	}
	carga := &model.CargaCamion{
		ID:                     uuid.New(),
		CamionID:               vinculo.CamionID,
		AsignacionCamionRutaID: vinculo.ID,
		Fecha:                  relojMarzo.Today(),
		Cerrada:                true,
		AsignacionCamionRuta:   vinculo,
	}
	cargas.cargas[carga.ID] = carga

	aguaID, gasID := uuid.New(), uuid.New()
	cargas.lineas = append(cargas.lineas,
		&model.CargaCamionDetalle{
			ID: uuid.New(), CargaCamionID: carga.ID, ProductoID: aguaID,
			CantidadCargada: decimal.NewFromInt(50), CantidadActual: decimal.NewFromInt(20),
		},
		&model.CargaCamionDetalle{
			ID: uuid.New(), CargaCamionID: carga.ID, ProductoID: gasID,
			CantidadCargada: decimal.NewFromInt(10), CantidadActual: decimal.NewFromInt(10),
		},
	)

	return &cuadreEnv{
		svc:     NewCuadreService(cuadres, cargas, ventas, pedidos, relojMarzo),
		cuadres: cuadres,
		cargas:  cargas,
		ventas:  ventas,
		pedidos: pedidos,
		carga:   carga,
		aguaID:  aguaID,
		gasID:   gasID,
	}
}

func (e *cuadreEnv) abrir(t *testing.T) *dto.CuadreResponse {
	t.Helper()
	resp, err := e.svc.Abrir(context.Background(), dto.AbrirCuadreRequest{CargaCamionID: e.carga.ID.String()})
	require.NoError(t, err)
	return resp
}

func lineaDeCuadre(t *testing.T, resp *dto.CuadreResponse, productoID uuid.UUID) dto.CuadreDetalleResponse {
	t.Helper()
	for _, d := range resp.Detalles {
		if d.ProductoID == productoID.String() {
			return d
		}
	}
	t.Fatalf("el cuadre no tiene linea para el producto %s", productoID)
	return dto.CuadreDetalleResponse{}
}

// ── Abrir ────────────────────────────────────────────────────────────────────

func TestAbrirCuadre_SiembraLineasDesdeLaCarga(t *testing.T) {
	env := buildCuadreEnv()

	resp := env.abrir(t)

	assert.Equal(t, string(model.CuadrePendiente), resp.Estado)
	require.Len(t, resp.Detalles, 2)

	agua := lineaDeCuadre(t, resp, env.aguaID)
	assert.Equal(t, "50", agua.CantidadCargada.String())
	assert.Equal(t, "30", agua.CantidadVendida.String())
	assert.Equal(t, "20", agua.RetornoEsperado.String())
	assert.Equal(t, "20", agua.RetornoReal.String())
	assert.Equal(t, "0", agua.Diferencia.String())

	gas := lineaDeCuadre(t, resp, env.gasID)
	assert.Equal(t, "0", gas.CantidadVendida.String())
	assert.Equal(t, "10", gas.RetornoEsperado.String())
}

func TestAbrirCuadre_CargaAbierta(t *testing.T) {
	env := buildCuadreEnv()
	env.carga.Cerrada = false

	_, err := env.svc.Abrir(context.Background(), dto.AbrirCuadreRequest{CargaCamionID: env.carga.ID.String()})
	assertKind(t, err, apierror.KindEstado)
	assert.ErrorContains(t, err, "cerrada antes del cuadre")
}

func TestAbrirCuadre_Duplicado(t *testing.T) {
	env := buildCuadreEnv()
	env.abrir(t)

	_, err := env.svc.Abrir(context.Background(), dto.AbrirCuadreRequest{CargaCamionID: env.carga.ID.String()})
	assertKind(t, err, apierror.KindConflicto)
	assert.ErrorContains(t, err, "ya existe un cuadre")
}

// ── ActualizarRetorno ────────────────────────────────────────────────────────

func TestActualizarRetorno_RecalculaDiferencia(t *testing.T) {
	env := buildCuadreEnv()
	resp := env.abrir(t)
	linea := lineaDeCuadre(t, resp, env.aguaID)

	actualizado, err := env.svc.ActualizarRetorno(context.Background(), uuid.MustParse(linea.ID), dto.ActualizarRetornoRequest{
		RetornoReal: decimal.NewFromInt(18), Observaciones: "dos botellas quebradas",
	})
	require.NoError(t, err)

	assert.Equal(t, "18", actualizado.RetornoReal.String())
	assert.Equal(t, "-2", actualizado.Diferencia.String())
	assert.Equal(t, "dos botellas quebradas", actualizado.Observaciones)
}

func TestActualizarRetorno_Negativo(t *testing.T) {
	env := buildCuadreEnv()
	resp := env.abrir(t)
	linea := lineaDeCuadre(t, resp, env.aguaID)

	_, err := env.svc.ActualizarRetorno(context.Background(), uuid.MustParse(linea.ID), dto.ActualizarRetornoRequest{
		RetornoReal: decimal.NewFromInt(-1),
	})
	assertKind(t, err, apierror.KindValidacion)
	assert.ErrorContains(t, err, "negativo")
}

func TestActualizarRetorno_MayorQueLoCargado(t *testing.T) {
	env := buildCuadreEnv()
	resp := env.abrir(t)
	linea := lineaDeCuadre(t, resp, env.aguaID)

	_, err := env.svc.ActualizarRetorno(context.Background(), uuid.MustParse(linea.ID), dto.ActualizarRetornoRequest{
		RetornoReal: decimal.NewFromInt(60),
	})
	assertKind(t, err, apierror.KindValidacion)
	assert.ErrorContains(t, err, "superar la cantidad cargada")
}

func TestActualizarRetorno_CuadreFinalizado(t *testing.T) {
	env := buildCuadreEnv()
	resp := env.abrir(t)
	linea := lineaDeCuadre(t, resp, env.aguaID)
	_, err := env.svc.Finalizar(context.Background(), uuid.MustParse(resp.ID), uuid.New(), dto.FinalizarCuadreRequest{})
	require.NoError(t, err)

	_, err = env.svc.ActualizarRetorno(context.Background(), uuid.MustParse(linea.ID), dto.ActualizarRetornoRequest{
		RetornoReal: decimal.NewFromInt(19),
	})
	assertKind(t, err, apierror.KindEstado)
	assert.ErrorContains(t, err, "no admite cambios")
}

// ── Finalizar ────────────────────────────────────────────────────────────────

func TestFinalizarCuadre_SinDiferencias(t *testing.T) {
	env := buildCuadreEnv()
	resp := env.abrir(t)
	supervisora := uuid.New()

	final, err := env.svc.Finalizar(context.Background(), uuid.MustParse(resp.ID), supervisora, dto.FinalizarCuadreRequest{
		Observaciones: "camion revisado en bodega",
	})
	require.NoError(t, err)

	assert.Equal(t, string(model.CuadreCuadrado), final.Estado)
	assert.Equal(t, "camion revisado en bodega", final.Observaciones)
	require.NotNil(t, final.FinalizadoPor)
	assert.Equal(t, supervisora.String(), *final.FinalizadoPor)
	assert.NotNil(t, final.FinalizadoEn)
}

func TestFinalizarCuadre_ConDiferencia(t *testing.T) {
	env := buildCuadreEnv()
	resp := env.abrir(t)
	linea := lineaDeCuadre(t, resp, env.aguaID)
	_, err := env.svc.ActualizarRetorno(context.Background(), uuid.MustParse(linea.ID), dto.ActualizarRetornoRequest{
		RetornoReal: decimal.NewFromInt(18),
	})
	require.NoError(t, err)

	final, err := env.svc.Finalizar(context.Background(), uuid.MustParse(resp.ID), uuid.New(), dto.FinalizarCuadreRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(model.CuadreConDiferencia), final.Estado)
}

func TestFinalizarCuadre_DosVeces(t *testing.T) {
	env := buildCuadreEnv()
	resp := env.abrir(t)
	cuadreID := uuid.MustParse(resp.ID)

	_, err := env.svc.Finalizar(context.Background(), cuadreID, uuid.New(), dto.FinalizarCuadreRequest{})
	require.NoError(t, err)

	_, err = env.svc.Finalizar(context.Background(), cuadreID, uuid.New(), dto.FinalizarCuadreRequest{})
	assertKind(t, err, apierror.KindEstado)
	assert.ErrorContains(t, err, "ya fue finalizado")
}

// ── Resumen ──────────────────────────────────────────────────────────────────

func TestResumenCuadre_AgregaVentasPedidosYDiferencias(t *testing.T) {
	env := buildCuadreEnv()
	resp := env.abrir(t)
	linea := lineaDeCuadre(t, resp, env.aguaID)
	_, err := env.svc.ActualizarRetorno(context.Background(), uuid.MustParse(linea.ID), dto.ActualizarRetornoRequest{
		RetornoReal: decimal.NewFromInt(18),
	})
	require.NoError(t, err)

	venta := &model.Venta{
		ID: uuid.New(), CargaCamionID: env.carga.ID,
		Total: decimal.NewFromInt(120), Estado: model.VentaCompletada,
	}
	env.ventas.ventas[venta.ID] = venta
	require.NoError(t, env.pedidos.Create(context.Background(), &model.Pedido{
		Fecha: relojMarzo.Now(), Total: decimal.NewFromInt(80), Estado: model.PedidoPendiente,
	}))

	resumen, err := env.svc.Resumen(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)

	assert.Equal(t, "120", resumen.TotalVentas.String())
	assert.EqualValues(t, 1, resumen.CantidadVentas)
	assert.Equal(t, "80", resumen.TotalPedidos.String())
	assert.EqualValues(t, 1, resumen.CantidadPedidos)
	assert.Equal(t, 1, resumen.LineasConDiferencia)
	assert.Equal(t, "-2", resumen.TotalDiferencias.String())
}
