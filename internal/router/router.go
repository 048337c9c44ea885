package router

import (
	"time"

	"github.com/dizanrev24/control-rutas/internal/authz"
	"github.com/dizanrev24/control-rutas/internal/clock"
	"github.com/dizanrev24/control-rutas/internal/config"
	"github.com/dizanrev24/control-rutas/internal/handler"
	"github.com/dizanrev24/control-rutas/internal/infra"
	"github.com/dizanrev24/control-rutas/internal/metrics"
	"github.com/dizanrev24/control-rutas/internal/middleware"
	"github.com/dizanrev24/control-rutas/internal/repository"
	"github.com/dizanrev24/control-rutas/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, cfg.RateLimitPorMinuto, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	reloj := clock.Sistema()
	fotos := infra.NewFotoStorage(cfg.FotoStoragePath)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	rutaRepo := repository.NewRutaRepository(db)
	camionRepo := repository.NewCamionRepository(db)
	asignacionRepo := repository.NewAsignacionRepository(db)
	planificacionRepo := repository.NewPlanificacionRepository(db)
	cargaRepo := repository.NewCargaRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	cuadreRepo := repository.NewCuadreRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	clienteSvc := service.NewClienteService(clienteRepo)
	productoSvc := service.NewProductoService(productoRepo, rdb)
	rutaSvc := service.NewRutaService(rutaRepo, clienteRepo)
	camionSvc := service.NewCamionService(camionRepo, rutaRepo, reloj)
	cacheTTL := time.Duration(cfg.CacheTTLSegundos) * time.Second
	planificacionSvc := service.NewPlanificacionService(planificacionRepo, rutaRepo, clienteRepo, usuarioRepo, asignacionRepo, rdb, reloj, cfg.HorizontePlanDias, cacheTTL)
	asignacionSvc := service.NewAsignacionService(asignacionRepo, rutaRepo, usuarioRepo, planificacionRepo, planificacionSvc, reloj)
	visitaSvc := service.NewVisitaService(planificacionRepo, fotos, rdb, reloj, cfg.GeocercaMargenMetros)
	cargaSvc := service.NewCargaService(cargaRepo, camionRepo, productoRepo, reloj)
	ventaSvc := service.NewVentaService(ventaRepo, planificacionRepo, productoRepo, cargaRepo, cuadreRepo, cargaSvc, reloj)
	pedidoSvc := service.NewPedidoService(pedidoRepo, planificacionRepo, productoRepo, reloj)
	cuadreSvc := service.NewCuadreService(cuadreRepo, cargaRepo, ventaRepo, pedidoRepo, reloj)
	reporteSvc := service.NewReporteService(planificacionRepo, ventaRepo, cuadreRepo, reloj)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	rutasH := handler.NewRutasHandler(rutaSvc)
	camionesH := handler.NewCamionesHandler(camionSvc)
	asignacionesH := handler.NewAsignacionesHandler(asignacionSvc)
	planificacionesH := handler.NewPlanificacionesHandler(planificacionSvc)
	visitasH := handler.NewVisitasHandler(visitaSvc)
	cargasH := handler.NewCargasHandler(cargaSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	cuadresH := handler.NewCuadresHandler(cuadreSvc)
	consultaH := handler.NewConsultaPreciosHandler(productoRepo, asignacionRepo, cargaRepo, cargaSvc, rdb, reloj)
	reportesH := handler.NewReportesHandler(reporteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, cfg.FotoStoragePath))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes — every endpoint declares exactly one Accion
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		usuarios := v1.Group("/usuarios", middleware.RequireAccion(authz.GestionarUsuarios))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}

		// Catálogos: lecturas para toda la oficina, escrituras solo gestión
		v1.GET("/clientes", middleware.RequireAccion(authz.VerCatalogos), clientesH.Listar)
		v1.GET("/clientes/:id", middleware.RequireAccion(authz.VerCatalogos), clientesH.ObtenerPorID)
		clientes := v1.Group("/clientes", middleware.RequireAccion(authz.GestionarCatalogos))
		{
			clientes.POST("", clientesH.Crear)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Desactivar)
			clientes.PATCH("/:id/reactivar", clientesH.Reactivar)
		}

		v1.GET("/productos", middleware.RequireAccion(authz.VerCatalogos), productosH.Listar)
		v1.GET("/productos/:id", middleware.RequireAccion(authz.VerCatalogos), productosH.ObtenerPorID)
		productos := v1.Group("/productos", middleware.RequireAccion(authz.GestionarCatalogos))
		{
			productos.POST("", productosH.Crear)
			productos.PUT("/:id", productosH.Actualizar)
			productos.PATCH("/:id/estado", productosH.CambiarEstado)
		}

		v1.GET("/rutas", middleware.RequireAccion(authz.VerCatalogos), rutasH.Listar)
		v1.GET("/rutas/:id", middleware.RequireAccion(authz.VerCatalogos), rutasH.ObtenerPorID)
		v1.GET("/rutas/:id/paradas", middleware.RequireAccion(authz.VerCatalogos), rutasH.ListarParadas)
		rutas := v1.Group("/rutas", middleware.RequireAccion(authz.GestionarCatalogos))
		{
			rutas.POST("", rutasH.Crear)
			rutas.PUT("/:id", rutasH.Actualizar)
			rutas.DELETE("/:id", rutasH.Desactivar)
			rutas.PATCH("/:id/reactivar", rutasH.Reactivar)
			rutas.POST("/:id/paradas", rutasH.AgregarParada)
			rutas.DELETE("/:id/paradas/:paradaId", rutasH.QuitarParada)
			rutas.PUT("/:id/paradas/reordenar", rutasH.ReordenarParadas)
		}

		v1.GET("/camiones", middleware.RequireAccion(authz.VerCatalogos), camionesH.Listar)
		v1.GET("/camiones/:id", middleware.RequireAccion(authz.VerCatalogos), camionesH.ObtenerPorID)
		v1.GET("/camiones/:id/ruta", middleware.RequireAccion(authz.VerCatalogos), camionesH.ObtenerAsignacionActiva)
		camiones := v1.Group("/camiones", middleware.RequireAccion(authz.GestionarCatalogos))
		{
			camiones.POST("", camionesH.Crear)
			camiones.PUT("/:id", camionesH.Actualizar)
			camiones.DELETE("/:id", camionesH.Desactivar)
			camiones.POST("/:id/ruta", camionesH.AsignarRuta)
		}

		asignaciones := v1.Group("/asignaciones", middleware.RequireAccion(authz.GestionarAsignaciones))
		{
			asignaciones.POST("", asignacionesH.Crear)
			asignaciones.GET("", asignacionesH.Listar)
			asignaciones.GET("/:id", asignacionesH.ObtenerPorID)
			asignaciones.POST("/:id/finalizar", asignacionesH.Finalizar)
			asignaciones.POST("/:id/regenerar", asignacionesH.Regenerar)
		}

		// Agenda y visitas: el día del vendedor en campo
		v1.GET("/agenda", middleware.RequireAccion(authz.VerAgenda), planificacionesH.Agenda)
		v1.POST("/agenda/clientes", middleware.RequireAccion(authz.RegistrarVisitas), planificacionesH.RegistrarClienteNuevo)
		v1.POST("/planificaciones/:id/visita", middleware.RequireAccion(authz.RegistrarVisitas), visitasH.Iniciar)
		v1.PUT("/planificaciones/:id/no-visita", middleware.RequireAccion(authz.RegistrarVisitas), visitasH.MarcarNoVisita)
		v1.PUT("/visitas/:id/finalizar", middleware.RequireAccion(authz.RegistrarVisitas), visitasH.Finalizar)
		v1.GET("/visitas/:id", middleware.RequireAccion(authz.RegistrarVisitas), visitasH.ObtenerDetalle)

		cargas := v1.Group("/cargas", middleware.RequireAccion(authz.GestionarCargas))
		{
			cargas.POST("", cargasH.Crear)
			cargas.GET("", cargasH.Listar)
			cargas.GET("/:id", cargasH.ObtenerPorID)
			cargas.POST("/:id/productos", cargasH.AgregarProducto)
			cargas.DELETE("/:id/productos/:productoId", cargasH.EliminarProducto)
			cargas.PUT("/:id/cerrar", cargasH.Cerrar)
		}

		v1.POST("/ventas", middleware.RequireAccion(authz.RegistrarVentas), ventasH.Registrar)
		v1.GET("/ventas", middleware.RequireAccion(authz.VerVentas), ventasH.Listar)
		v1.GET("/ventas/:id", middleware.RequireAccion(authz.VerVentas), ventasH.ObtenerPorID)
		v1.DELETE("/ventas/:id", middleware.RequireAccion(authz.AnularVentas), ventasH.Anular)

		v1.POST("/pedidos", middleware.RequireAccion(authz.RegistrarPedidos), pedidosH.Registrar)
		v1.GET("/pedidos", middleware.RequireAccion(authz.GestionarPedidos), pedidosH.Listar)
		v1.GET("/pedidos/:id", middleware.RequireAccion(authz.GestionarPedidos), pedidosH.ObtenerPorID)
		v1.PATCH("/pedidos/:id/estado", middleware.RequireAccion(authz.GestionarPedidos), pedidosH.CambiarEstado)

		cuadres := v1.Group("/cuadres", middleware.RequireAccion(authz.GestionarCuadres))
		{
			cuadres.POST("", cuadresH.Abrir)
			cuadres.GET("", cuadresH.Listar)
			cuadres.GET("/:id", cuadresH.ObtenerPorID)
			cuadres.GET("/:id/resumen", cuadresH.Resumen)
			cuadres.PUT("/detalles/:id", cuadresH.ActualizarRetorno)
			cuadres.PUT("/:id/finalizar", cuadresH.Finalizar)
		}

		v1.GET("/precios/:codigo", middleware.RequireAccion(authz.ConsultarPrecios), consultaH.GetPrecioPorCodigo)

		reportes := v1.Group("/reportes", middleware.RequireAccion(authz.VerReportes))
		{
			reportes.GET("/fotos-duplicadas", reportesH.FotosDuplicadas)
			reportes.GET("/ubicaciones-invalidas", reportesH.UbicacionesInvalidas)
			reportes.GET("/ventas-por-vendedor", reportesH.VentasPorVendedor)
			reportes.GET("/resumen-cuadres", reportesH.ResumenCuadres)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
