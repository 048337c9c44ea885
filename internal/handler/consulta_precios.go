package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dizanrev24/control-rutas/internal/apierror"
	"github.com/dizanrev24/control-rutas/internal/clock"
	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/middleware"
	"github.com/dizanrev24/control-rutas/internal/model"
	"github.com/dizanrev24/control-rutas/internal/repository"
	"github.com/dizanrev24/control-rutas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const precioCacheTTL = 4 * time.Hour

// precioCacheEntry is the catalog fragment stored in Redis. Truck stock is
// deliberately outside it: only the static part of the answer is cacheable.
type precioCacheEntry struct {
	ProductoID     string          `json:"producto_id"`
	Codigo         string          `json:"codigo"`
	Nombre         string          `json:"nombre"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	UnidadMedida   string          `json:"unidad_medida"`
}

// ConsultaPreciosHandler answers the vendedor's in-field price check. The
// catalog part is cached; stock always reflects the vendedor's open carga.
type ConsultaPreciosHandler struct {
	productoRepo   repository.ProductoRepository
	asignacionRepo repository.AsignacionRepository
	cargaRepo      repository.CargaRepository
	carga          service.CargaService
	rdb            *redis.Client
	reloj          clock.Clock
}

func NewConsultaPreciosHandler(
	productoRepo repository.ProductoRepository,
	asignacionRepo repository.AsignacionRepository,
	cargaRepo repository.CargaRepository,
	carga service.CargaService,
	rdb *redis.Client,
	reloj clock.Clock,
) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{
		productoRepo:   productoRepo,
		asignacionRepo: asignacionRepo,
		cargaRepo:      cargaRepo,
		carga:          carga,
		rdb:            rdb,
		reloj:          reloj,
	}
}

// GetPrecioPorCodigo godoc
// @Summary Consulta de precio por codigo de producto
// @Description Precio del catalogo, cacheado 4 horas. Para vendedores agrega el stock disponible en su camion hoy; ese dato nunca se cachea.
// @Tags precio
// @Produce json
// @Security BearerAuth
// @Param codigo path string true "Codigo del producto"
// @Success 200 {object} dto.ConsultaPreciosResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precios/{codigo} [get]
func (h *ConsultaPreciosHandler) GetPrecioPorCodigo(c *gin.Context) {
	codigo := c.Param("codigo")
	ctx := c.Request.Context()
	cacheKey := "precio:" + codigo

	var entry precioCacheEntry
	hit := false
	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			if json.Unmarshal(cached, &entry) == nil {
				hit = true
			}
		}
	}
	if !hit {
		producto, err := h.productoRepo.FindByCodigo(ctx, codigo)
		if err != nil {
			c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
			return
		}
		entry = precioCacheEntry{
			ProductoID:     producto.ID.String(),
			Codigo:         producto.Codigo,
			Nombre:         producto.Nombre,
			PrecioUnitario: producto.PrecioUnitario,
			UnidadMedida:   producto.UnidadMedida,
		}
		// Populate cache best effort, ignore errors.
		if h.rdb != nil {
			if b, err := json.Marshal(entry); err == nil {
				_ = h.rdb.Set(context.Background(), cacheKey, b, precioCacheTTL).Err()
			}
		}
	}

	resp := dto.ConsultaPreciosResponse{
		Codigo:          entry.Codigo,
		Nombre:          entry.Nombre,
		PrecioUnitario:  entry.PrecioUnitario,
		UnidadMedida:    entry.UnidadMedida,
		StockDisponible: decimal.Zero,
	}

	claims := middleware.GetClaims(c)
	if claims != nil && claims.Rol == string(model.RolVendedor) {
		if vendedorID, ok := middleware.UserID(c); ok {
			h.anotarStockCamion(ctx, vendedorID, entry.ProductoID, &resp)
		}
	}
	c.JSON(http.StatusOK, resp)
}

// anotarStockCamion fills StockDisponible from the vendedor's open carga.
// Any miss along the chain (no route, no truck, no open load, product not
// loaded) leaves the response with EnCamion=false rather than failing the
// price check.
func (h *ConsultaPreciosHandler) anotarStockCamion(ctx context.Context, vendedorID uuid.UUID, productoID string, resp *dto.ConsultaPreciosResponse) {
	pid, err := uuid.Parse(productoID)
	if err != nil {
		return
	}
	asignacion, err := h.asignacionRepo.FindActivaPorVendedor(ctx, vendedorID)
	if err != nil {
		return
	}
	carga, err := h.carga.ResolverCargaPorRuta(ctx, asignacion.RutaID, h.reloj.Today())
	if err != nil {
		return
	}
	detalle, err := h.cargaRepo.FindDetalle(ctx, carga.ID, pid)
	if err != nil {
		return
	}
	resp.StockDisponible = detalle.CantidadActual
	resp.EnCamion = true
}
