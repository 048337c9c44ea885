package handler

import (
	"net/http"

	"github.com/dizanrev24/control-rutas/internal/apierror"
	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/middleware"
	"github.com/dizanrev24/control-rutas/internal/service"

	"github.com/gin-gonic/gin"
)

type CuadresHandler struct{ svc service.CuadreService }

func NewCuadresHandler(svc service.CuadreService) *CuadresHandler {
	return &CuadresHandler{svc: svc}
}

// Abrir godoc
// @Summary Abre el cuadre de una carga cerrada
// @Description Crea el cuadre con una linea por producto de la carga. El retorno real arranca igual al esperado hasta que bodega cuenta el camion.
// @Tags cuadres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCuadreRequest true "Carga"
// @Success 201 {object} dto.CuadreResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cuadres [post]
func (h *CuadresHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCuadreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ActualizarRetorno godoc
// @Summary Registra el retorno real contado de un producto
// @Description Actualiza la linea y recalcula la diferencia (real menos esperado). Rechazado una vez finalizado el cuadre.
// @Tags cuadres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID del detalle de cuadre"
// @Param body body dto.ActualizarRetornoRequest true "Retorno contado"
// @Success 200 {object} dto.CuadreDetalleResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cuadres/detalles/{id} [put]
func (h *CuadresHandler) ActualizarRetorno(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarRetornoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarRetorno(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Finalizar godoc
// @Summary Finaliza el cuadre
// @Description Cierra el cuadre como cuadrado o con_diferencia segun las lineas. A partir de aqui es inmutable.
// @Tags cuadres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID del cuadre"
// @Param body body dto.FinalizarCuadreRequest true "Observaciones"
// @Success 200 {object} dto.CuadreResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cuadres/{id}/finalizar [put]
func (h *CuadresHandler) Finalizar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.FinalizarCuadreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	resp, err := h.svc.Finalizar(c.Request.Context(), id, usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CuadresHandler) ObtenerPorID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CuadresHandler) Listar(c *gin.Context) {
	var filter dto.CuadreFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen aggregates the day's money and stock picture behind the cuadre.
func (h *CuadresHandler) Resumen(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
