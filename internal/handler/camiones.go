package handler

import (
	"net/http"

	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/service"

	"github.com/gin-gonic/gin"
)

type CamionesHandler struct{ svc service.CamionService }

func NewCamionesHandler(svc service.CamionService) *CamionesHandler {
	return &CamionesHandler{svc: svc}
}

func (h *CamionesHandler) Crear(c *gin.Context) {
	var req dto.CrearCamionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CamionesHandler) Listar(c *gin.Context) {
	var filter dto.CamionFilter
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

func (h *CamionesHandler) ObtenerPorID(c *gin.Context) {
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

func (h *CamionesHandler) Actualizar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarCamionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CamionesHandler) Desactivar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AsignarRuta godoc
// @Summary Asigna una ruta al camion
// @Description Desactiva cualquier vinculo previo del camion y de la ruta; el vinculo nuevo queda como el unico activo para ambos.
// @Tags camiones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID del camion"
// @Param body body dto.AsignarRutaRequest true "Ruta"
// @Success 201 {object} dto.AsignacionCamionRutaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/camiones/{id}/ruta [post]
func (h *CamionesHandler) AsignarRuta(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AsignarRutaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AsignarRuta(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CamionesHandler) ObtenerAsignacionActiva(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerAsignacionActiva(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
