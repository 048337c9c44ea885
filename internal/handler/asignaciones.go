package handler

import (
	"net/http"

	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/service"

	"github.com/gin-gonic/gin"
)

type AsignacionesHandler struct{ svc service.AsignacionService }

func NewAsignacionesHandler(svc service.AsignacionService) *AsignacionesHandler {
	return &AsignacionesHandler{svc: svc}
}

// Crear godoc
// @Summary Asigna una ruta a un vendedor
// @Description Valida que las fechas no se traslapen con otra asignacion de la misma ruta y vendedor, y genera las planificaciones del horizonte en la misma transaccion.
// @Tags asignaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearAsignacionRequest true "Asignacion"
// @Success 201 {object} dto.AsignacionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/asignaciones [post]
func (h *AsignacionesHandler) Crear(c *gin.Context) {
	var req dto.CrearAsignacionRequest
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

func (h *AsignacionesHandler) Listar(c *gin.Context) {
	var filter dto.AsignacionFilter
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

func (h *AsignacionesHandler) ObtenerPorID(c *gin.Context) {
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

// Finalizar closes the assignment early; already-finished ones return as-is.
func (h *AsignacionesHandler) Finalizar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.FinalizarAsignacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Finalizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Regenerar godoc
// @Summary Regenera las planificaciones futuras de la asignacion
// @Description Elimina los planes futuros sin visita registrada y vuelve a generarlos desde la fecha pedida, tras un cambio de paradas de la ruta.
// @Tags asignaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID de la asignacion"
// @Param body body dto.RegenerarPlanesRequest true "Fecha inicial (opcional)"
// @Success 200 {object} dto.RegeneracionResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/asignaciones/{id}/regenerar [post]
func (h *AsignacionesHandler) Regenerar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RegenerarPlanesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Regenerar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
