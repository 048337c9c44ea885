package handler

import (
	"net/http"

	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/service"

	"github.com/gin-gonic/gin"
)

type CargasHandler struct{ svc service.CargaService }

func NewCargasHandler(svc service.CargaService) *CargasHandler { return &CargasHandler{svc: svc} }

// Crear godoc
// @Summary Abre la carga diaria de un camion
// @Description Una sola carga por camion y fecha. El camion debe tener una ruta asignada.
// @Tags cargas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearCargaRequest true "Carga"
// @Success 201 {object} dto.CargaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cargas [post]
func (h *CargasHandler) Crear(c *gin.Context) {
	var req dto.CrearCargaRequest
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

func (h *CargasHandler) Listar(c *gin.Context) {
	var filter dto.CargaFilter
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

func (h *CargasHandler) ObtenerPorID(c *gin.Context) {
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

// AgregarProducto adds a product line while the carga remains open.
func (h *CargasHandler) AgregarProducto(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AgregarProductoCargaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarProducto(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EliminarProducto removes a line; rejected once the line registers sales.
func (h *CargasHandler) EliminarProducto(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	productoID, ok := pathID(c, "productoId")
	if !ok {
		return
	}
	if err := h.svc.EliminarProducto(c.Request.Context(), id, productoID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Cerrar godoc
// @Summary Cierra la carga del dia
// @Description Congela las lineas: no se admiten mas productos y la carga queda lista para ventas en ruta y cuadre al regreso.
// @Tags cargas
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID de la carga"
// @Success 200 {object} dto.CargaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cargas/{id}/cerrar [put]
func (h *CargasHandler) Cerrar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
