package handler

import (
	"net/http"

	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/service"

	"github.com/gin-gonic/gin"
)

type RutasHandler struct{ svc service.RutaService }

func NewRutasHandler(svc service.RutaService) *RutasHandler { return &RutasHandler{svc: svc} }

func (h *RutasHandler) Crear(c *gin.Context) {
	var req dto.CrearRutaRequest
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

func (h *RutasHandler) Listar(c *gin.Context) {
	var filter dto.RutaFilter
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

func (h *RutasHandler) ObtenerPorID(c *gin.Context) {
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

func (h *RutasHandler) Actualizar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarRutaRequest
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

func (h *RutasHandler) Desactivar(c *gin.Context) {
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

func (h *RutasHandler) Reactivar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Reactivar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Paradas ──────────────────────────────────────────────────────────────────

// AgregarParada godoc
// @Summary Agrega un cliente como parada de la ruta
// @Description Inserta la parada en el orden indicado, o al final si orden_visita es 0. Si el cliente ya fue parada de la ruta y esta inactiva, se reactiva.
// @Tags rutas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID de la ruta"
// @Param body body dto.AgregarParadaRequest true "Parada"
// @Success 201 {object} dto.ParadaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/rutas/{id}/paradas [post]
func (h *RutasHandler) AgregarParada(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AgregarParadaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarParada(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// QuitarParada soft-deletes the stop so historic plans keep pointing at it.
func (h *RutasHandler) QuitarParada(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	paradaID, ok := pathID(c, "paradaId")
	if !ok {
		return
	}
	if err := h.svc.QuitarParada(c.Request.Context(), id, paradaID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReordenarParadas godoc
// @Summary Reordena las paradas activas de la ruta
// @Description Recibe la lista completa de paradas activas en su nuevo orden y renumera 1..n en una transaccion.
// @Tags rutas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID de la ruta"
// @Param body body dto.ReordenarParadasRequest true "IDs de parada en el nuevo orden"
// @Success 200 {array} dto.ParadaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/rutas/{id}/paradas/reordenar [put]
func (h *RutasHandler) ReordenarParadas(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ReordenarParadasRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ReordenarParadas(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	paradas, err := h.svc.ListarParadas(c.Request.Context(), id, true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paradas)
}

func (h *RutasHandler) ListarParadas(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	soloActivas := c.DefaultQuery("activas", "true") != "false"
	paradas, err := h.svc.ListarParadas(c.Request.Context(), id, soloActivas)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paradas)
}
