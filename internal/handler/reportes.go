package handler

import (
	"net/http"

	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// FotosDuplicadas godoc
// @Summary Visitas con foto repetida
// @Description Agrupa por hash las visitas cuya foto ya se habia usado en otra visita, para auditar check-ins falsos.
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Param desde query string false "Fecha YYYY-MM-DD (default: hace 7 dias)"
// @Param hasta query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Success 200 {object} dto.FotosDuplicadasResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/reportes/fotos-duplicadas [get]
func (h *ReportesHandler) FotosDuplicadas(c *gin.Context) {
	var filter dto.ReporteRangoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.FotosDuplicadas(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) UbicacionesInvalidas(c *gin.Context) {
	var filter dto.ReporteRangoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.UbicacionesInvalidas(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) VentasPorVendedor(c *gin.Context) {
	var filter dto.ReporteRangoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.VentasPorVendedor(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) ResumenCuadres(c *gin.Context) {
	resp, err := h.svc.ResumenCuadres(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
