package handler

import (
	"net/http"
	"time"

	"github.com/dizanrev24/control-rutas/internal/apierror"
	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/middleware"
	"github.com/dizanrev24/control-rutas/internal/model"
	"github.com/dizanrev24/control-rutas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PlanificacionesHandler struct{ svc service.PlanificacionService }

func NewPlanificacionesHandler(svc service.PlanificacionService) *PlanificacionesHandler {
	return &PlanificacionesHandler{svc: svc}
}

// Agenda godoc
// @Summary Agenda del dia de un vendedor
// @Description Un vendedor siempre ve su propia agenda; admin y secretaria indican vendedor_id. Sin fecha se asume hoy.
// @Tags agenda
// @Produce json
// @Security BearerAuth
// @Param fecha query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Param vendedor_id query string false "UUID del vendedor (solo back office)"
// @Success 200 {object} dto.AgendaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/agenda [get]
func (h *PlanificacionesHandler) Agenda(c *gin.Context) {
	var filter dto.AgendaFilter
	if !bindQuery(c, &filter) {
		return
	}

	claims := middleware.GetClaims(c)
	vendedorID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	if claims.Rol != string(model.RolVendedor) {
		if filter.VendedorID == "" {
			c.JSON(http.StatusBadRequest, apierror.New("vendedor_id es requerido"))
			return
		}
		id, err := uuid.Parse(filter.VendedorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("vendedor_id invalido"))
			return
		}
		vendedorID = id
	}

	var fecha time.Time
	if filter.Fecha != "" {
		f, err := time.Parse("2006-01-02", filter.Fecha)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("fecha invalida"))
			return
		}
		fecha = f
	}

	resp, err := h.svc.Agenda(c.Request.Context(), vendedorID, fecha)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarClienteNuevo godoc
// @Summary Registra un cliente captado en ruta
// @Description Crea el cliente, su parada al final de la ruta del vendedor y una planificacion no programada para hoy, todo en una transaccion.
// @Tags agenda
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ClienteNuevoVendedorRequest true "Cliente"
// @Success 201 {object} dto.VisitaNoPlanificadaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/agenda/clientes [post]
func (h *PlanificacionesHandler) RegistrarClienteNuevo(c *gin.Context) {
	var req dto.ClienteNuevoVendedorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	vendedorID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	resp, err := h.svc.RegistrarClienteNuevo(c.Request.Context(), vendedorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
