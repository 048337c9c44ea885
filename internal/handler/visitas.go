package handler

import (
	"io"
	"net/http"

	"github.com/dizanrev24/control-rutas/internal/apierror"
	"github.com/dizanrev24/control-rutas/internal/dto"
	"github.com/dizanrev24/control-rutas/internal/middleware"
	"github.com/dizanrev24/control-rutas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// maxFotoBytes caps the check-in photo upload.
const maxFotoBytes = 5 << 20

type VisitasHandler struct{ svc service.VisitaService }

func NewVisitasHandler(svc service.VisitaService) *VisitasHandler {
	return &VisitasHandler{svc: svc}
}

// Iniciar godoc
// @Summary Inicia la visita a un cliente (check-in)
// @Description Multipart: coordenadas del vendedor y foto opcional del local. Si la visita ya esta activa devuelve el registro existente sin modificarlo. La foto se hashea para detectar duplicados y la ubicacion se valida contra la geocerca del cliente; ninguna de las dos bloquea el check-in.
// @Tags visitas
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID de la planificacion"
// @Param latitud formData number false "Latitud del vendedor"
// @Param longitud formData number false "Longitud del vendedor"
// @Param foto formData file false "Foto del local"
// @Success 200 {object} dto.VisitaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/planificaciones/{id}/visita [post]
func (h *VisitasHandler) Iniciar(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.IniciarVisitaRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("formulario invalido: "+err.Error()))
		return
	}
	if err := validate.Struct(&req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return
	}

	foto, err := leerFoto(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	vendedorID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	resp, err := h.svc.Iniciar(c.Request.Context(), vendedorID, planID, req, foto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// leerFoto extracts the optional "foto" part into memory.
func leerFoto(c *gin.Context) (*service.FotoSubida, error) {
	fh, err := c.FormFile("foto")
	if err != nil {
		// Absent part: the check-in proceeds without a photo.
		return nil, nil
	}
	if fh.Size > maxFotoBytes {
		return nil, apierror.Validacion("la foto supera el tamano maximo de 5MB")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apierror.Validacion("no se pudo leer la foto")
	}
	defer f.Close()
	contenido, err := io.ReadAll(io.LimitReader(f, maxFotoBytes+1))
	if err != nil {
		return nil, apierror.Validacion("no se pudo leer la foto")
	}
	if len(contenido) > maxFotoBytes {
		return nil, apierror.Validacion("la foto supera el tamano maximo de 5MB")
	}
	return &service.FotoSubida{Nombre: fh.Filename, Contenido: contenido}, nil
}

// Finalizar godoc
// @Summary Finaliza la visita activa (check-out)
// @Tags visitas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID del detalle de visita"
// @Param body body dto.FinalizarVisitaRequest true "Observaciones de cierre"
// @Success 200 {object} dto.VisitaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/visitas/{id}/finalizar [put]
func (h *VisitasHandler) Finalizar(c *gin.Context) {
	detalleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.FinalizarVisitaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	vendedorID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	resp, err := h.svc.Finalizar(c.Request.Context(), vendedorID, detalleID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarcarNoVisita closes a stop without check-in (cliente cerrado, quebro).
func (h *VisitasHandler) MarcarNoVisita(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.MarcarNoVisitaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	vendedorID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	resp, err := h.svc.MarcarNoVisita(c.Request.Context(), vendedorID, planID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VisitasHandler) ObtenerDetalle(c *gin.Context) {
	detalleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	vendedorID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	resp, err := h.svc.ObtenerDetalle(c.Request.Context(), vendedorID, detalleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
