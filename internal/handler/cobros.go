package handler

import (
	"net/http"

	"agendasalon/internal/apierror"
	"agendasalon/internal/dto"
	"agendasalon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CobrosHandler struct{ svc service.CobroService }

func NewCobrosHandler(svc service.CobroService) *CobrosHandler { return &CobrosHandler{svc: svc} }

// CerrarTurno godoc
// @Summary      Cobrar un turno
// @Description  Cierra un turno en curso: resuelve precios y comisiones, aplica gift card o seña, registra el pago y despacha la factura sin bloquear el cobro.
// @Tags         cobros
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CerrarTurnoRequest true "Detalle del cobro"
// @Success      201  {object} dto.CobroResponse
// @Failure      422  {object} apierror.RejectionError
// @Router       /v1/cobros [post]
func (h *CobrosHandler) CerrarTurno(c *gin.Context) {
	var req dto.CerrarTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CerrarTurno(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DescargarRecibo godoc
// @Summary      Descargar recibo en PDF
// @Description  Devuelve el recibo PDF de un pago. El PDF se genera de forma asíncrona al cerrar el cobro; hasta entonces responde 404.
// @Tags         cobros
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "ID del pago"
// @Success      200 {file} file
// @Failure      404 {object} apierror.APIError
// @Router       /v1/cobros/{id}/recibo [get]
func (h *CobrosHandler) DescargarRecibo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	pago, err := h.svc.ObtenerPago(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("pago no encontrado"))
		return
	}
	if pago.PDFPath == nil {
		c.JSON(http.StatusNotFound, apierror.New("el recibo todavía no fue generado"))
		return
	}
	c.FileAttachment(*pago.PDFPath, "recibo.pdf")
}

// CerrarGrupo godoc
// @Summary      Cobrar un grupo de turnos
// @Description  Cierra todos los turnos no cancelados de un grupo en un único pago atómico.
// @Tags         cobros
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CerrarGrupoRequest true "Detalle del cobro grupal"
// @Success      201  {object} dto.CobroResponse
// @Failure      422  {object} apierror.RejectionError
// @Router       /v1/cobros/grupo [post]
func (h *CobrosHandler) CerrarGrupo(c *gin.Context) {
	var req dto.CerrarGrupoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CerrarGrupo(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
