package handler

import (
	"net/http"

	"agendasalon/internal/apierror"
	"agendasalon/internal/dto"
	"agendasalon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TurnosHandler struct{ svc service.AgendaService }

func NewTurnosHandler(svc service.AgendaService) *TurnosHandler { return &TurnosHandler{svc: svc} }

// CrearTurnos godoc
// @Summary      Crear turnos
// @Description  Crea uno o más turnos simultáneos para un cliente. Valida habilitación del empleado, horario del local, disponibilidad y capacidad de recursos (chequeo blando, forzable con omitir_chequeo_recursos).
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearTurnosRequest true "Detalle de los turnos"
// @Success      201  {object} dto.TurnosCreadosResponse
// @Failure      409  {object} apierror.ConflictError
// @Failure      422  {object} apierror.RejectionError
// @Router       /v1/turnos [post]
func (h *TurnosHandler) CrearTurnos(c *gin.Context) {
	var req dto.CrearTurnosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearTurnos(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EditarTurno godoc
// @Summary      Editar turno
// @Description  Edita un turno pendiente cuyo horario no pasó. Revalida todas las reglas de admisión.
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del turno"
// @Param        body body dto.EditarTurnoRequest true "Campos a modificar"
// @Success      200  {object} dto.TurnoResponse
// @Failure      409  {object} apierror.ConflictError
// @Failure      422  {object} apierror.RejectionError
// @Router       /v1/turnos/{id} [put]
func (h *TurnosHandler) EditarTurno(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.EditarTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EditarTurno(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// IniciarTurno godoc
// @Summary      Iniciar turno
// @Description  Marca el turno como en curso y registra la tardanza del cliente. Permitido desde 60 minutos antes del horario programado.
// @Tags         turnos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del turno"
// @Success      200 {object} dto.TurnoResponse
// @Failure      422 {object} apierror.RejectionError
// @Router       /v1/turnos/{id}/iniciar [post]
func (h *TurnosHandler) IniciarTurno(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.IniciarTurno(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CancelarTurno godoc
// @Summary      Cancelar turno
// @Description  Cancela un turno registrando el motivo. El horario queda liberado de inmediato.
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del turno"
// @Param        body body dto.CancelarTurnoRequest true "Motivo de cancelación"
// @Success      204
// @Failure      422 {object} apierror.RejectionError
// @Router       /v1/turnos/{id} [delete]
func (h *TurnosHandler) CancelarTurno(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CancelarTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CancelarTurno(c.Request.Context(), id, req.Motivo); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EnviarConfirmacion godoc
// @Summary      Enviar pedido de confirmación
// @Description  Encola el email de confirmación al cliente y marca el turno como confirmación enviada.
// @Tags         turnos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del turno"
// @Success      200 {object} dto.TurnoResponse
// @Failure      422 {object} apierror.RejectionError
// @Router       /v1/turnos/{id}/confirmacion [post]
func (h *TurnosHandler) EnviarConfirmacion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.EnviarConfirmacion(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResponderConfirmacion godoc
// @Summary      Responder confirmación
// @Description  Registra la respuesta del cliente: confirmado, o cancelado (que también cancela el turno).
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del turno"
// @Param        body body dto.ConfirmacionRequest true "Respuesta del cliente"
// @Success      200 {object} dto.TurnoResponse
// @Failure      422 {object} apierror.RejectionError
// @Router       /v1/turnos/{id}/confirmacion [put]
func (h *TurnosHandler) ResponderConfirmacion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ConfirmacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ResponderConfirmacion(c.Request.Context(), id, req.Estado)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarTurnos godoc
// @Summary      Listar turnos
// @Description  Retorna la lista paginada de turnos filtrada por fecha y estado.
// @Tags         turnos
// @Produce      json
// @Security     BearerAuth
// @Param        fecha  query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Param        estado query string false "pendiente | en_curso | completado | cancelado | all"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (default 50)"
// @Success      200    {object} dto.TurnoListResponse
// @Failure      400    {object} apierror.APIError
// @Router       /v1/turnos [get]
func (h *TurnosHandler) ListarTurnos(c *gin.Context) {
	var filter dto.TurnoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarTurnos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar turnos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgendaEmpleado godoc
// @Summary      Agenda de un empleado
// @Description  Retorna la ventana laboral resuelta, los bloqueos por ausencias parciales y los turnos del día para un empleado.
// @Tags         turnos
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true "UUID del empleado"
// @Param        fecha query string true "Fecha YYYY-MM-DD"
// @Success      200   {object} dto.AgendaEmpleadoResponse
// @Failure      400   {object} apierror.APIError
// @Router       /v1/empleados/{id}/agenda [get]
func (h *TurnosHandler) AgendaEmpleado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	fecha := c.Query("fecha")
	if fecha == "" {
		c.JSON(http.StatusBadRequest, apierror.New("El parámetro fecha es requerido"))
		return
	}
	resp, err := h.svc.AgendaEmpleado(c.Request.Context(), id, fecha)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
