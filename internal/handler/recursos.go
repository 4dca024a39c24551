package handler

import (
	"net/http"

	"agendasalon/internal/apierror"
	"agendasalon/internal/dto"
	"agendasalon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RecursosHandler struct{ svc service.RecursoService }

func NewRecursosHandler(svc service.RecursoService) *RecursosHandler {
	return &RecursosHandler{svc: svc}
}

// VerificarDisponibilidad godoc
// @Summary      Pre-chequeo de capacidad de recursos
// @Description  Evalúa si un conjunto de reservas candidatas satura algún recurso del local, considerando los turnos ya agendados del día. No persiste nada.
// @Tags         recursos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.DisponibilidadRequest true "Reservas candidatas"
// @Success      200  {object} dto.DisponibilidadResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/recursos/disponibilidad [post]
func (h *RecursosHandler) VerificarDisponibilidad(c *gin.Context) {
	var req dto.DisponibilidadRequest
	if !bindAndValidate(c, &req) {
		return
	}

	candidatos := make([]service.CandidatoRecurso, 0, len(req.Items))
	for _, item := range req.Items {
		sid, err := uuid.Parse(item.ServicioID)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("servicio_id invalido"))
			return
		}
		candidatos = append(candidatos, service.CandidatoRecurso{
			ServicioID:      sid,
			Inicio:          req.Inicio,
			DuracionMinutos: item.DuracionMinutos,
		})
	}
	excluir := make([]uuid.UUID, 0, len(req.ExcluirIDs))
	for _, raw := range req.ExcluirIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("excluir_ids invalido"))
			return
		}
		excluir = append(excluir, id)
	}

	conflictos, err := h.svc.VerificarCapacidad(c.Request.Context(), candidatos, excluir)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if conflictos == nil {
		conflictos = []dto.ConflictoRecurso{}
	}
	c.JSON(http.StatusOK, dto.DisponibilidadResponse{Conflictos: conflictos})
}
