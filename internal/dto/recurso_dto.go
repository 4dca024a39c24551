package dto

import "time"

// ItemDisponibilidadRequest is one candidate booking in a capacity pre-check.
type ItemDisponibilidadRequest struct {
	ServicioID      string `json:"servicio_id"      validate:"required,uuid"`
	DuracionMinutos int    `json:"duracion_minutos" validate:"required,min=1"`
}

// DisponibilidadRequest is the payload of POST /v1/recursos/disponibilidad,
// used by the booking editor before create/edit. ExcluirIDs lists turno ids
// being edited so an appointment does not conflict with itself.
type DisponibilidadRequest struct {
	Inicio     time.Time                   `json:"inicio" validate:"required"`
	Items      []ItemDisponibilidadRequest `json:"items"  validate:"required,min=1,dive"`
	ExcluirIDs []string                    `json:"excluir_ids" validate:"omitempty,dive,uuid"`
}

// ConflictoRecurso reports one over-subscribed recurso: the peak number of
// concurrent bookings requiring it exceeds the available quantity.
type ConflictoRecurso struct {
	RecursoID          string `json:"recurso_id"`
	RecursoNombre      string `json:"recurso_nombre"`
	CantidadDisponible int    `json:"cantidad_disponible"`
	CantidadRequerida  int    `json:"cantidad_requerida"`
}

type DisponibilidadResponse struct {
	Conflictos []ConflictoRecurso `json:"conflictos"`
}
