package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemTurnoRequest is one candidate booking inside a create request. All items
// of one request share the start time; more than one item creates a grupo.
type ItemTurnoRequest struct {
	ServicioID      string `json:"servicio_id" validate:"required,uuid"`
	EmpleadoID      string `json:"empleado_id" validate:"required,uuid"`
	DuracionMinutos int    `json:"duracion_minutos" validate:"required,min=1"`
}

type CrearTurnosRequest struct {
	ClienteID string             `json:"cliente_id" validate:"required,uuid"`
	Inicio    time.Time          `json:"inicio"     validate:"required"`
	Items     []ItemTurnoRequest `json:"items"      validate:"required,min=1,dive"`
	// OmitirChequeoRecursos skips only the soft resource-capacity rule;
	// set by the operator when retrying after a 409.
	OmitirChequeoRecursos bool    `json:"omitir_chequeo_recursos"`
	Observaciones         *string `json:"observaciones"`
}

// EditarTurnoRequest is a partial update, permitted only while pendiente and
// before the scheduled start.
type EditarTurnoRequest struct {
	ServicioID            *string    `json:"servicio_id"      validate:"omitempty,uuid"`
	EmpleadoID            *string    `json:"empleado_id"      validate:"omitempty,uuid"`
	Inicio                *time.Time `json:"inicio"`
	DuracionMinutos       *int       `json:"duracion_minutos" validate:"omitempty,min=1"`
	Observaciones         *string    `json:"observaciones"`
	OmitirChequeoRecursos bool       `json:"omitir_chequeo_recursos"`
}

type CancelarTurnoRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// ConfirmacionRequest updates the confirmation sub-status from the client's
// side: confirmado, or cancelado (which also cancels the turno).
type ConfirmacionRequest struct {
	Estado string `json:"estado" validate:"required,oneof=confirmado cancelado"`
}

// TurnoFilter is bound from query string of GET /v1/turnos.
type TurnoFilter struct {
	Fecha  string `form:"fecha"`              // YYYY-MM-DD; empty = today
	Estado string `form:"estado,default=all"` // pendiente | en_curso | completado | cancelado | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TurnoResponse struct {
	ID              string          `json:"id"`
	ClienteID       string          `json:"cliente_id"`
	Cliente         string          `json:"cliente,omitempty"`
	ServicioID      string          `json:"servicio_id"`
	Servicio        string          `json:"servicio,omitempty"`
	ServicioFinalID *string         `json:"servicio_final_id,omitempty"`
	EmpleadoID      string          `json:"empleado_id"`
	Empleado        string          `json:"empleado,omitempty"`
	EmpleadoFinalID *string         `json:"empleado_final_id,omitempty"`
	Inicio          time.Time       `json:"inicio"`
	DuracionMinutos int             `json:"duracion_minutos"`
	Estado          string          `json:"estado"`
	Confirmacion    string          `json:"confirmacion"`
	GrupoID         *string         `json:"grupo_id,omitempty"`
	IniciadoEn      *time.Time      `json:"iniciado_en,omitempty"`
	MinutosTardanza int             `json:"minutos_tardanza"`
	Penalidad       decimal.Decimal `json:"penalidad"`
	Observaciones   *string         `json:"observaciones,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

type TurnosCreadosResponse struct {
	GrupoID *string         `json:"grupo_id,omitempty"`
	Turnos  []TurnoResponse `json:"turnos"`
}

type TurnoListResponse struct {
	Data  []TurnoResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// AgendaEmpleadoResponse is the calendar feed for one empleado and date:
// the resolved working window, partial-absence blocks, and the day's turnos.
type AgendaEmpleadoResponse struct {
	EmpleadoID string           `json:"empleado_id"`
	Fecha      string           `json:"fecha"`
	Disponible bool             `json:"disponible"`
	Ventana    *VentanaLaboral  `json:"ventana,omitempty"`
	Bloqueos   []BloqueoHorario `json:"bloqueos"`
	Turnos     []TurnoResponse  `json:"turnos"`
}

// VentanaLaboral is an empleado's effective working window for a date.
type VentanaLaboral struct {
	Inicio time.Time `json:"inicio"`
	Fin    time.Time `json:"fin"`
}

// BloqueoHorario is a partial-absence sub-interval inside a working window.
type BloqueoHorario struct {
	Inicio time.Time `json:"inicio"`
	Fin    time.Time `json:"fin"`
	Motivo string    `json:"motivo"`
}
