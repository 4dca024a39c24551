package service

import "agendasalon/internal/dto"

// Scheduling rejection kinds, in the order the admission rules run.
// The first four are hard (never overridable); conflicto_recurso is soft and
// may be skipped by retrying with omitir_chequeo_recursos.
const (
	ValidacionEmpleadoNoHabilitado = "empleado_no_habilitado"
	ValidacionEmpleadoDuplicado    = "empleado_duplicado"
	ValidacionFueraDeHorario       = "fuera_de_horario"
	ValidacionConflictoAusencia    = "conflicto_ausencia"
	ValidacionConflictoRecurso     = "conflicto_recurso"
	// ValidacionEstadoInvalido covers lifecycle violations: starting twice,
	// editing a completed turno, cancelling a cancelled one.
	ValidacionEstadoInvalido = "estado_invalido"
)

// ValidacionError is a hard rejection with enough detail to render to an
// operator. It never commits any side effect.
type ValidacionError struct {
	Tipo    string
	Mensaje string
}

func (e *ValidacionError) Error() string { return e.Mensaje }

func rechazo(tipo, mensaje string) *ValidacionError {
	return &ValidacionError{Tipo: tipo, Mensaje: mensaje}
}

// ConflictoRecursosError is the soft resource-capacity rejection. The caller
// may retry the same request with omitir_chequeo_recursos to force-accept.
type ConflictoRecursosError struct {
	Conflictos []dto.ConflictoRecurso
}

func (e *ConflictoRecursosError) Error() string {
	return "capacidad de recursos insuficiente para los turnos solicitados"
}
