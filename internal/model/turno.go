package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Turno estados. Turnos are never deleted — cancellation is a status.
const (
	TurnoPendiente  = "pendiente"
	TurnoEnCurso    = "en_curso"
	TurnoCompletado = "completado"
	TurnoCancelado  = "cancelado"
)

// Confirmation sub-status, meaningful only while the turno is pendiente.
const (
	ConfirmacionNoEnviada  = "no_enviada"
	ConfirmacionEnviada    = "enviada"
	ConfirmacionConfirmado = "confirmado"
	ConfirmacionCancelado  = "cancelado"
)

// Turno is a booked appointment. ServicioFinalID / EmpleadoFinalID record a
// reassignment at close-out without losing what was originally booked.
type Turno struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	ServicioID      uuid.UUID  `gorm:"type:uuid;not null"`
	ServicioFinalID *uuid.UUID `gorm:"type:uuid"`
	EmpleadoID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	EmpleadoFinalID *uuid.UUID `gorm:"type:uuid"`
	Inicio          time.Time  `gorm:"not null;index"`
	DuracionMinutos int        `gorm:"not null"`
	Estado          string     `gorm:"type:varchar(20);not null;default:'pendiente'"`
	Confirmacion    string     `gorm:"type:varchar(20);not null;default:'no_enviada'"`
	// GrupoID links turnos created together at one start time (grupo).
	GrupoID *uuid.UUID `gorm:"type:uuid;index"`
	// IniciadoEn is set once, when the turno transitions to en_curso.
	// Lateness is derived from it server-side at close-out.
	IniciadoEn      *time.Time
	MinutosTardanza int             `gorm:"not null;default:0"`
	Penalidad       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MotivoCancel    *string
	Observaciones   *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Cliente  *Cliente  `gorm:"foreignKey:ClienteID"`
	Servicio *Servicio `gorm:"foreignKey:ServicioID"`
	Empleado *Empleado `gorm:"foreignKey:EmpleadoID"`
}

// Fin returns the scheduled end of the turno.
func (t *Turno) Fin() time.Time {
	return t.Inicio.Add(time.Duration(t.DuracionMinutos) * time.Minute)
}

// ServicioEfectivo returns the servicio id recorded at close-out when a
// reassignment happened, else the originally booked one.
func (t *Turno) ServicioEfectivo() uuid.UUID {
	if t.ServicioFinalID != nil {
		return *t.ServicioFinalID
	}
	return t.ServicioID
}

// EmpleadoEfectivo returns the empleado id recorded at close-out when a
// reassignment happened, else the originally booked one.
func (t *Turno) EmpleadoEfectivo() uuid.UUID {
	if t.EmpleadoFinalID != nil {
		return *t.EmpleadoFinalID
	}
	return t.EmpleadoID
}
