package model

import (
	"time"

	"github.com/google/uuid"
)

// Empleado is a staff member who performs services.
type Empleado struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Email     *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Horarios  []HorarioEmpleado `gorm:"foreignKey:EmpleadoID"`
	Ausencias []Ausencia        `gorm:"foreignKey:EmpleadoID"`
}

// HorarioEmpleado is one weekly-schedule entry: the empleado works on
// DiaSemana between HoraInicio and HoraFin. No entry for a weekday means
// the empleado does not work that day.
// DiaSemana follows time.Weekday: 0 = domingo … 6 = sábado.
type HorarioEmpleado struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpleadoID uuid.UUID `gorm:"type:uuid;index;not null"`
	DiaSemana  int       `gorm:"not null"`
	// HoraInicio / HoraFin in 24h "HH:MM" format
	HoraInicio string `gorm:"type:varchar(5);not null"`
	HoraFin    string `gorm:"type:varchar(5);not null"`
}

func (HorarioEmpleado) TableName() string { return "horarios_empleado" }

// Ausencia blocks an empleado over a date range. When HoraInicio/HoraFin are
// nil the ausencia covers the whole day; otherwise only that sub-interval of
// each day in the range is blocked.
// Motivo: "vacaciones" | "enfermedad" | "personal" | "capacitacion"
type Ausencia struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpleadoID uuid.UUID `gorm:"type:uuid;index;not null"`
	FechaDesde time.Time `gorm:"type:date;not null"`
	FechaHasta time.Time `gorm:"type:date;not null"`
	HoraInicio *string   `gorm:"type:varchar(5)"`
	HoraFin    *string   `gorm:"type:varchar(5)"`
	Motivo     string    `gorm:"type:varchar(30);not null"`
	CreatedAt  time.Time
}

func (Ausencia) TableName() string { return "ausencias" }

// DiaCompleto reports whether the ausencia blocks the entire day.
func (a *Ausencia) DiaCompleto() bool {
	return a.HoraInicio == nil || a.HoraFin == nil
}

// CubreFecha reports whether fecha (a date, time component ignored) falls
// inside the ausencia's date range.
func (a *Ausencia) CubreFecha(fecha time.Time) bool {
	d := time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, time.UTC)
	desde := time.Date(a.FechaDesde.Year(), a.FechaDesde.Month(), a.FechaDesde.Day(), 0, 0, 0, 0, time.UTC)
	hasta := time.Date(a.FechaHasta.Year(), a.FechaHasta.Month(), a.FechaHasta.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(desde) && !d.After(hasta)
}
