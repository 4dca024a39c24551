package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Commission rule kinds — see ComisionTipo fields.
const (
	ComisionPorcentaje = "porcentaje"
	ComisionFija       = "fija"
)

// Servicio is a bookable service from the catalog.
// PrecioDescuento, when set, is the promotional tier selectable at close-out.
// RecursoID binds the servicio to a finite shared resource (nil = none).
type Servicio struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre          string          `gorm:"not null"`
	DuracionMinutos int             `gorm:"not null"`
	Precio          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioDescuento *decimal.Decimal `gorm:"type:decimal(12,2)"`
	RecursoID       *uuid.UUID      `gorm:"type:uuid;index"`
	// ComisionTipo / ComisionValor is the base commission rule for the
	// empleado performing the servicio: "porcentaje" (of the line price)
	// or "fija" (flat amount per unit).
	ComisionTipo  string          `gorm:"type:varchar(20);not null;default:'porcentaje'"`
	ComisionValor decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Activo        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Recurso *Recurso `gorm:"foreignKey:RecursoID"`
	// Habilitados lists the empleados allowed to perform the servicio.
	// Empty list = any empleado may perform it.
	Habilitados []ServicioEmpleado `gorm:"foreignKey:ServicioID"`
	// ComisionesEmpleado are per-empleado overrides of the base rule.
	ComisionesEmpleado []ComisionEmpleado `gorm:"foreignKey:ServicioID"`
}

// ServicioEmpleado marks an empleado as eligible to perform a servicio.
type ServicioEmpleado struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ServicioID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_servicio_empleado;not null"`
	EmpleadoID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_servicio_empleado;not null"`
}

func (ServicioEmpleado) TableName() string { return "servicios_empleados" }

// ComisionEmpleado overrides the servicio's base commission rule for one
// empleado. Resolution order is explicit: override if present, else base.
type ComisionEmpleado struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ServicioID uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_comision_empleado;not null"`
	EmpleadoID uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_comision_empleado;not null"`
	Tipo       string          `gorm:"type:varchar(20);not null"`
	Valor      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (ComisionEmpleado) TableName() string { return "comisiones_empleado" }

// EmpleadoHabilitado reports whether empleadoID may perform the servicio.
// An empty Habilitados list means any empleado is eligible.
func (s *Servicio) EmpleadoHabilitado(empleadoID uuid.UUID) bool {
	if len(s.Habilitados) == 0 {
		return true
	}
	for _, h := range s.Habilitados {
		if h.EmpleadoID == empleadoID {
			return true
		}
	}
	return false
}

// ComisionPara resolves the commission rule for an empleado: the per-empleado
// override when present, else the servicio's base rule.
func (s *Servicio) ComisionPara(empleadoID uuid.UUID) (tipo string, valor decimal.Decimal) {
	for _, c := range s.ComisionesEmpleado {
		if c.EmpleadoID == empleadoID {
			return c.Tipo, c.Valor
		}
	}
	return s.ComisionTipo, s.ComisionValor
}
