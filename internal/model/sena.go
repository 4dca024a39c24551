package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sena estados.
const (
	SenaPendiente = "pendiente"
	SenaAplicada  = "aplicada"
)

// Sena is a deposit pre-paid by a cliente against a future servicio.
// A seña is applied to at most one settlement; once aplicada it is excluded
// from future availability. PagoID records which settlement consumed it.
type Sena struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	ServicioID uuid.UUID       `gorm:"type:uuid;not null"`
	Monto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado     string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	MetodoPago string          `gorm:"type:varchar(20);not null"`
	PagoID     *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Sena) TableName() string { return "senas" }
