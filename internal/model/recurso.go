package model

import (
	"time"

	"github.com/google/uuid"
)

// Recurso is a finite shared physical resource (a chair, a dryer, a cabin)
// consumed by certain servicios. Cantidad is the number of units usable
// concurrently.
type Recurso struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Cantidad  int       `gorm:"not null"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HorarioLocal is the business-hours window for one weekday.
// No active row for a weekday means the salon is closed that day and no
// window check applies to it.
type HorarioLocal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DiaSemana int       `gorm:"uniqueIndex;not null"`
	// Apertura / Cierre in 24h "HH:MM" format
	Apertura string `gorm:"type:varchar(5);not null"`
	Cierre   string `gorm:"type:varchar(5);not null"`
	Activo   bool   `gorm:"not null;default:true"`
}

func (HorarioLocal) TableName() string { return "horarios_local" }
