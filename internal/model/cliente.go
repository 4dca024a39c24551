package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a salon customer. Catalog CRUD lives in the admin panel;
// the core only reads clientes to validate bookings and settlements.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Telefono  *string
	Email     *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
