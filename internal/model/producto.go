package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a retail product sellable as an added line item at close-out
// (shampoo, treatment kits). Catalog CRUD is out of core; the settlement
// engine only reads precio/activo.
type Producto struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre        string          `gorm:"not null"`
	Precio        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ComisionTipo  string          `gorm:"type:varchar(20);not null;default:'porcentaje'"`
	ComisionValor decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Activo        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
