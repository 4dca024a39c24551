package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GiftCard estados.
const (
	GiftCardActiva   = "activa"
	GiftCardRedimida = "redimida"
	GiftCardVencida  = "vencida"
)

// GiftCard is prepaid credit bound to specific servicios. Coverage is per
// servicio-id unit (one Servicios row = one redeemable unit of that servicio),
// not a blanket monetary credit.
type GiftCard struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero      string          `gorm:"uniqueIndex;not null"`
	MontoTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ValidaDesde time.Time       `gorm:"type:date;not null"`
	ValidaHasta time.Time       `gorm:"type:date;not null"`
	Estado      string          `gorm:"type:varchar(20);not null;default:'activa'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Servicios []GiftCardServicio `gorm:"foreignKey:GiftCardID"`
}

// GiftCardServicio is one redeemable unit of a servicio covered by the card.
type GiftCardServicio struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GiftCardID uuid.UUID `gorm:"type:uuid;index;not null"`
	ServicioID uuid.UUID `gorm:"type:uuid;not null"`
	Usado      bool      `gorm:"not null;default:false"`
}

func (GiftCardServicio) TableName() string { return "giftcard_servicios" }

// Vigente reports whether fecha falls inside the card's validity window and
// the card has not been fully redeemed.
func (g *GiftCard) Vigente(fecha time.Time) bool {
	if g.Estado != GiftCardActiva {
		return false
	}
	d := time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, time.UTC)
	desde := time.Date(g.ValidaDesde.Year(), g.ValidaDesde.Month(), g.ValidaDesde.Day(), 0, 0, 0, 0, time.UTC)
	hasta := time.Date(g.ValidaHasta.Year(), g.ValidaHasta.Month(), g.ValidaHasta.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(desde) && !d.After(hasta)
}
