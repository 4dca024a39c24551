package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice outcomes for a Pago.
// "ninguna": no invoice requested. "pendiente": requested but the facturador
// failed — retried by the retry cron. "emitida" / "error" are terminal.
const (
	FacturaNinguna   = "ninguna"
	FacturaPendiente = "pendiente"
	FacturaEmitida   = "emitida"
	FacturaError     = "error"
)

// PagoItem kinds.
const (
	ItemServicio  = "servicio"
	ItemProducto  = "producto"
	ItemPenalidad = "penalidad"
)

// Pago is the settlement record of a closed turno or grupo. Exactly one of
// TurnoID / GrupoID is set.
type Pago struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroRecibo    int             `gorm:"uniqueIndex;not null"`
	TurnoID         *uuid.UUID      `gorm:"type:uuid;index"`
	GrupoID         *uuid.UUID      `gorm:"type:uuid;index"`
	Metodo          string          `gorm:"type:varchar(20);not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreditoGiftcard decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreditoSena     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Penalidad       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	GiftCardID      *uuid.UUID      `gorm:"type:uuid"`
	SenaID          *uuid.UUID      `gorm:"type:uuid"`
	EstadoFactura   string          `gorm:"type:varchar(20);not null;default:'ninguna'"`
	FacturaID       *string         `gorm:"type:varchar(64)"`
	Observaciones   *string         `gorm:"type:text"`
	// PDFPath is set by the recibo worker once the PDF exists on disk.
	PDFPath *string `gorm:"column:pdf_path"`
	// Retry fields — used by the retry cron to re-attempt failed facturador calls
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []PagoItem `gorm:"foreignKey:PagoID"`
}

// PagoItem is one settlement line: the main servicio, an added servicio, an
// added producto, or the lateness penalidad. ComisionMonto is the resolved
// commission owed to ComisionEmpleadoID for this line, consumed by the
// adjacent payroll liquidación system.
type PagoItem struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PagoID             uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tipo               string          `gorm:"type:varchar(20);not null"`
	ReferenciaID       *uuid.UUID      `gorm:"type:uuid"`
	Descripcion        string          `gorm:"not null"`
	Cantidad           int             `gorm:"not null;default:1"`
	PrecioUnitario     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ComisionEmpleadoID *uuid.UUID      `gorm:"type:uuid"`
	ComisionMonto      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}
