package repository

import (
	"context"
	"time"

	"agendasalon/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PagoRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, p *model.Pago) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error)
	Update(ctx context.Context, p *model.Pago) error
	NextReciboNumber(ctx context.Context, tx *gorm.DB) (int, error)
	// ListPendingRetries returns pagos with estado_factura='pendiente' whose
	// next_retry_at has elapsed, oldest first, up to limit.
	ListPendingRetries(ctx context.Context, before time.Time, limit int) ([]model.Pago, error)
	DB() *gorm.DB
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) DB() *gorm.DB { return r.db }

func (r *pagoRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Pago) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *pagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	err := r.db.WithContext(ctx).Preload("Items").First(&p, id).Error
	return &p, err
}

func (r *pagoRepo) Update(ctx context.Context, p *model.Pago) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *pagoRepo) NextReciboNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	// Uses a PostgreSQL sequence for atomic receipt number generation
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('pagos_numero_recibo_seq')").Scan(&num).Error
	return num, err
}

func (r *pagoRepo) ListPendingRetries(ctx context.Context, before time.Time, limit int) ([]model.Pago, error) {
	var pagos []model.Pago
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("estado_factura = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", model.FacturaPendiente, before).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&pagos).Error
	return pagos, err
}
