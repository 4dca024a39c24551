package repository

import (
	"context"

	"agendasalon/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SenaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sena, error)
	// MarcarAplicadaTx consumes the seña inside the settlement transaction,
	// recording the pago that applied it.
	MarcarAplicadaTx(tx *gorm.DB, id, pagoID uuid.UUID) error
}

type senaRepo struct{ db *gorm.DB }

func NewSenaRepository(db *gorm.DB) SenaRepository { return &senaRepo{db: db} }

func (r *senaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sena, error) {
	var s model.Sena
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *senaRepo) MarcarAplicadaTx(tx *gorm.DB, id, pagoID uuid.UUID) error {
	return tx.Model(&model.Sena{}).
		Where("id = ? AND estado = ?", id, model.SenaPendiente).
		Updates(map[string]interface{}{"estado": model.SenaAplicada, "pago_id": pagoID}).Error
}

type GiftCardRepository interface {
	// FindByID loads the card with its covered servicio units.
	FindByID(ctx context.Context, id uuid.UUID) (*model.GiftCard, error)
	// ConsumirUnidadesTx marks the matched servicio units as used and flips
	// the card to redimida when none remain.
	ConsumirUnidadesTx(tx *gorm.DB, cardID uuid.UUID, unidadIDs []uuid.UUID, agotada bool) error
}

type giftcardRepo struct{ db *gorm.DB }

func NewGiftCardRepository(db *gorm.DB) GiftCardRepository { return &giftcardRepo{db: db} }

func (r *giftcardRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.GiftCard, error) {
	var g model.GiftCard
	err := r.db.WithContext(ctx).Preload("Servicios").First(&g, id).Error
	return &g, err
}

func (r *giftcardRepo) ConsumirUnidadesTx(tx *gorm.DB, cardID uuid.UUID, unidadIDs []uuid.UUID, agotada bool) error {
	if len(unidadIDs) > 0 {
		if err := tx.Model(&model.GiftCardServicio{}).
			Where("id IN ?", unidadIDs).
			Update("usado", true).Error; err != nil {
			return err
		}
	}
	if agotada {
		return tx.Model(&model.GiftCard{}).
			Where("id = ?", cardID).
			Update("estado", model.GiftCardRedimida).Error
	}
	return nil
}
