package repositories

import (
	"context"
	"fmt"

	"subscription-api/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GormPaymentLogRepository struct {
	db *gorm.DB
}

func NewPaymentLogRepository(db *gorm.DB) *GormPaymentLogRepository {
	return &GormPaymentLogRepository{db: db}
}

func (r *GormPaymentLogRepository) Create(ctx context.Context, log *models.PaymentLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("creating payment log: %w", err)
	}
	return nil
}

func (r *GormPaymentLogRepository) RecordOutcome(ctx context.Context, id string, response datatypes.JSON, status string) error {
	err := r.db.WithContext(ctx).
		Model(&models.PaymentLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"response": response,
			"status":   status,
		}).Error
	if err != nil {
		return fmt.Errorf("updating payment log %s: %w", id, err)
	}
	return nil
}

func (r *GormPaymentLogRepository) MarkCanceled(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Model(&models.PaymentLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status": models.PaymentLogCancel,
			"event":  models.PaymentLogCancel,
		}).Error
	if err != nil {
		return fmt.Errorf("canceling payment log %s: %w", id, err)
	}
	return nil
}
