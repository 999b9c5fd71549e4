package repositories

import (
	"context"
	"fmt"
	"time"

	"subscription-api/models"

	"gorm.io/gorm"
)

type GormSubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

func (r *GormSubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("creating subscription %s: %w", sub.SubscriptionID, err)
	}
	return nil
}

func (r *GormSubscriptionRepository) live(ctx context.Context, userID string, now time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND subscription_status IN ? AND end_date >= ?", userID, models.LiveStatuses, now)
}

func (r *GormSubscriptionRepository) FindLiveForUser(ctx context.Context, userID string, now time.Time) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.live(ctx, userID, now).Order("end_date desc").First(&sub).Error; err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

func (r *GormSubscriptionRepository) FindLiveByProcessorID(ctx context.Context, userID, subscriptionID string, now time.Time) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.live(ctx, userID, now).
		Where("subscription_id = ?", subscriptionID).
		Order("end_date desc").
		First(&sub).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

func (r *GormSubscriptionRepository) FindIncomplete(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("subscription_id = ? AND subscription_status = ?", subscriptionID, models.SubscriptionIncomplete).
		First(&sub).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

func (r *GormSubscriptionRepository) Activate(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"subscription_status": models.SubscriptionActive,
			"subscription_type":   models.SubscriptionTypeNew,
		}).Error
	if err != nil {
		return fmt.Errorf("activating subscription %s: %w", id, err)
	}
	return nil
}

func (r *GormSubscriptionRepository) FindByID(ctx context.Context, id string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

func (r *GormSubscriptionRepository) ListForUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions for %s: %w", userID, err)
	}
	return subs, nil
}
