// Package repositories holds the gorm-backed stores for subscription and payment log records.
package repositories

import (
	"context"
	"errors"
	"time"

	"subscription-api/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNotFound is returned by finders when no record matches.
var ErrNotFound = errors.New("record not found")

type PaymentLogRepository interface {
	Create(ctx context.Context, log *models.PaymentLog) error
	// RecordOutcome stores the processor response and normalised status on an existing log.
	RecordOutcome(ctx context.Context, id string, response datatypes.JSON, status string) error
	// MarkCanceled sets status and event to "cancel". Updating nothing is not an error.
	MarkCanceled(ctx context.Context, id string) error
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *models.Subscription) error
	// FindLiveForUser returns the user's active or trialing record whose end date is not before now.
	FindLiveForUser(ctx context.Context, userID string, now time.Time) (*models.Subscription, error)
	// FindLiveByProcessorID is FindLiveForUser restricted to one processor subscription id.
	FindLiveByProcessorID(ctx context.Context, userID, subscriptionID string, now time.Time) (*models.Subscription, error)
	FindIncomplete(ctx context.Context, subscriptionID string) (*models.Subscription, error)
	// Activate moves the record to active/new.
	Activate(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.Subscription, error)
	ListForUser(ctx context.Context, userID string) ([]models.Subscription, error)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
