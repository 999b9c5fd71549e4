package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionStatus string

// Values mirrored from Stripe. Any other processor string is stored as-is.
const (
	SubscriptionIncomplete SubscriptionStatus = "incomplete"
	SubscriptionTrialing   SubscriptionStatus = "trialing"
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionCanceled   SubscriptionStatus = "canceled"
)

type SubscriptionType string

const (
	SubscriptionTypeNew     SubscriptionType = "new"
	SubscriptionTypeRenewal SubscriptionType = "renewal"
	SubscriptionTypeTrial   SubscriptionType = "trial"
)

const PaymentStatusComplete = "complete"

// LiveStatuses are the statuses that count as a subscription the user currently holds.
var LiveStatuses = []SubscriptionStatus{SubscriptionActive, SubscriptionTrialing}

// Subscription is the local mirror of one Stripe subscription billing cycle.
// @Description Subscription record mirrored from Stripe events
type Subscription struct {
	ID                 string             `json:"id" gorm:"primaryKey;type:uuid"`
	UserID             string             `json:"userId" gorm:"index;not null"`
	SubscriptionID     string             `json:"subscriptionId" gorm:"index;not null"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus" gorm:"type:varchar(32)"`
	StartDate          time.Time          `json:"startDate"`
	EndDate            time.Time          `json:"endDate"`
	PaymentStatus      string             `json:"paymentStatus" gorm:"type:varchar(32)"`
	SubscriptionType   SubscriptionType   `json:"subscriptionType" gorm:"type:varchar(32)"`
	CustomerID         string             `json:"customerId"`
	PriceID            string             `json:"priceId"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// IsLive reports whether the record is active or trialing and its period has not elapsed at now.
func (s *Subscription) IsLive(now time.Time) bool {
	if s.SubscriptionStatus != SubscriptionActive && s.SubscriptionStatus != SubscriptionTrialing {
		return false
	}
	return !s.EndDate.Before(now)
}
