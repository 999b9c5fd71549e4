package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PaymentLogNoStatus = "NO-STATUS"
	PaymentLogPending  = "pending"
	PaymentLogSuccess  = "success"
	PaymentLogCancel   = "cancel"

	// PaymentLogCheckoutEvent marks the log written before the user is sent to Stripe.
	PaymentLogCheckoutEvent = "checkout.session.requested"
)

// Metadata keys written on the checkout session and read back from webhook payloads.
const (
	MetadataUserID     = "userId"
	MetadataPaymentLog = "paymentLog"
)

// PaymentLog is the audit trail of one outbound checkout request or one inbound Stripe event.
// @Description Payment attempt or webhook delivery
type PaymentLog struct {
	ID        string         `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    string         `json:"userId" gorm:"index"`
	Request   datatypes.JSON `json:"request" gorm:"type:jsonb"`
	Response  datatypes.JSON `json:"response" gorm:"type:jsonb"`
	Status    string         `json:"status" gorm:"type:varchar(64)"`
	Event     string         `json:"event" gorm:"type:varchar(128)"`
	EventID   string         `json:"eventId" gorm:"index"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (PaymentLog) TableName() string {
	return "payment_logs"
}

func (p *PaymentLog) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
