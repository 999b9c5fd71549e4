package events

import (
	"encoding/json"
	"fmt"
	"time"

	"subscription-api/models"
)

// subscriptionObject decodes only the fields used locally so the reconciler does not depend on
// the API version pinned by the SDK. Period bounds moved onto subscription items in 2025.
type subscriptionObject struct {
	ID                string            `json:"id"`
	Status            string            `json:"status"`
	Customer          json.RawMessage   `json:"customer"`
	CancelAtPeriodEnd bool              `json:"cancel_at_period_end"`
	Created           int64             `json:"created"`
	CurrentPeriodEnd  int64             `json:"current_period_end"`
	Metadata          map[string]string `json:"metadata"`
	Items             struct {
		Data []struct {
			CurrentPeriodEnd int64 `json:"current_period_end"`
			Price            struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

func decodeSubscription(raw json.RawMessage) (*Subscription, error) {
	var obj subscriptionObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: subscription object: %v", ErrMalformed, err)
	}
	if obj.ID == "" {
		return nil, fmt.Errorf("%w: subscription object without id", ErrMalformed)
	}

	sub := &Subscription{
		ID:                obj.ID,
		Status:            obj.Status,
		CustomerID:        expandableID(obj.Customer),
		CancelAtPeriodEnd: obj.CancelAtPeriodEnd,
		Created:           unix(obj.Created),
		CorrelationID:     obj.Metadata[models.MetadataPaymentLog],
	}

	periodEnd := obj.CurrentPeriodEnd
	if len(obj.Items.Data) > 0 {
		item := obj.Items.Data[0]
		sub.PriceID = item.Price.ID
		if periodEnd == 0 {
			periodEnd = item.CurrentPeriodEnd
		}
	}
	sub.CurrentPeriodEnd = unix(periodEnd)

	return sub, nil
}

// expandableID reads a Stripe field that is either an id string or an expanded object.
func expandableID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.ID
	}
	return ""
}

func unix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
