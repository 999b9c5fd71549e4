// Package events decodes Stripe webhook envelopes into the few shapes the reconciler acts on.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"subscription-api/models"

	"github.com/samber/lo"
	stripe "github.com/stripe/stripe-go/v82"
)

type Kind int

const (
	Unrecognized Kind = iota
	Invoice
	SubscriptionCreated
	SubscriptionUpdated
	CheckoutSession
	PaymentIntent
	// Unlogged events are acknowledged without writing a payment log.
	Unlogged
)

func (k Kind) String() string {
	switch k {
	case Invoice:
		return "invoice"
	case SubscriptionCreated:
		return "subscription_created"
	case SubscriptionUpdated:
		return "subscription_updated"
	case CheckoutSession:
		return "checkout_session"
	case PaymentIntent:
		return "payment_intent"
	case Unlogged:
		return "unlogged"
	default:
		return "unrecognized"
	}
}

var kinds = map[stripe.EventType]Kind{
	stripe.EventTypeInvoicePaymentSucceeded:     Invoice,
	stripe.EventTypeInvoiceUpdated:              Invoice,
	stripe.EventTypeInvoiceCreated:              Invoice,
	stripe.EventTypeCustomerSubscriptionCreated: SubscriptionCreated,
	stripe.EventTypeCustomerSubscriptionUpdated: SubscriptionUpdated,
	stripe.EventTypeCheckoutSessionCompleted:    CheckoutSession,
	stripe.EventTypePaymentIntentSucceeded:      PaymentIntent,
	stripe.EventTypePaymentIntentCreated:        PaymentIntent,
	stripe.EventTypeChargeSucceeded:             Unlogged,
	stripe.EventTypePaymentMethodAttached:       Unlogged,
}

var ErrMalformed = errors.New("malformed event envelope")

// Event is a webhook delivery decoded once at the boundary.
type Event struct {
	ID     string
	Type   stripe.EventType
	Kind   Kind
	UserID string
	// Status is the object's status field, or models.PaymentLogNoStatus.
	Status string
	// Payload is the envelope exactly as delivered.
	Payload json.RawMessage
	// Subscription is set for SubscriptionCreated and SubscriptionUpdated.
	Subscription *Subscription
}

// Logged reports whether the delivery is recorded as a payment log.
func (e *Event) Logged() bool {
	return e.Kind != Unlogged
}

// Subscription is the part of a Stripe subscription object the reconciler needs.
type Subscription struct {
	ID                string
	Status            string
	CustomerID        string
	PriceID           string
	CancelAtPeriodEnd bool
	Created           time.Time
	CurrentPeriodEnd  time.Time
	// CorrelationID is the payment log id sent as metadata at checkout.
	CorrelationID string
}

// Decode parses a webhook body. It does not verify the signature.
func Decode(payload []byte) (*Event, error) {
	var env stripe.Event
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Type == "" || env.Data == nil || env.Data.Object == nil {
		return nil, ErrMalformed
	}

	ev := &Event{
		ID:      env.ID,
		Type:    env.Type,
		Kind:    kinds[env.Type],
		Status:  models.PaymentLogNoStatus,
		Payload: json.RawMessage(payload),
	}
	if status, ok := env.Data.Object["status"].(string); ok && status != "" {
		ev.Status = status
	}

	obj := env.Data.Object
	switch ev.Kind {
	case Invoice:
		ev.UserID = invoiceUserID(obj)
	case SubscriptionCreated, SubscriptionUpdated, CheckoutSession, PaymentIntent:
		ev.UserID = stringAt(obj, "metadata", models.MetadataUserID)
	}

	if ev.Kind == SubscriptionCreated || ev.Kind == SubscriptionUpdated {
		sub, err := decodeSubscription(env.Data.Raw)
		if err != nil {
			return nil, err
		}
		ev.Subscription = sub
	}

	return ev, nil
}

// invoiceUserID looks in the places Stripe has carried subscription metadata on invoices across
// API versions.
func invoiceUserID(obj map[string]interface{}) string {
	candidates := []string{
		stringAt(obj, "subscription_details", "metadata", models.MetadataUserID),
		stringAt(obj, "subscription_details", models.MetadataUserID),
		stringAt(obj, "parent", "subscription_details", "metadata", models.MetadataUserID),
	}
	id, _ := lo.Find(candidates, func(s string) bool { return s != "" })
	return id
}

func stringAt(obj map[string]interface{}, path ...string) string {
	var cur interface{} = obj
	for _, key := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return ""
		}
		cur = m[key]
	}
	s, _ := cur.(string)
	return s
}
