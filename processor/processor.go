// Package processor wraps the payment processor API behind a small interface so handlers can be
// constructed with a fake in tests.
package processor

import (
	"context"
	"errors"
)

// ErrNoPrice is returned when no active product exposes a default price.
var ErrNoPrice = errors.New("no active product with a default price")

type Price struct {
	ID        string
	ProductID string
}

type CheckoutParams struct {
	PriceID       string
	Quantity      int64
	SuccessURL    string
	CancelURL     string
	UserID        string
	CorrelationID string
	TrialDays     int64
}

type CheckoutSession struct {
	ID  string
	URL string
}

type Client interface {
	DefaultPrice(ctx context.Context) (*Price, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	// CancelAtPeriodEnd schedules cancellation at the end of the current billing period.
	CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error
}
