package processor

import (
	"context"
	"fmt"

	"subscription-api/models"
	"subscription-api/utils"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

type StripeClient struct {
	api *client.API
}

// NewBackends builds Stripe backends without network retries. An empty baseURL targets the live API.
func NewBackends(baseURL string) *stripe.Backends {
	cfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     utils.Logger,
	}
	if baseURL != "" {
		cfg.URL = stripe.String(baseURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)
	return &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	}
}

func NewStripeClient(secretKey string, backends *stripe.Backends) *StripeClient {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &StripeClient{api: api}
}

func (s *StripeClient) DefaultPrice(ctx context.Context) (*Price, error) {
	params := &stripe.ProductListParams{
		Active: stripe.Bool(true),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(10)

	iter := s.api.Products.List(params)
	for iter.Next() {
		p := iter.Product()
		if p.DefaultPrice != nil && p.DefaultPrice.ID != "" {
			return &Price{ID: p.DefaultPrice.ID, ProductID: p.ID}, nil
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("listing stripe products: %w", err)
	}
	return nil, ErrNoPrice
}

func (s *StripeClient) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	metadata := map[string]string{
		models.MetadataUserID:     p.UserID,
		models.MetadataPaymentLog: p.CorrelationID,
	}

	quantity := p.Quantity
	if quantity == 0 {
		quantity = 1
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.PriceID),
				Quantity: stripe.Int64(quantity),
			},
		},
		SuccessURL:        stripe.String(p.SuccessURL),
		CancelURL:         stripe.String(p.CancelURL),
		ClientReferenceID: stripe.String(p.UserID),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	if p.TrialDays > 0 {
		params.PaymentMethodCollection = stripe.String("if_required")
		params.SubscriptionData.TrialPeriodDays = stripe.Int64(p.TrialDays)
		params.SubscriptionData.TrialSettings = &stripe.CheckoutSessionSubscriptionDataTrialSettingsParams{
			EndBehavior: &stripe.CheckoutSessionSubscriptionDataTrialSettingsEndBehaviorParams{
				MissingPaymentMethod: stripe.String("cancel"),
			},
		}
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("creating stripe checkout session: %w", err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (s *StripeClient) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	params.Context = ctx

	if _, err := s.api.Subscriptions.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("scheduling cancellation of %s: %w", subscriptionID, err)
	}
	return nil
}
