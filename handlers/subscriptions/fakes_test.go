package subscriptions

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"subscription-api/middleware"
	"subscription-api/models"
	"subscription-api/processor"
	"subscription-api/repositories"
	"subscription-api/testutils"
	"subscription-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const testWebhookSecret = "whsec_test_subscription_handler"

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	testutils.InitTestMain()
	utils.Logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type fakePayments struct {
	created   []*models.PaymentLog
	outcomes  map[string]string
	canceled  []string
	createErr error
	calls     int
}

func newFakePayments() *fakePayments {
	return &fakePayments{outcomes: map[string]string{}}
}

func (f *fakePayments) Create(ctx context.Context, log *models.PaymentLog) error {
	f.calls++
	if f.createErr != nil {
		return f.createErr
	}
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	f.created = append(f.created, log)
	return nil
}

func (f *fakePayments) RecordOutcome(ctx context.Context, id string, response datatypes.JSON, status string) error {
	f.calls++
	f.outcomes[id] = status
	return nil
}

func (f *fakePayments) MarkCanceled(ctx context.Context, id string) error {
	f.calls++
	f.canceled = append(f.canceled, id)
	for _, l := range f.created {
		if l.ID == id {
			l.Status = models.PaymentLogCancel
			l.Event = models.PaymentLogCancel
		}
	}
	return nil
}

type fakeSubscriptions struct {
	records []*models.Subscription
	calls   int
	findErr error
}

func (f *fakeSubscriptions) Create(ctx context.Context, sub *models.Subscription) error {
	f.calls++
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	f.records = append(f.records, sub)
	return nil
}

func (f *fakeSubscriptions) FindLiveForUser(ctx context.Context, userID string, now time.Time) (*models.Subscription, error) {
	f.calls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, s := range f.records {
		if s.UserID == userID && s.IsLive(now) {
			return s, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeSubscriptions) FindLiveByProcessorID(ctx context.Context, userID, subscriptionID string, now time.Time) (*models.Subscription, error) {
	f.calls++
	for _, s := range f.records {
		if s.UserID == userID && s.SubscriptionID == subscriptionID && s.IsLive(now) {
			return s, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeSubscriptions) FindIncomplete(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	f.calls++
	for _, s := range f.records {
		if s.SubscriptionID == subscriptionID && s.SubscriptionStatus == models.SubscriptionIncomplete {
			return s, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeSubscriptions) Activate(ctx context.Context, id string) error {
	f.calls++
	for _, s := range f.records {
		if s.ID == id {
			s.SubscriptionStatus = models.SubscriptionActive
			s.SubscriptionType = models.SubscriptionTypeNew
		}
	}
	return nil
}

func (f *fakeSubscriptions) FindByID(ctx context.Context, id string) (*models.Subscription, error) {
	f.calls++
	for _, s := range f.records {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeSubscriptions) ListForUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	f.calls++
	var out []models.Subscription
	for _, s := range f.records {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeProcessor struct {
	price      *processor.Price
	priceErr   error
	sessionErr error
	checkouts  []processor.CheckoutParams
	canceled   []string
	calls      int
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{price: &processor.Price{ID: "price_1", ProductID: "prod_1"}}
}

func (f *fakeProcessor) DefaultPrice(ctx context.Context) (*processor.Price, error) {
	f.calls++
	if f.priceErr != nil {
		return nil, f.priceErr
	}
	return f.price, nil
}

func (f *fakeProcessor) CreateCheckoutSession(ctx context.Context, params processor.CheckoutParams) (*processor.CheckoutSession, error) {
	f.calls++
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	f.checkouts = append(f.checkouts, params)
	return &processor.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

func (f *fakeProcessor) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error {
	f.calls++
	f.canceled = append(f.canceled, subscriptionID)
	return nil
}

type fixture struct {
	payments      *fakePayments
	subscriptions *fakeSubscriptions
	processor     *fakeProcessor
	handler       *Handler
}

func newFixture() *fixture {
	f := &fixture{
		payments:      newFakePayments(),
		subscriptions: &fakeSubscriptions{},
		processor:     newFakeProcessor(),
	}
	f.handler = New(f.payments, f.subscriptions, f.processor, testWebhookSecret,
		WithClock(func() time.Time { return fixedNow }))
	return f
}

// router mounts the handler the way routes.SetupRouter does, with userID standing in for the JWT.
func (f *fixture) router(userID string) *gin.Engine {
	r := testutils.SetupTestRouter()
	api := r.Group("/api/subscription")
	api.POST("/webhook", f.handler.HandleWebhook)

	authed := api.Group("")
	authed.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.UserIDKey, userID)
		}
		c.Next()
	})
	authed.POST("", f.handler.CreateCheckoutSession)
	authed.GET("", f.handler.GetUserSubscriptions)
	authed.GET("/:id", f.handler.GetSubscriptionDetail)
	authed.POST("/cancel-payment", f.handler.CancelPayment)
	authed.POST("/cancel", f.handler.CancelSubscription)
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	jsonData, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func errorMessage(resp *httptest.ResponseRecorder) string {
	var body map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &body)
	msg, _ := body["error"].(string)
	return msg
}
