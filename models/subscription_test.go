package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionIsLive(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		status SubscriptionStatus
		end    time.Time
		want   bool
	}{
		{"active in period", SubscriptionActive, now.Add(time.Hour), true},
		{"trialing in period", SubscriptionTrialing, now.Add(time.Hour), true},
		{"ends exactly now", SubscriptionActive, now, true},
		{"expired", SubscriptionActive, now.Add(-time.Second), false},
		{"incomplete", SubscriptionIncomplete, now.Add(time.Hour), false},
		{"canceled", SubscriptionCanceled, now.Add(time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &Subscription{SubscriptionStatus: tc.status, EndDate: tc.end}
			assert.Equal(t, tc.want, s.IsLive(now))
		})
	}
}

func TestBeforeCreateKeepsExistingID(t *testing.T) {
	s := &Subscription{ID: "fixed"}
	assert.NoError(t, s.BeforeCreate(nil))
	assert.Equal(t, "fixed", s.ID)

	p := &PaymentLog{}
	assert.NoError(t, p.BeforeCreate(nil))
	assert.Len(t, p.ID, 36)
}
