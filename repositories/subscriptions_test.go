package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"subscription-api/models"
	"subscription-api/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var subscriptionColumns = []string{
	"id", "user_id", "subscription_id", "subscription_status", "start_date", "end_date",
	"payment_status", "subscription_type", "customer_id", "price_id", "created_at", "updated_at",
}

func TestSubscriptionCreate(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "subscriptions"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewSubscriptionRepository(gormDB)
	sub := &models.Subscription{
		UserID:             "user-1",
		SubscriptionID:     "sub_123",
		SubscriptionStatus: models.SubscriptionTrialing,
	}

	err := repo.Create(context.Background(), sub)

	assert.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLiveForUser_Found(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE user_id = \$1 AND subscription_status IN \(\$2,\$3\) AND end_date >= \$4 ORDER BY end_date desc`).
		WillReturnRows(sqlmock.NewRows(subscriptionColumns).
			AddRow("rec-1", "user-1", "sub_123", "active", now.Add(-24*time.Hour), now.Add(24*time.Hour),
				"complete", "new", "cus_1", "price_1", now, now))

	repo := NewSubscriptionRepository(gormDB)
	sub, err := repo.FindLiveForUser(context.Background(), "user-1", now)

	assert.NoError(t, err)
	assert.Equal(t, "sub_123", sub.SubscriptionID)
	assert.Equal(t, models.SubscriptionActive, sub.SubscriptionStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLiveForUser_NotFound(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).
		WillReturnRows(sqlmock.NewRows(subscriptionColumns))

	repo := NewSubscriptionRepository(gormDB)
	sub, err := repo.FindLiveForUser(context.Background(), "user-1", time.Now())

	assert.Nil(t, sub)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindLiveByProcessorID_FiltersOnSubscriptionID(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE \((.+)\) AND subscription_id = \$5`).
		WillReturnRows(sqlmock.NewRows(subscriptionColumns))

	repo := NewSubscriptionRepository(gormDB)
	_, err := repo.FindLiveByProcessorID(context.Background(), "user-1", "sub_999", time.Now())

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindIncomplete_QueryError(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE subscription_id = \$1 AND subscription_status = \$2`).
		WillReturnError(errors.New("database down"))

	repo := NewSubscriptionRepository(gormDB)
	_, err := repo.FindIncomplete(context.Background(), "sub_123")

	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivate(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "subscriptions" SET "subscription_status"=\$1,"subscription_type"=\$2,"updated_at"=\$3 WHERE id = \$4`).
		WithArgs(models.SubscriptionActive, models.SubscriptionTypeNew, sqlmock.AnyArg(), "rec-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewSubscriptionRepository(gormDB)
	err := repo.Activate(context.Background(), "rec-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUser(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE user_id = \$1 ORDER BY created_at DESC`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(subscriptionColumns).
			AddRow("rec-2", "user-1", "sub_123", "active", now, now.Add(30*24*time.Hour), "complete", "renewal", "cus_1", "price_1", now, now).
			AddRow("rec-1", "user-1", "sub_123", "active", now.Add(-30*24*time.Hour), now, "complete", "new", "cus_1", "price_1", now, now))

	repo := NewSubscriptionRepository(gormDB)
	subs, err := repo.ListForUser(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Len(t, subs, 2)
	assert.Equal(t, models.SubscriptionTypeRenewal, subs[0].SubscriptionType)
	assert.NoError(t, mock.ExpectationsWereMet())
}
