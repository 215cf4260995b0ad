package services

import (
	"context"
	"testing"
	"time"

	"food_store/internal/apperror"
	"food_store/internal/models"
	"food_store/internal/repository"
	"food_store/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotificationService(t *testing.T) (NotificationService, *testutil.Clock) {
	t.Helper()
	clock := testutil.NewClock(time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC))
	store := repository.NewStore(testutil.NewDB(t))
	return NewNotificationService(store, clock.Now, testutil.Logger()), clock
}

func emit(t *testing.T, svc NotificationService, clock *testutil.Clock, recipientID uint, title string) *models.Notification {
	t.Helper()
	n, err := svc.Emit(context.Background(), NewNotification{
		RecipientID: recipientID,
		Type:        models.NotificationAdminResponse,
		Title:       title,
		Message:     "We looked into it.",
	})
	require.NoError(t, err)
	clock.Advance(time.Second)
	return n
}

func TestNotificationService_Emit(t *testing.T) {
	svc, clock := newNotificationService(t)
	ctx := context.Background()
	orderID := uint(12)

	n, err := svc.Emit(ctx, NewNotification{
		RecipientID:    testCustomerID,
		Type:           models.NotificationQueryResolved,
		Title:          "  Your question was answered  ",
		Message:        "Refund issued.",
		RelatedOrderID: &orderID,
	})
	require.NoError(t, err)

	assert.NotZero(t, n.ID)
	assert.Equal(t, "Your question was answered", n.Title)
	assert.Equal(t, models.NotificationUnread, n.Status)
	assert.True(t, n.CreatedAt.Equal(clock.Now()))

	mailbox, err := svc.List(ctx, testCustomerID)
	require.NoError(t, err)
	require.Len(t, mailbox.Notifications, 1)
	assert.Equal(t, 1, mailbox.UnreadCount)
	require.NotNil(t, mailbox.Notifications[0].RelatedOrderID)
	assert.Equal(t, orderID, *mailbox.Notifications[0].RelatedOrderID)
}

func TestNotificationService_Emit_Validation(t *testing.T) {
	testCases := map[string]NewNotification{
		"missing recipient": {Type: models.NotificationAdminResponse, Title: "Hi"},
		"unknown type":      {RecipientID: testCustomerID, Type: "promo", Title: "Hi"},
		"blank title":       {RecipientID: testCustomerID, Type: models.NotificationAdminResponse, Title: "   "},
	}

	for name, input := range testCases {
		t.Run(name, func(t *testing.T) {
			svc, _ := newNotificationService(t)

			_, err := svc.Emit(context.Background(), input)

			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
			assert.Equal(t, apperror.CodeInvalidInput, apperror.CodeOf(err))
		})
	}
}

func TestNotificationService_ListIsNewestFirstAndScoped(t *testing.T) {
	svc, clock := newNotificationService(t)
	ctx := context.Background()

	older := emit(t, svc, clock, testCustomerID, "first")
	newer := emit(t, svc, clock, testCustomerID, "second")
	emit(t, svc, clock, otherCustomer, "not yours")

	mailbox, err := svc.List(ctx, testCustomerID)
	require.NoError(t, err)
	require.Len(t, mailbox.Notifications, 2)
	assert.Equal(t, newer.ID, mailbox.Notifications[0].ID)
	assert.Equal(t, older.ID, mailbox.Notifications[1].ID)
	assert.Equal(t, 2, mailbox.UnreadCount)

	empty, err := svc.List(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, empty.Notifications)
	assert.Zero(t, empty.UnreadCount)
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc, clock := newNotificationService(t)
	ctx := context.Background()
	n := emit(t, svc, clock, testCustomerID, "hello")

	require.NoError(t, svc.MarkRead(ctx, n.ID, testCustomerID))
	require.NoError(t, svc.MarkRead(ctx, n.ID, testCustomerID), "marking twice is a no-op")

	count, err := svc.UnreadCount(ctx, testCustomerID)
	require.NoError(t, err)
	assert.Zero(t, count)

	mailbox, err := svc.List(ctx, testCustomerID)
	require.NoError(t, err)
	require.Len(t, mailbox.Notifications, 1)
	assert.Equal(t, models.NotificationRead, mailbox.Notifications[0].Status)
}

func TestNotificationService_ForeignIDsAreNotFound(t *testing.T) {
	svc, clock := newNotificationService(t)
	ctx := context.Background()
	n := emit(t, svc, clock, testCustomerID, "private")

	err := svc.MarkRead(ctx, n.ID, otherCustomer)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Equal(t, apperror.CodeNotificationNotFound, apperror.CodeOf(err))

	err = svc.Delete(ctx, n.ID, otherCustomer)
	assert.Equal(t, apperror.CodeNotificationNotFound, apperror.CodeOf(err))

	err = svc.MarkRead(ctx, 4242, testCustomerID)
	assert.Equal(t, apperror.CodeNotificationNotFound, apperror.CodeOf(err))

	count, err := svc.UnreadCount(ctx, testCustomerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	svc, clock := newNotificationService(t)
	ctx := context.Background()
	first := emit(t, svc, clock, testCustomerID, "a")
	emit(t, svc, clock, testCustomerID, "b")
	emit(t, svc, clock, testCustomerID, "c")
	emit(t, svc, clock, otherCustomer, "d")
	require.NoError(t, svc.MarkRead(ctx, first.ID, testCustomerID))

	updated, err := svc.MarkAllRead(ctx, testCustomerID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	again, err := svc.MarkAllRead(ctx, testCustomerID)
	require.NoError(t, err)
	assert.Zero(t, again)

	others, err := svc.UnreadCount(ctx, otherCustomer)
	require.NoError(t, err)
	assert.Equal(t, int64(1), others)
}

func TestNotificationService_Delete(t *testing.T) {
	svc, clock := newNotificationService(t)
	ctx := context.Background()
	keep := emit(t, svc, clock, testCustomerID, "keep")
	drop := emit(t, svc, clock, testCustomerID, "drop")

	require.NoError(t, svc.Delete(ctx, drop.ID, testCustomerID))

	mailbox, err := svc.List(ctx, testCustomerID)
	require.NoError(t, err)
	require.Len(t, mailbox.Notifications, 1)
	assert.Equal(t, keep.ID, mailbox.Notifications[0].ID)
	assert.Equal(t, 1, mailbox.UnreadCount)

	err = svc.Delete(ctx, drop.ID, testCustomerID)
	assert.Equal(t, apperror.CodeNotificationNotFound, apperror.CodeOf(err))

	err = svc.MarkRead(ctx, drop.ID, testCustomerID)
	assert.Equal(t, apperror.CodeNotificationNotFound, apperror.CodeOf(err))
}

func TestNotificationService_ListSkipsMalformedRecords(t *testing.T) {
	clock := testutil.NewClock(time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC))
	db := testutil.NewDB(t)
	svc := NewNotificationService(repository.NewStore(db), clock.Now, testutil.Logger())
	good := emit(t, svc, clock, testCustomerID, "fine")

	require.NoError(t, db.Create(&models.Notification{
		RecipientID: testCustomerID,
		Type:        "carrier_pigeon",
		Title:       "coo",
		Status:      models.NotificationUnread,
		CreatedAt:   clock.Now(),
	}).Error)

	mailbox, err := svc.List(context.Background(), testCustomerID)
	require.NoError(t, err)
	require.Len(t, mailbox.Notifications, 1)
	assert.Equal(t, good.ID, mailbox.Notifications[0].ID)
	assert.Equal(t, 1, mailbox.UnreadCount)
}
