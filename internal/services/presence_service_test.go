package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"food_store/internal/apperror"
	"food_store/internal/models"
	"food_store/internal/redis"
	"food_store/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPresenceStore struct {
	mock.Mock
}

func (m *mockPresenceStore) SetPresence(ctx context.Context, data *redis.PresenceData, ttl time.Duration) error {
	args := m.Called(ctx, data, ttl)
	return args.Error(0)
}

func (m *mockPresenceStore) ListPresence(ctx context.Context, role string) ([]redis.PresenceData, error) {
	args := m.Called(ctx, role)
	online, _ := args.Get(0).([]redis.PresenceData)
	return online, args.Error(1)
}

func (m *mockPresenceStore) DeletePresence(ctx context.Context, role string, userID uint) error {
	args := m.Called(ctx, role, userID)
	return args.Error(0)
}

func TestPresenceService_Heartbeat(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewClock(time.Date(2026, time.October, 16, 8, 0, 0, 0, time.UTC))
	store := new(mockPresenceStore)
	store.On("SetPresence", ctx, &redis.PresenceData{
		UserID:   testAdminID,
		Role:     "admin",
		LastSeen: clock.Now(),
	}, time.Minute).Return(nil).Once()

	svc := NewPresenceService(store, time.Minute, clock.Now, testutil.Logger())

	require.NoError(t, svc.Heartbeat(ctx, admin))
	store.AssertExpectations(t)
}

func TestPresenceService_Heartbeat_Rejections(t *testing.T) {
	store := new(mockPresenceStore)
	svc := NewPresenceService(store, time.Minute, nil, testutil.Logger())

	err := svc.Heartbeat(context.Background(), models.Actor{Role: "courier", ID: 3})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	err = svc.Heartbeat(context.Background(), models.Actor{Role: models.RoleCustomer})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	store.AssertNotCalled(t, "SetPresence", mock.Anything, mock.Anything, mock.Anything)
}

func TestPresenceService_StoreFailuresAreTransient(t *testing.T) {
	ctx := context.Background()
	down := errors.New("dial tcp: connection refused")
	store := new(mockPresenceStore)
	store.On("SetPresence", ctx, mock.Anything, time.Minute).Return(down)
	store.On("ListPresence", ctx, "admin").Return(nil, down)
	store.On("DeletePresence", ctx, "customer", testCustomerID).Return(down)

	svc := NewPresenceService(store, time.Minute, nil, testutil.Logger())

	err := svc.Heartbeat(ctx, customer)
	assert.Equal(t, apperror.KindTransient, apperror.KindOf(err))
	assert.ErrorIs(t, err, down)

	_, err = svc.Online(ctx, models.RoleAdmin)
	assert.Equal(t, apperror.KindTransient, apperror.KindOf(err))

	err = svc.Leave(ctx, customer)
	assert.Equal(t, apperror.KindTransient, apperror.KindOf(err))
}

func TestPresenceService_Online(t *testing.T) {
	ctx := context.Background()
	seen := time.Date(2026, time.October, 16, 8, 0, 0, 0, time.UTC)
	roster := []redis.PresenceData{{UserID: testAdminID, Role: "admin", LastSeen: seen}}
	store := new(mockPresenceStore)
	store.On("ListPresence", ctx, "admin").Return(roster, nil).Once()

	svc := NewPresenceService(store, time.Minute, nil, testutil.Logger())

	online, err := svc.Online(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, roster, online)

	_, err = svc.Online(ctx, "courier")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	store.AssertExpectations(t)
}
