package notification

import (
	"context"
	"testing"

	"github.com/market-notify-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) MarkAsRead(ctx context.Context, notificationID string) error {
	return m.Called(ctx, notificationID).Error(0)
}

func TestListUnread_RequiresUserID(t *testing.T) {
	store := &mockStore{}
	_, err := NewService(store).ListUnread(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	store.AssertNotCalled(t, "ListUnread", mock.Anything, mock.Anything)
}

func TestMarkAsRead_UnknownIDPropagatesNotFound(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	_, err := NewService(store).MarkAsRead(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	store.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
}

func TestMarkAsRead_ReturnsUpdatedNotification(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "notif-1").Return(&domain.Notification{NotificationID: "notif-1"}, nil)
	store.On("MarkAsRead", mock.Anything, "notif-1").Return(nil)

	updated, err := NewService(store).MarkAsRead(context.Background(), "notif-1")
	require.NoError(t, err)
	assert.Equal(t, "notif-1", updated.NotificationID)
	store.AssertExpectations(t)
}
