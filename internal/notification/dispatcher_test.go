package notification

import (
	"context"
	"os"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sahu-SuMiT/WeNews/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *Notification) (*Notification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Notification), args.Error(1)
}

func (m *MockNotificationRepo) GetByID(ctx context.Context, id int) (*Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Notification), args.Error(1)
}

func (m *MockNotificationRepo) GetByUser(ctx context.Context, userID int, f Filter) ([]Notification, int64, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepo) UnreadCount(ctx context.Context, userID int) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) MarkRead(ctx context.Context, id, userID int) (*Notification, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Notification), args.Error(1)
}

func (m *MockNotificationRepo) MarkAllRead(ctx context.Context, userID int) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) MarkSent(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationRepo) Delete(ctx context.Context, id, userID int) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationRepo) Stats(ctx context.Context) (*Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Stats), args.Error(1)
}

// Вспомогательная функция для диспетчера с мок Redis
func newTestDispatcher(rdb *redis.Client, repo Repository) *Dispatcher {
	return &Dispatcher{redis: rdb, repo: repo}
}

func TestEnqueue(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("notifications", `.*`).SetVal(1)

	d := newTestDispatcher(db, nil)

	err := d.Enqueue(ctx, 7, TypeReward, "Level Up!", "You reached level 2", Payload{"level": 2})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnqueueError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("notifications", `.*`).SetErr(assert.AnError)

	d := newTestDispatcher(db, nil)

	err := d.Enqueue(ctx, 7, TypeSystem, "Hello", "Test body", nil)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifyLevelUp(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("notifications", `.*`).SetVal(1)

	d := newTestDispatcher(db, nil)

	err := d.NotifyLevelUp(ctx, 7, 3)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifyWithdrawalDecision(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("notifications", `.*`).SetVal(1)

	d := newTestDispatcher(db, nil)

	err := d.NotifyWithdrawalDecision(ctx, 7, "approved", 500)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectLLen("notifications").SetVal(5)

	d := newTestDispatcher(db, nil)

	length := d.QueueLength(ctx)
	assert.Equal(t, int64(5), length)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliver_PersistsAndMarksSent(t *testing.T) {
	repo := new(MockNotificationRepo)
	d := newTestDispatcher(nil, repo)

	job := Job{
		UserID:  7,
		Type:    TypeEarnings,
		Title:   "Daily Reward Credited",
		Message: "Your daily login reward has been added to your wallet.",
		Data:    Payload{"amount": int64(8)},
	}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *Notification) bool {
		return n.UserID == 7 && n.Type == TypeEarnings
	})).Return(&Notification{ID: 12, UserID: 7, Type: TypeEarnings}, nil)
	repo.On("MarkSent", mock.Anything, 12).Return(nil)

	err := d.deliver(context.Background(), job)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeliver_CreateFails(t *testing.T) {
	repo := new(MockNotificationRepo)
	d := newTestDispatcher(nil, repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	err := d.deliver(context.Background(), Job{UserID: 7, Type: TypeSystem})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything)
}
