package notification

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupNotificationMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func notificationColumns() []string {
	return []string{"id", "user_id", "type", "title", "message", "data", "is_read", "is_sent", "created_at", "updated_at"}
}

func notificationRow(id, userID int, notifType, title string, isRead bool) *sqlmock.Rows {
	return sqlmock.NewRows(notificationColumns()).
		AddRow(id, userID, notifType, title, "", []byte("{}"), isRead, true, time.Now(), time.Now())
}

func TestCreate_RejectsUnknownType(t *testing.T) {
	repo, _, close := setupNotificationMock(t)
	defer close()

	_, err := repo.Create(context.Background(), &Notification{
		UserID: 7,
		Type:   "push",
		Title:  "Hello",
	})
	require.ErrorIs(t, err, ErrInvalidType)
}

func TestCreate_Persists(t *testing.T) {
	repo, mock, close := setupNotificationMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO notifications (user_id, type, title, message, data)")).
		WithArgs(7, "reward", "Level Up!", "You reached level 2", sqlmock.AnyArg()).
		WillReturnRows(notificationRow(12, 7, "reward", "Level Up!", false))

	n, err := repo.Create(context.Background(), &Notification{
		UserID:  7,
		Type:    TypeReward,
		Title:   "Level Up!",
		Message: "You reached level 2",
	})
	require.NoError(t, err)
	require.Equal(t, 12, n.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRead_ForeignNotificationDenied(t *testing.T) {
	repo, mock, close := setupNotificationMock(t)
	defer close()

	// notification 12 belongs to user 9, caller is user 7
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM notifications WHERE id = $1")).
		WithArgs(12).
		WillReturnRows(notificationRow(12, 9, "system", "Hello", false))

	_, err := repo.MarkRead(context.Background(), 12, 7)
	require.ErrorIs(t, err, ErrAccessDenied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRead_OwnNotification(t *testing.T) {
	repo, mock, close := setupNotificationMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM notifications WHERE id = $1")).
		WithArgs(12).
		WillReturnRows(notificationRow(12, 7, "system", "Hello", false))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE notifications SET is_read = true")).
		WithArgs(12).
		WillReturnRows(notificationRow(12, 7, "system", "Hello", true))

	n, err := repo.MarkRead(context.Background(), 12, 7)
	require.NoError(t, err)
	require.True(t, n.IsRead)
}

func TestGetByUser_FiltersAndPages(t *testing.T) {
	repo, mock, close := setupNotificationMock(t)
	defer close()

	isRead := false

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND type = $2 AND is_read = $3")).
		WithArgs(7, "earnings", false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM notifications WHERE user_id = $1 AND type = $2 AND is_read = $3 ORDER BY created_at DESC LIMIT $4 OFFSET $5")).
		WithArgs(7, "earnings", false, 2, 2).
		WillReturnRows(notificationRow(5, 7, "earnings", "Daily Reward Credited", false))

	list, total, err := repo.GetByUser(context.Background(), 7, Filter{
		Type:   TypeEarnings,
		IsRead: &isRead,
		Limit:  2,
		Offset: 2,
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, list, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, close := setupNotificationMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM notifications WHERE id = $1")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(notificationColumns()))

	err := repo.Delete(context.Background(), 99, 7)
	require.ErrorIs(t, err, ErrNotificationNotFound)
}
