package user

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupUserMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func userColumns() []string {
	return []string{"id", "username", "email", "password_hash", "first_name", "last_name", "role", "referral_code", "referred_by", "login_streak", "total_referrals", "news_read_count", "last_login", "is_active", "created_at", "updated_at"}
}

func userRow(id int, username string, streak int, lastLogin time.Time) []driverValue {
	now := time.Now()
	return []driverValue{id, username, username + "@example.com", "hash", "", "", "member", "AB12CD34", nil, streak, 0, 0, lastLogin, true, now, now}
}

type driverValue = driver.Value

func TestCreateAndFindUser(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("alice", "a@example.com", "hash", "Alice", "Smith", "member", "AB12CD34", nil).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "alice", "a@example.com", "hash", "Alice", "Smith", "member", "AB12CD34", nil, 0, 0, 0, now, true, now, now))

	u, err := repo.Create(ctx, CreateParams{
		Username: "alice", Email: "a@example.com", PasswordHash: "hash",
		FirstName: "Alice", LastName: "Smith", Role: "member", ReferralCode: "AB12CD34",
	})
	require.NoError(t, err)
	require.Equal(t, 1, u.ID)
	require.Equal(t, "AB12CD34", u.ReferralCode)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE email = $1")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "alice", "a@example.com", "hash", "Alice", "Smith", "member", "AB12CD34", nil, 0, 0, 0, now, true, now, now))

	fu, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Equal(t, "alice", fu.Username)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.EmailExists(ctx, "a@example.com")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFindByReferralCode_NotFound(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE referral_code = $1")).
		WithArgs("MISSING1").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := repo.FindByReferralCode(context.Background(), "MISSING1")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateLoginStreak(t *testing.T) {
	tests := []struct {
		name       string
		lastLogin  time.Time
		oldStreak  int
		wantStreak int
	}{
		{"consecutive day extends", time.Now().AddDate(0, 0, -1), 3, 4},
		{"same day keeps streak", time.Now(), 3, 3},
		{"gap resets to one", time.Now().AddDate(0, 0, -5), 9, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, close := setupUserMock(t)
			defer close()

			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM users WHERE id = $1 FOR UPDATE")).
				WithArgs(1).
				WillReturnRows(sqlmock.NewRows(userColumns()).AddRow(userRow(1, "alice", tt.oldStreak, tt.lastLogin)...))

			mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET login_streak = $1, last_login = $2")).
				WithArgs(tt.wantStreak, sqlmock.AnyArg(), 1).
				WillReturnRows(sqlmock.NewRows(userColumns()).AddRow(userRow(1, "alice", tt.wantStreak, time.Now())...))

			mock.ExpectCommit()

			u, err := repo.UpdateLoginStreak(context.Background(), 1)
			require.NoError(t, err)
			require.Equal(t, tt.wantStreak, u.LoginStreak)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIncrementNewsRead(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET news_read_count = news_read_count + 1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "alice", "a@example.com", "hash", "", "", "member", "AB12CD34", nil, 0, 0, 6, now, true, now, now))

	u, err := repo.IncrementNewsRead(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 6, u.NewsReadCount)
}
