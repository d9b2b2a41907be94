package earning

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func setupEarningMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	return repo, mock, func() { sqlxDB.Close() }
}

func earningRows(id, userID int, amount int64, source, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "amount", "source", "description", "status", "earn_date", "created_at", "updated_at"}).
		AddRow(id, userID, amount, source, "", status, time.Now(), time.Now(), time.Now())
}

func TestCreate_Success(t *testing.T) {
	repo, mock, close := setupEarningMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO daily_earnings")).
		WithArgs(1, int64(7), SourceDailyLogin, "Daily login reward").
		WillReturnRows(earningRows(42, 1, 7, "daily_login", "credited"))

	e, err := repo.Create(context.Background(), 1, 7, SourceDailyLogin, "Daily login reward")
	require.NoError(t, err)
	require.Equal(t, 42, e.ID)
	require.Equal(t, StatusCredited, e.Status)
}

func TestCreate_SecondClaimSameDay(t *testing.T) {
	repo, mock, close := setupEarningMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO daily_earnings")).
		WithArgs(1, int64(7), SourceDailyLogin, "Daily login reward").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), 1, 7, SourceDailyLogin, "Daily login reward")
	require.ErrorIs(t, err, ErrAlreadyClaimedToday)
}

func TestTodayTotal(t *testing.T) {
	repo, mock, close := setupEarningMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount), 0) FROM daily_earnings")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(32))

	total, err := repo.TodayTotal(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(32), total)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, mock, close := setupEarningMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE daily_earnings SET status = $1")).
		WithArgs(StatusCancelled, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 99, StatusCancelled)
	require.ErrorIs(t, err, ErrEarningNotFound)
}

func TestClaim_CreditsWalletInSameTransaction(t *testing.T) {
	repo, mock, close := setupEarningMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO daily_earnings")).
		WithArgs(1, int64(7), SourceDailyLogin, "Daily login reward").
		WillReturnRows(earningRows(42, 1, 7, "daily_login", "credited"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, balance, total_earnings, total_withdrawals, is_active, created_at, updated_at FROM wallets WHERE user_id = $1 FOR UPDATE")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "total_earnings", "total_withdrawals", "is_active", "created_at", "updated_at"}).
			AddRow(5, 1, 100, 20, 0, true, time.Now(), time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets")).
		WithArgs(int64(107), int64(27), int64(0), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions")).
		WithArgs(1, "earning", int64(7), "Daily login reward", "earning:42", int64(107)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "amount", "description", "status", "reference", "balance_after", "created_at", "updated_at"}).
			AddRow(100, 1, "earning", 7, "Daily login reward", "completed", "earning:42", 107, time.Now(), time.Now()))
	mock.ExpectCommit()

	e, err := repo.Claim(context.Background(), 1, 7, SourceDailyLogin, "Daily login reward")
	require.NoError(t, err)
	require.Equal(t, 42, e.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaim_SecondClaimSameDayTouchesNoWallet(t *testing.T) {
	repo, mock, close := setupEarningMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO daily_earnings")).
		WithArgs(1, int64(7), SourceDailyLogin, "Daily login reward").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	_, err := repo.Claim(context.Background(), 1, 7, SourceDailyLogin, "Daily login reward")
	require.ErrorIs(t, err, ErrAlreadyClaimedToday)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaim_CreditFailureRollsBackEarning(t *testing.T) {
	repo, mock, close := setupEarningMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO daily_earnings")).
		WithArgs(1, int64(7), SourceDailyLogin, "Daily login reward").
		WillReturnRows(earningRows(42, 1, 7, "daily_login", "credited"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM wallets WHERE user_id = $1 FOR UPDATE")).
		WithArgs(1).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	// The rollback removes the earning row, so the day's guard key stays
	// free and a retry can still claim.
	_, err := repo.Claim(context.Background(), 1, 7, SourceDailyLogin, "Daily login reward")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
