package label

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func setupLabelMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	return repo, mock, func() { sqlxDB.Close() }
}

func achievementRows(id, userID, labelID int, name string, reward int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "label_id", "name", "reward", "unlocked_at"}).
		AddRow(id, userID, labelID, name, reward, time.Now())
}

func TestClaim_CreditsRewardOnce(t *testing.T) {
	repo, mock, close := setupLabelMock(t)
	defer close()

	l := &Label{ID: 3, Name: "News Hound", Reward: 50}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO achievements")).
		WithArgs(1, 3, "News Hound", int64(50)).
		WillReturnRows(achievementRows(9, 1, 3, "News Hound", 50))

	// wallet credit inside the same transaction
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "total_earnings", "total_withdrawals", "is_active", "created_at", "updated_at"}).
			AddRow(5, 1, int64(100), int64(100), int64(0), true, time.Now(), time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE wallets")).
		WithArgs(int64(150), int64(150), int64(0), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions")).
		WithArgs(1, "credit", int64(50), "Label reward: News Hound", "label:3", int64(150)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "amount", "description", "status", "reference", "balance_after", "created_at", "updated_at"}).
			AddRow(21, 1, "credit", 50, "Label reward: News Hound", "completed", "label:3", 150, time.Now(), time.Now()))

	mock.ExpectCommit()

	achievement, err := repo.Claim(context.Background(), 1, l)
	require.NoError(t, err)
	require.Equal(t, 3, achievement.LabelID)
	require.Equal(t, int64(50), achievement.Reward)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClaim_DuplicateReturnsAlreadyClaimed(t *testing.T) {
	repo, mock, close := setupLabelMock(t)
	defer close()

	l := &Label{ID: 3, Name: "News Hound", Reward: 50}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO achievements")).
		WithArgs(1, 3, "News Hound", int64(50)).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	_, err := repo.Claim(context.Background(), 1, l)
	require.ErrorIs(t, err, ErrAlreadyClaimed)
}

func TestClaim_ZeroRewardSkipsWallet(t *testing.T) {
	repo, mock, close := setupLabelMock(t)
	defer close()

	l := &Label{ID: 4, Name: "Cosmetic", Reward: 0}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO achievements")).
		WithArgs(1, 4, "Cosmetic", int64(0)).
		WillReturnRows(achievementRows(10, 1, 4, "Cosmetic", 0))
	mock.ExpectCommit()

	achievement, err := repo.Claim(context.Background(), 1, l)
	require.NoError(t, err)
	require.Equal(t, int64(0), achievement.Reward)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLabel_DuplicateNameRejected(t *testing.T) {
	repo, mock, close := setupLabelMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO labels")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.CreateLabel(context.Background(), &Label{Name: "News Hound", Reward: 50})
	require.ErrorIs(t, err, ErrDuplicateLabelName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLabel_DuplicateNameRejected(t *testing.T) {
	repo, mock, close := setupLabelMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE labels")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.UpdateLabel(context.Background(), 3, &Label{Name: "News Hound"})
	require.ErrorIs(t, err, ErrDuplicateLabelName)
	require.NoError(t, mock.ExpectationsWereMet())
}
