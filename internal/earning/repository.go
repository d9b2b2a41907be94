package earning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sahu-SuMiT/WeNews/internal/wallet"
)

var (
	ErrAlreadyClaimedToday = errors.New("already claimed today")
	ErrEarningNotFound     = errors.New("earning not found")
)

const uniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, userID int, amount int64, source Source, description string) (*DailyEarning, error) {
	e := &DailyEarning{}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO daily_earnings (user_id, amount, source, description, status, earn_date)
		 VALUES ($1, $2, $3, $4, 'credited', CURRENT_DATE)
		 RETURNING *`,
		userID, amount, source, description,
	).StructScan(e)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrAlreadyClaimedToday
		}
		return nil, err
	}
	return e, nil
}

func (r *repository) Claim(ctx context.Context, userID int, amount int64, source Source, description string) (*DailyEarning, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	e := &DailyEarning{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO daily_earnings (user_id, amount, source, description, status, earn_date)
		 VALUES ($1, $2, $3, $4, 'credited', CURRENT_DATE)
		 RETURNING *`,
		userID, amount, source, description,
	).StructScan(e)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrAlreadyClaimedToday
		}
		return nil, err
	}

	_, err = wallet.Apply(ctx, tx, userID, amount, wallet.TypeEarning,
		fmt.Sprintf("earning:%d", e.ID), description)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE daily_earnings SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrEarningNotFound
	}
	return nil
}

func (r *repository) GetByUser(ctx context.Context, userID int, filter Filter) ([]DailyEarning, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 30
	}

	query := `SELECT * FROM daily_earnings WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.Source != "" {
		args = append(args, filter.Source)
		query += fmt.Sprintf(" AND source = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY earn_date DESC, id DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	earnings := []DailyEarning{}
	if err := r.db.SelectContext(ctx, &earnings, query, args...); err != nil {
		return nil, err
	}
	return earnings, nil
}

func (r *repository) TodayTotal(ctx context.Context, userID int) (int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(amount), 0) FROM daily_earnings
		 WHERE user_id = $1 AND earn_date = CURRENT_DATE AND status = 'credited'`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repository) RangeTotal(ctx context.Context, userID int, start, end time.Time) (int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(amount), 0) FROM daily_earnings
		 WHERE user_id = $1 AND earn_date >= $2 AND earn_date <= $3 AND status = 'credited'`,
		userID, start, end,
	)
	if err != nil {
		return 0, err
	}
	return total, nil
}
