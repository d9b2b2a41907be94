package investment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sahu-SuMiT/WeNews/internal/wallet"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrPlanNotFound              = errors.New("investment plan not found")
	ErrNoActiveInvestment        = errors.New("no active investment found")
	ErrDuplicateActiveInvestment = errors.New("an active investment plan already exists")
	ErrAlreadyClaimedToday       = errors.New("daily earnings already claimed for today")
)

const uniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetPlans(ctx context.Context, activeOnly bool) ([]Plan, error) {
	query := `SELECT * FROM investment_plans`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY joining_amount ASC`

	plans := []Plan{}
	if err := r.db.SelectContext(ctx, &plans, query); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repository) GetPlanByID(ctx context.Context, id int) (*Plan, error) {
	p := &Plan{}
	err := r.db.GetContext(ctx, p, `SELECT * FROM investment_plans WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *repository) Purchase(ctx context.Context, userID, planID int) (*UserInvestment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var plan Plan
	err = tx.GetContext(ctx, &plan, `SELECT * FROM investment_plans WHERE id = $1 AND is_active = true`, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	// The partial unique index on (user_id) WHERE status = 'active' makes
	// the one-active-investment rule hold even for concurrent purchases.
	ui := &UserInvestment{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO user_investments
		   (user_id, plan_id, plan_name, investment_amount, start_date, expiry_date, current_level, last_payout_date, status)
		 VALUES ($1, $2, $3, $4, NOW(), NOW() + make_interval(days => $5), 1, NOW(), 'active')
		 RETURNING *`,
		userID, plan.ID, plan.Name, plan.JoiningAmount, plan.ValidityDays,
	).StructScan(ui)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateActiveInvestment
		}
		return nil, err
	}

	_, err = wallet.Apply(ctx, tx, userID, plan.JoiningAmount, wallet.TypeDebit,
		fmt.Sprintf("investment:%d", ui.ID), "Investment plan purchase: "+plan.Name)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ui, nil
}

func (r *repository) GetActiveByUser(ctx context.Context, userID int) (*UserInvestment, error) {
	ui := &UserInvestment{}
	err := r.db.GetContext(ctx, ui,
		`SELECT * FROM user_investments WHERE user_id = $1 AND status = 'active'`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveInvestment
		}
		return nil, err
	}
	return ui, nil
}

// sameDay compares server-local calendar days.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

func (r *repository) ClaimDaily(ctx context.Context, userID int) (*PayoutResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var ui UserInvestment
	err = tx.QueryRowxContext(ctx,
		`SELECT * FROM user_investments WHERE user_id = $1 AND status = 'active' FOR UPDATE`,
		userID,
	).StructScan(&ui)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveInvestment
		}
		return nil, err
	}

	now := time.Now()
	if sameDay(ui.LastPayoutDate, now) {
		return nil, ErrAlreadyClaimedToday
	}

	var plan Plan
	err = tx.GetContext(ctx, &plan, `SELECT * FROM investment_plans WHERE id = $1`, ui.PlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	_, err = wallet.Apply(ctx, tx, userID, plan.DailyReturn, wallet.TypeEarning,
		fmt.Sprintf("investment:%d:payout", ui.ID), "Daily investment return: "+plan.Name)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE user_investments
		 SET total_earnings = total_earnings + $1, last_payout_date = $2, updated_at = NOW()
		 WHERE id = $3`,
		plan.DailyReturn, now, ui.ID,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &PayoutResult{
		Amount:        plan.DailyReturn,
		TotalEarnings: ui.TotalEarnings + plan.DailyReturn,
	}, nil
}

func (r *repository) UpdateLevel(ctx context.Context, investmentID, newLevel int) error {
	// level only moves up
	_, err := r.db.ExecContext(ctx,
		`UPDATE user_investments SET current_level = $1, updated_at = NOW()
		 WHERE id = $2 AND current_level < $1`,
		newLevel, investmentID,
	)
	return err
}

func (r *repository) AddReferral(ctx context.Context, userID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_investments SET total_referrals = total_referrals + 1, updated_at = NOW()
		 WHERE user_id = $1 AND status = 'active'`,
		userID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoActiveInvestment
	}
	return nil
}

func (r *repository) ExpireDue(ctx context.Context) ([]ExpiredInvestment, error) {
	expired := []ExpiredInvestment{}
	err := r.db.SelectContext(ctx, &expired,
		`UPDATE user_investments SET status = 'expired', updated_at = NOW()
		 WHERE status = 'active' AND expiry_date < NOW()
		 RETURNING user_id, plan_name`,
	)
	if err != nil {
		return nil, err
	}
	return expired, nil
}

func (r *repository) CountActiveByPlan(ctx context.Context) (map[string]int, error) {
	rows := []struct {
		PlanName string `db:"plan_name"`
		Count    int    `db:"count"`
	}{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT plan_name, COUNT(*) AS count FROM user_investments
		 WHERE status = 'active' GROUP BY plan_name`,
	)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.PlanName] = row.Count
	}
	return counts, nil
}
