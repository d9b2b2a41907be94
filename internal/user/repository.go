package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, params CreateParams) (*User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name, role, referral_code, referred_by, last_login)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING *
	`

	var user User
	err := r.db.GetContext(ctx, &user, query,
		params.Username, params.Email, params.PasswordHash,
		params.FirstName, params.LastName, params.Role,
		params.ReferralCode, params.ReferredBy,
	)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByReferralCode(ctx context.Context, code string) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE referral_code = $1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// sameDay compares server-local calendar days.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

func (r *repository) UpdateLoginStreak(ctx context.Context, userID int) (*User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var user User
	err = tx.QueryRowxContext(ctx,
		`SELECT * FROM users WHERE id = $1 FOR UPDATE`, userID,
	).StructScan(&user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := time.Now()
	streak := user.LoginStreak

	switch {
	case sameDay(user.LastLogin, now):
		// second login today, streak stays
	case sameDay(user.LastLogin, now.AddDate(0, 0, -1)):
		streak++
	default:
		streak = 1
	}

	err = tx.QueryRowxContext(ctx,
		`UPDATE users SET login_streak = $1, last_login = $2, updated_at = NOW()
		 WHERE id = $3
		 RETURNING *`,
		streak, now, userID,
	).StructScan(&user)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) IncrementReferrals(ctx context.Context, userID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET total_referrals = total_referrals + 1, updated_at = NOW() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) IncrementNewsRead(ctx context.Context, userID int) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user,
		`UPDATE users SET news_read_count = news_read_count + 1, updated_at = NOW()
		 WHERE id = $1
		 RETURNING *`,
		userID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
