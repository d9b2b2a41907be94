package level

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrInvalidExperience = errors.New("experience amount must be positive")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreateUserLevel(ctx context.Context, userID int) (*UserLevel, error) {
	ul := &UserLevel{}
	err := r.db.GetContext(ctx, ul, `SELECT * FROM user_levels WHERE user_id = $1`, userID)
	if err == nil {
		return ul, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO user_levels (user_id, current_level, current_exp, total_exp, level_progress, last_level_up)
		 VALUES ($1, 1, 0, 0, 0, NOW())
		 RETURNING *`,
		userID,
	).StructScan(ul)
	if err != nil {
		return nil, err
	}

	return ul, nil
}

func (r *repository) AddExperience(ctx context.Context, userID int, amount int64) (*UserLevel, bool, error) {
	if amount <= 0 {
		return nil, false, ErrInvalidExperience
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	ul := &UserLevel{}
	err = tx.QueryRowxContext(ctx,
		`SELECT * FROM user_levels WHERE user_id = $1 FOR UPDATE`, userID,
	).StructScan(ul)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowxContext(ctx,
			`INSERT INTO user_levels (user_id, current_level, current_exp, total_exp, level_progress, last_level_up)
			 VALUES ($1, 1, 0, 0, 0, NOW())
			 RETURNING *`,
			userID,
		).StructScan(ul)
	}
	if err != nil {
		return nil, false, fmt.Errorf("lock user level: %w", err)
	}

	ul.CurrentExp += amount
	ul.TotalExp += amount

	leveledUp := false
	if newLevel := CalculateLevel(ul.CurrentExp); newLevel > ul.CurrentLevel {
		ul.CurrentLevel = newLevel
		ul.LastLevelUp = time.Now()
		leveledUp = true
	}
	ul.LevelProgress = CalculateProgress(ul.CurrentExp)

	err = tx.QueryRowxContext(ctx,
		`UPDATE user_levels
		 SET current_exp = $1, total_exp = $2, current_level = $3, level_progress = $4, last_level_up = $5, updated_at = NOW()
		 WHERE id = $6
		 RETURNING *`,
		ul.CurrentExp, ul.TotalExp, ul.CurrentLevel, ul.LevelProgress, ul.LastLevelUp, ul.ID,
	).StructScan(ul)
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	return ul, leveledUp, nil
}

func (r *repository) GetAchievements(ctx context.Context, userID int) ([]Achievement, error) {
	achievements := []Achievement{}
	err := r.db.SelectContext(ctx, &achievements,
		`SELECT id, user_id, label_id, name, reward, unlocked_at
		 FROM achievements
		 WHERE user_id = $1
		 ORDER BY unlocked_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return achievements, nil
}
