package label

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sahu-SuMiT/WeNews/internal/level"
	"github.com/sahu-SuMiT/WeNews/internal/wallet"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrLabelNotFound      = errors.New("label not found")
	ErrAlreadyClaimed     = errors.New("label reward already claimed")
	ErrConditionsNotMet   = errors.New("label conditions not met yet")
	ErrDuplicateLabelName = errors.New("label with this name already exists")
)

const uniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetLabels(ctx context.Context, filter Filter) ([]Label, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT * FROM labels WHERE 1=1`
	args := []interface{}{}

	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	labels := []Label{}
	if err := r.db.SelectContext(ctx, &labels, query, args...); err != nil {
		return nil, err
	}
	return labels, nil
}

func (r *repository) GetLabelByID(ctx context.Context, id int) (*Label, error) {
	l := &Label{}
	err := r.db.GetContext(ctx, l, `SELECT * FROM labels WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLabelNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *repository) CreateLabel(ctx context.Context, l *Label) (*Label, error) {
	created := &Label{}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO labels (name, description, icon, color, reward, unlock_conditions, category, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, true)
		 RETURNING *`,
		l.Name, l.Description, l.Icon, l.Color, l.Reward, l.Conditions, l.Category,
	).StructScan(created)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateLabelName
		}
		return nil, err
	}
	return created, nil
}

func (r *repository) UpdateLabel(ctx context.Context, id int, l *Label) (*Label, error) {
	updated := &Label{}
	err := r.db.QueryRowxContext(ctx,
		`UPDATE labels
		 SET name = $1, description = $2, icon = $3, color = $4, reward = $5,
		     unlock_conditions = $6, category = $7, is_active = $8, updated_at = NOW()
		 WHERE id = $9
		 RETURNING *`,
		l.Name, l.Description, l.Icon, l.Color, l.Reward, l.Conditions, l.Category, l.IsActive, id,
	).StructScan(updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLabelNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateLabelName
		}
		return nil, err
	}
	return updated, nil
}

func (r *repository) Claim(ctx context.Context, userID int, l *Label) (*level.Achievement, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// unique(user_id, label_id) turns a double claim into a constraint
	// violation, so concurrent claims cannot both pass a read-then-write
	// check.
	achievement := &level.Achievement{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO achievements (user_id, label_id, name, reward, unlocked_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 RETURNING id, user_id, label_id, name, reward, unlocked_at`,
		userID, l.ID, l.Name, l.Reward,
	).StructScan(achievement)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrAlreadyClaimed
		}
		return nil, err
	}

	if l.Reward > 0 {
		_, err = wallet.Apply(ctx, tx, userID, l.Reward, wallet.TypeCredit,
			fmt.Sprintf("label:%d", l.ID), "Label reward: "+l.Name)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return achievement, nil
}

func (r *repository) GetClaimedLabelIDs(ctx context.Context, userID int) (map[int]bool, error) {
	ids := []int{}
	err := r.db.SelectContext(ctx, &ids,
		`SELECT label_id FROM achievements WHERE user_id = $1`, userID,
	)
	if err != nil {
		return nil, err
	}

	claimed := make(map[int]bool, len(ids))
	for _, id := range ids {
		claimed[id] = true
	}
	return claimed, nil
}
