package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAccessDenied         = errors.New("access denied")
	ErrInvalidType          = errors.New("invalid notification type")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) (*Notification, error) {
	if !n.Type.Valid() {
		return nil, ErrInvalidType
	}

	created := &Notification{}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO notifications (user_id, type, title, message, data)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, user_id, type, title, message, data, is_read, is_sent, created_at, updated_at`,
		n.UserID, n.Type, n.Title, n.Message, n.Data,
	).StructScan(created)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Notification, error) {
	n := &Notification{}
	err := r.db.GetContext(ctx, n, `SELECT * FROM notifications WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return n, nil
}

func (r *repository) GetByUser(ctx context.Context, userID int, f Filter) ([]Notification, int64, error) {
	query := `SELECT * FROM notifications WHERE user_id = $1`
	countQuery := `SELECT COUNT(*) FROM notifications WHERE user_id = $1`
	args := []interface{}{userID}

	if f.Type != "" {
		if !f.Type.Valid() {
			return nil, 0, ErrInvalidType
		}
		args = append(args, f.Type)
		cond := ` AND type = $` + strconv.Itoa(len(args))
		query += cond
		countQuery += cond
	}
	if f.IsRead != nil {
		args = append(args, *f.IsRead)
		cond := ` AND is_read = $` + strconv.Itoa(len(args))
		query += cond
		countQuery += cond
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, f.Offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	list := []Notification{}
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *repository) UnreadCount(ctx context.Context, userID int) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`, userID)
	return count, err
}

func (r *repository) MarkRead(ctx context.Context, id, userID int) (*Notification, error) {
	n, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, ErrAccessDenied
	}

	updated := &Notification{}
	err = r.db.QueryRowxContext(ctx,
		`UPDATE notifications SET is_read = true, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, user_id, type, title, message, data, is_read, is_sent, created_at, updated_at`,
		id,
	).StructScan(updated)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *repository) MarkAllRead(ctx context.Context, userID int) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = true, updated_at = NOW()
		 WHERE user_id = $1 AND is_read = false`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) MarkSent(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_sent = true, updated_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *repository) Delete(ctx context.Context, id, userID int) error {
	n, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return ErrAccessDenied
	}

	_, err = r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	return err
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{ByType: map[string]int64{}}

	err := r.db.QueryRowxContext(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE is_read = false),
		        COUNT(*) FILTER (WHERE is_sent = false)
		 FROM notifications`,
	).Scan(&st.Total, &st.Unread, &st.Unsent)
	if err != nil {
		return nil, err
	}

	rows := []struct {
		Type  string `db:"type"`
		Count int64  `db:"count"`
	}{}
	err = r.db.SelectContext(ctx, &rows,
		`SELECT type, COUNT(*) AS count FROM notifications GROUP BY type`)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		st.ByType[row.Type] = row.Count
	}
	return st, nil
}
