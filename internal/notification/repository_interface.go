package notification

import "context"

type Filter struct {
	Type   Type
	IsRead *bool
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	GetByID(ctx context.Context, id int) (*Notification, error)
	GetByUser(ctx context.Context, userID int, f Filter) ([]Notification, int64, error)
	UnreadCount(ctx context.Context, userID int) (int64, error)

	// MarkRead enforces ownership: a foreign notification fails with
	// ErrAccessDenied.
	MarkRead(ctx context.Context, id, userID int) (*Notification, error)
	MarkAllRead(ctx context.Context, userID int) (int64, error)
	MarkSent(ctx context.Context, id int) error
	Delete(ctx context.Context, id, userID int) error

	Stats(ctx context.Context) (*Stats, error)
}
