package label

import (
	"context"

	"github.com/sahu-SuMiT/WeNews/internal/level"
)

type Filter struct {
	Category string
	IsActive *bool
	Limit    int
	Offset   int
}

type Repository interface {
	GetLabels(ctx context.Context, filter Filter) ([]Label, error)
	GetLabelByID(ctx context.Context, id int) (*Label, error)
	CreateLabel(ctx context.Context, l *Label) (*Label, error)
	UpdateLabel(ctx context.Context, id int, l *Label) (*Label, error)

	// Claim writes the achievement snapshot and credits the reward in one
	// database transaction. Returns ErrAlreadyClaimed when the user holds
	// the label already.
	Claim(ctx context.Context, userID int, l *Label) (*level.Achievement, error)

	GetClaimedLabelIDs(ctx context.Context, userID int) (map[int]bool, error)
}
