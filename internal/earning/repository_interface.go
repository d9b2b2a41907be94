package earning

import (
	"context"
	"time"
)

type Filter struct {
	Source Source
	Limit  int
	Offset int
}

type Repository interface {
	// Create inserts today's earning for a source without touching the
	// wallet. A second insert for the same (user, day, source) fails with
	// ErrAlreadyClaimedToday.
	Create(ctx context.Context, userID int, amount int64, source Source, description string) (*DailyEarning, error)

	// Claim inserts today's earning and credits the wallet in one database
	// transaction, so the day guard and the payout commit together. On
	// ErrAlreadyClaimedToday the wallet is untouched, and a failed credit
	// rolls the earning row back so a retry can claim again.
	Claim(ctx context.Context, userID int, amount int64, source Source, description string) (*DailyEarning, error)

	UpdateStatus(ctx context.Context, id int, status Status) error
	GetByUser(ctx context.Context, userID int, filter Filter) ([]DailyEarning, error)

	// TodayTotal sums credited earnings for the server-local calendar day.
	TodayTotal(ctx context.Context, userID int) (int64, error)
	RangeTotal(ctx context.Context, userID int, start, end time.Time) (int64, error)
}
