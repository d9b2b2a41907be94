package earning

import "time"

type Status string
type Source string

const (
	StatusCredited  Status = "credited"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"

	SourceDailyLogin Source = "daily_login"
	SourceInvestment Source = "investment"
	SourceLabel      Source = "label"
)

// DailyEarning is append-only per (user, day, source); the unique
// constraint is what makes "one reward per source per day" hold under
// concurrent claims.
type DailyEarning struct {
	ID          int       `db:"id" json:"id"`
	UserID      int       `db:"user_id" json:"user_id"`
	Amount      int64     `db:"amount" json:"amount"`
	Source      Source    `db:"source" json:"source"`
	Description string    `db:"description" json:"description"`
	Status      Status    `db:"status" json:"status"`
	EarnDate    time.Time `db:"earn_date" json:"earn_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Summary struct {
	ID       int       `json:"id"`
	Amount   int64     `json:"amount"`
	Source   Source    `json:"source"`
	Status   Status    `json:"status"`
	EarnDate time.Time `json:"earn_date"`
}

func (e *DailyEarning) Summary() Summary {
	return Summary{
		ID:       e.ID,
		Amount:   e.Amount,
		Source:   e.Source,
		Status:   e.Status,
		EarnDate: e.EarnDate,
	}
}

// DailyLoginResult echoes the reward breakdown back to the client.
type DailyLoginResult struct {
	Reward     int64 `json:"reward"`
	BaseReward int64 `json:"base_reward"`
	LevelBonus int64 `json:"level_bonus"`
	Experience int64 `json:"experience"`
	LevelUp    bool  `json:"level_up"`
}
