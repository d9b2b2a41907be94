package investment

import (
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

type Plan struct {
	ID            int       `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	JoiningAmount int64     `db:"joining_amount" json:"joining_amount"`
	Levels        int       `db:"levels" json:"levels"`
	ValidityDays  int       `db:"validity_days" json:"validity_days"`
	DailyReturn   int64     `db:"daily_return" json:"daily_return"`
	WeeklyReturn  int64     `db:"weekly_return" json:"weekly_return"`
	MonthlyReturn int64     `db:"monthly_return" json:"monthly_return"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type UserInvestment struct {
	ID               int       `db:"id" json:"id"`
	UserID           int       `db:"user_id" json:"user_id"`
	PlanID           int       `db:"plan_id" json:"plan_id"`
	PlanName         string    `db:"plan_name" json:"plan_name"`
	InvestmentAmount int64     `db:"investment_amount" json:"investment_amount"`
	StartDate        time.Time `db:"start_date" json:"start_date"`
	ExpiryDate       time.Time `db:"expiry_date" json:"expiry_date"`
	CurrentLevel     int       `db:"current_level" json:"current_level"`
	TotalReferrals   int       `db:"total_referrals" json:"total_referrals"`
	TotalEarnings    int64     `db:"total_earnings" json:"total_earnings"`
	LastPayoutDate   time.Time `db:"last_payout_date" json:"last_payout_date"`
	Status           Status    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// DaysSinceStart counts whole elapsed days, rounding any part-day up the
// way the payout schedule expects.
func (ui *UserInvestment) DaysSinceStart(now time.Time) int {
	elapsed := now.Sub(ui.StartDate)
	if elapsed <= 0 {
		return 0
	}
	days := int(elapsed / (24 * time.Hour))
	if elapsed%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// LevelTier is one rung of the referral chain. A tier opens only when the
// investment is old enough AND the holder has recruited enough referrals.
type LevelTier struct {
	Level             int              `json:"level"`
	OpenAfterDays     int              `json:"open_after_days"`
	RequiredReferrals int              `json:"required_referrals"`
	ChainLevel        string           `json:"chain_level"`
	Payouts           map[string]int64 `json:"payouts"`
}

// LevelStructure is injected at construction so the level math stays pure
// and testable without a store.
type LevelStructure []LevelTier

// CurrentLevel returns the highest tier whose both gates are open, never
// below 1.
func (ls LevelStructure) CurrentLevel(daysSinceStart, totalReferrals int) int {
	current := 1
	for _, tier := range ls {
		if tier.OpenAfterDays <= daysSinceStart && tier.RequiredReferrals <= totalReferrals && tier.Level > current {
			current = tier.Level
		}
	}
	return current
}

// AvailableTiers returns the open tiers in level order.
func (ls LevelStructure) AvailableTiers(daysSinceStart, totalReferrals int) []LevelTier {
	open := []LevelTier{}
	for _, tier := range ls {
		if tier.OpenAfterDays <= daysSinceStart && tier.RequiredReferrals <= totalReferrals {
			open = append(open, tier)
		}
	}
	return open
}

// DefaultLevelStructure is the production 15-tier referral chain.
func DefaultLevelStructure() LevelStructure {
	return LevelStructure{
		{Level: 1, OpenAfterDays: 7, RequiredReferrals: 3, ChainLevel: "c1", Payouts: map[string]int64{"bass": 300, "silver": 400, "gold": 500, "diamond": 600, "platinum": 700, "eight": 800}},
		{Level: 2, OpenAfterDays: 22, RequiredReferrals: 6, ChainLevel: "c2", Payouts: map[string]int64{"bass": 150, "silver": 200, "gold": 250, "diamond": 300, "platinum": 350, "eight": 400}},
		{Level: 3, OpenAfterDays: 52, RequiredReferrals: 27, ChainLevel: "c3", Payouts: map[string]int64{"bass": 75, "silver": 100, "gold": 125, "diamond": 150, "platinum": 175, "eight": 200}},
		{Level: 4, OpenAfterDays: 100, RequiredReferrals: 81, ChainLevel: "c4", Payouts: map[string]int64{"bass": 50, "silver": 75, "gold": 100, "diamond": 125, "platinum": 150, "eight": 175}},
		{Level: 5, OpenAfterDays: 160, RequiredReferrals: 243, ChainLevel: "c5", Payouts: map[string]int64{"bass": 25, "silver": 50, "gold": 75, "diamond": 100, "platinum": 125, "eight": 150}},
		{Level: 6, OpenAfterDays: 220, RequiredReferrals: 729, ChainLevel: "c6", Payouts: map[string]int64{"bass": 0, "silver": 25, "gold": 50, "diamond": 75, "platinum": 100, "eight": 125}},
		{Level: 7, OpenAfterDays: 280, RequiredReferrals: 2187, ChainLevel: "c7", Payouts: map[string]int64{"bass": 0, "silver": 0, "gold": 25, "diamond": 50, "platinum": 75, "eight": 100}},
		{Level: 8, OpenAfterDays: 340, RequiredReferrals: 6561, ChainLevel: "c8", Payouts: map[string]int64{"bass": 0, "silver": 0, "gold": 10, "diamond": 25, "platinum": 50, "eight": 75}},
		{Level: 9, OpenAfterDays: 400, RequiredReferrals: 19683, ChainLevel: "c9", Payouts: map[string]int64{"bass": 0, "silver": 0, "gold": 0, "diamond": 10, "platinum": 25, "eight": 50}},
		{Level: 10, OpenAfterDays: 460, RequiredReferrals: 59049, ChainLevel: "c10", Payouts: map[string]int64{"bass": 0, "silver": 0, "gold": 0, "diamond": 5, "platinum": 10, "eight": 25}},
		{Level: 11, OpenAfterDays: 520, RequiredReferrals: 177147, ChainLevel: "c11", Payouts: map[string]int64{"bass": 0, "silver": 0, "gold": 0, "diamond": 0, "platinum": 5, "eight": 10}},
		{Level: 12, OpenAfterDays: 600, RequiredReferrals: 531441, ChainLevel: "c12", Payouts: map[string]int64{"bass": 0, "silver": 0, "gold": 0, "diamond": 0, "platinum": 0, "eight": 5}},
		{Level: 13, OpenAfterDays: 750, RequiredReferrals: 1594323, ChainLevel: "c13", Payouts: map[string]int64{"bass": 0, "silver": 0, "gold": 0, "diamond": 0, "platinum": 0, "eight": 0}},
		{Level: 14, OpenAfterDays: 875, RequiredReferrals: 4782969, ChainLevel: "c14", Payouts: map[string]int64{"bass": 0, "silver": 0, "gold": 0, "diamond": 0, "platinum": 0, "eight": 0}},
		{Level: 15, OpenAfterDays: 1000, RequiredReferrals: 14348907, ChainLevel: "c15", Payouts: map[string]int64{"bass": 0, "silver": 0, "gold": 0, "diamond": 0, "platinum": 0, "eight": 0}},
	}
}

// ExpiredInvestment identifies an investment closed by the expiry sweep.
type ExpiredInvestment struct {
	UserID   int    `db:"user_id" json:"user_id"`
	PlanName string `db:"plan_name" json:"plan_name"`
}

// PayoutResult echoes a processed daily claim.
type PayoutResult struct {
	Amount        int64 `json:"amount"`
	TotalEarnings int64 `json:"total_earnings"`
}
