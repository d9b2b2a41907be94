package investment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLevelStructure_CurrentLevel(t *testing.T) {
	ls := DefaultLevelStructure()

	tests := []struct {
		name      string
		days      int
		referrals int
		want      int
	}{
		{"fresh investment", 0, 0, 1},
		{"old enough but no referrals", 7, 0, 1},
		{"referrals but too young", 0, 3, 1},
		{"first tier opens", 7, 3, 1},
		{"second tier opens", 22, 6, 2},
		{"days gate holds level back", 22, 100, 2},
		{"referral gate holds level back", 600, 6, 2},
		{"mid chain", 160, 243, 5},
		{"top of the chain", 1000, 14348907, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ls.CurrentLevel(tt.days, tt.referrals))
		})
	}
}

func TestLevelStructure_AvailableTiers(t *testing.T) {
	ls := DefaultLevelStructure()

	open := ls.AvailableTiers(52, 27)
	assert.Len(t, open, 3)
	assert.Equal(t, "c3", open[2].ChainLevel)

	assert.Empty(t, ls.AvailableTiers(1, 0))
}

func TestDaysSinceStart(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		want  int
	}{
		{"just purchased", now, 0},
		{"part of a day counts as one", now.Add(-6 * time.Hour), 1},
		{"exactly three days", now.AddDate(0, 0, -3), 3},
		{"three and a half days", now.Add(-84 * time.Hour), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui := &UserInvestment{StartDate: tt.start}
			assert.Equal(t, tt.want, ui.DaysSinceStart(now))
		})
	}
}

func TestDefaultLevelStructure_PayoutsCoverAllPlans(t *testing.T) {
	plans := []string{"bass", "silver", "gold", "diamond", "platinum", "eight"}
	for _, tier := range DefaultLevelStructure() {
		for _, plan := range plans {
			_, ok := tier.Payouts[plan]
			assert.True(t, ok, "tier %s missing payout for %s", tier.ChainLevel, plan)
		}
	}
}
