package level

import (
	"math"
	"time"
)

// MaxLevel caps progression; experience past the cap still accumulates.
const MaxLevel = 12

type UserLevel struct {
	ID            int       `db:"id" json:"id"`
	UserID        int       `db:"user_id" json:"user_id"`
	CurrentLevel  int       `db:"current_level" json:"current_level"`
	CurrentExp    int64     `db:"current_exp" json:"current_exp"`
	TotalExp      int64     `db:"total_exp" json:"total_exp"`
	LevelProgress int       `db:"level_progress" json:"level_progress"`
	LastLevelUp   time.Time `db:"last_level_up" json:"last_level_up"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Achievement is a claimed label, snapshotted at claim time so later label
// edits do not rewrite history.
type Achievement struct {
	ID         int       `db:"id" json:"id"`
	UserID     int       `db:"user_id" json:"user_id"`
	LabelID    int       `db:"label_id" json:"label_id"`
	Name       string    `db:"name" json:"name"`
	Reward     int64     `db:"reward" json:"reward"`
	UnlockedAt time.Time `db:"unlocked_at" json:"unlocked_at"`
}

// Reward is the per-level title and one-off payout table entry.
type Reward struct {
	Level  int    `json:"level"`
	Reward int64  `json:"reward"`
	Title  string `json:"title"`
}

var rewards = []Reward{
	{Level: 1, Reward: 10, Title: "Beginner"},
	{Level: 2, Reward: 25, Title: "Novice"},
	{Level: 3, Reward: 50, Title: "Apprentice"},
	{Level: 4, Reward: 100, Title: "Explorer"},
	{Level: 5, Reward: 200, Title: "Adventurer"},
	{Level: 6, Reward: 350, Title: "Veteran"},
	{Level: 7, Reward: 500, Title: "Expert"},
	{Level: 8, Reward: 750, Title: "Master"},
	{Level: 9, Reward: 1000, Title: "Grandmaster"},
	{Level: 10, Reward: 1500, Title: "Legend"},
	{Level: 11, Reward: 2500, Title: "Mythic"},
	{Level: 12, Reward: 5000, Title: "Divine"},
}

// Rewards returns the full level table, ordered by level.
func Rewards() []Reward {
	out := make([]Reward, len(rewards))
	copy(out, rewards)
	return out
}

// RewardFor returns the table entry for a level, ok=false when out of range.
func RewardFor(level int) (Reward, bool) {
	if level < 1 || level > MaxLevel {
		return Reward{}, false
	}
	return rewards[level-1], true
}

// CalculateLevel maps accumulated experience to a level:
// level = floor(sqrt(exp/100)) + 1, capped at MaxLevel.
// The quadratic thresholds mean level n starts at (n-1)^2 * 100 exp.
func CalculateLevel(exp int64) int {
	if exp < 0 {
		return 1
	}
	level := int(math.Sqrt(float64(exp)/100)) + 1
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// CalculateProgress returns the percentage toward the next level,
// rounded half-up. Always 100 at the cap.
func CalculateProgress(exp int64) int {
	current := CalculateLevel(exp)
	if current >= MaxLevel {
		return 100
	}

	floor := int64(current-1) * int64(current-1) * 100
	ceil := int64(current) * int64(current) * 100

	return int(math.Round(float64(exp-floor) / float64(ceil-floor) * 100))
}

// ExpForNextLevel returns how much more experience the next level needs,
// zero at the cap.
func ExpForNextLevel(exp int64) int64 {
	current := CalculateLevel(exp)
	if current >= MaxLevel {
		return 0
	}
	return int64(current)*int64(current)*100 - exp
}

type Summary struct {
	UserID          int           `json:"user_id"`
	CurrentLevel    int           `json:"current_level"`
	Title           string        `json:"title"`
	CurrentExp      int64         `json:"current_exp"`
	TotalExp        int64         `json:"total_exp"`
	LevelProgress   int           `json:"level_progress"`
	ExpForNextLevel int64         `json:"exp_for_next_level"`
	LastLevelUp     time.Time     `json:"last_level_up"`
	Achievements    []Achievement `json:"achievements"`
}

func (ul *UserLevel) Summary(achievements []Achievement) Summary {
	title := ""
	if r, ok := RewardFor(ul.CurrentLevel); ok {
		title = r.Title
	}
	if achievements == nil {
		achievements = []Achievement{}
	}
	return Summary{
		UserID:          ul.UserID,
		CurrentLevel:    ul.CurrentLevel,
		Title:           title,
		CurrentExp:      ul.CurrentExp,
		TotalExp:        ul.TotalExp,
		LevelProgress:   ul.LevelProgress,
		ExpForNextLevel: ExpForNextLevel(ul.CurrentExp),
		LastLevelUp:     ul.LastLevelUp,
		Achievements:    achievements,
	}
}
