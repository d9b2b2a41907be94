package label

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Condition types mirror the user metrics they are checked against.
const (
	ConditionLoginStreak   = "daily_login_streak"
	ConditionTotalEarnings = "total_earnings"
	ConditionLevel         = "level"
	ConditionReferrals     = "referrals"
	ConditionNewsRead      = "news_read"
)

type Condition struct {
	Type     string `json:"type" binding:"required,condition_type"`
	Value    int64  `json:"value" binding:"gte=0"`
	Operator string `json:"operator,omitempty" binding:"omitempty,condition_operator"`
}

// Conditions is stored as a JSONB column.
type Conditions []Condition

func (c Conditions) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

func (c *Conditions) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = Conditions{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Conditions", src)
	}
}

type Label struct {
	ID          int        `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	Icon        string     `db:"icon" json:"icon"`
	Color       string     `db:"color" json:"color"`
	Reward      int64      `db:"reward" json:"reward"`
	Conditions  Conditions `db:"unlock_conditions" json:"unlock_conditions"`
	Category    string     `db:"category" json:"category"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// UserMetrics is the snapshot a label's conditions are evaluated against.
type UserMetrics struct {
	LoginStreak    int   `json:"login_streak"`
	TotalEarnings  int64 `json:"total_earnings"`
	CurrentLevel   int   `json:"current_level"`
	TotalReferrals int   `json:"total_referrals"`
	NewsReadCount  int   `json:"news_read_count"`
}

func (m UserMetrics) valueFor(conditionType string) int64 {
	switch conditionType {
	case ConditionLoginStreak:
		return int64(m.LoginStreak)
	case ConditionTotalEarnings:
		return m.TotalEarnings
	case ConditionLevel:
		return int64(m.CurrentLevel)
	case ConditionReferrals:
		return int64(m.TotalReferrals)
	case ConditionNewsRead:
		return int64(m.NewsReadCount)
	default:
		return 0
	}
}

func (c Condition) met(userValue int64) bool {
	switch c.Operator {
	case "lte":
		return userValue <= c.Value
	case "eq":
		return userValue == c.Value
	case "gt":
		return userValue > c.Value
	case "lt":
		return userValue < c.Value
	default: // gte, включая пустой оператор
		return userValue >= c.Value
	}
}

// IsUnlocked reports whether every condition holds for the given metrics.
// A label without conditions is always unlocked.
func (l *Label) IsUnlocked(m UserMetrics) bool {
	for _, cond := range l.Conditions {
		if !cond.met(m.valueFor(cond.Type)) {
			return false
		}
	}
	return true
}

// ConditionProgress shows how far a user is toward a single condition.
type ConditionProgress struct {
	Current    int64 `json:"current"`
	Target     int64 `json:"target"`
	Percentage int   `json:"percentage"`
}

// Progress returns per-condition progress keyed by condition type.
func (l *Label) Progress(m UserMetrics) map[string]ConditionProgress {
	progress := make(map[string]ConditionProgress, len(l.Conditions))
	for _, cond := range l.Conditions {
		current := m.valueFor(cond.Type)
		pct := 100
		if cond.Value > 0 {
			pct = int(math.Round(float64(current) / float64(cond.Value) * 100))
			if pct > 100 {
				pct = 100
			}
		}
		progress[cond.Type] = ConditionProgress{
			Current:    current,
			Target:     cond.Value,
			Percentage: pct,
		}
	}
	return progress
}

type LabelSummary struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Color       string     `json:"color"`
	Reward      int64      `json:"reward"`
	Conditions  Conditions `json:"unlock_conditions"`
	Category    string     `json:"category"`
	IsActive    bool       `json:"is_active"`
}

func (l *Label) Summary() LabelSummary {
	return LabelSummary{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Icon:        l.Icon,
		Color:       l.Color,
		Reward:      l.Reward,
		Conditions:  l.Conditions,
		Category:    l.Category,
		IsActive:    l.IsActive,
	}
}
