package label

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUnlocked(t *testing.T) {
	metrics := UserMetrics{
		LoginStreak:    7,
		TotalEarnings:  500,
		CurrentLevel:   5,
		TotalReferrals: 2,
		NewsReadCount:  30,
	}

	tests := []struct {
		name       string
		conditions Conditions
		want       bool
	}{
		{"no conditions always unlocked", nil, true},
		{"empty conditions always unlocked", Conditions{}, true},
		{"level gte met", Conditions{{Type: ConditionLevel, Value: 5, Operator: "gte"}}, true},
		{"level gte not met", Conditions{{Type: ConditionLevel, Value: 6, Operator: "gte"}}, false},
		{"default operator is gte", Conditions{{Type: ConditionLevel, Value: 5}}, true},
		{"eq exact", Conditions{{Type: ConditionLevel, Value: 5, Operator: "eq"}}, true},
		{"eq miss", Conditions{{Type: ConditionLevel, Value: 4, Operator: "eq"}}, false},
		{"gt strict", Conditions{{Type: ConditionLevel, Value: 5, Operator: "gt"}}, false},
		{"lt on streak", Conditions{{Type: ConditionLoginStreak, Value: 10, Operator: "lt"}}, true},
		{"lte boundary", Conditions{{Type: ConditionReferrals, Value: 2, Operator: "lte"}}, true},
		{
			"all conditions must hold",
			Conditions{
				{Type: ConditionLevel, Value: 5},
				{Type: ConditionTotalEarnings, Value: 1000},
			},
			false,
		},
		{
			"conjunction met",
			Conditions{
				{Type: ConditionLevel, Value: 3},
				{Type: ConditionNewsRead, Value: 25},
				{Type: ConditionLoginStreak, Value: 7},
			},
			true,
		},
		{"unknown type counts as zero", Conditions{{Type: "mystery", Value: 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Label{Conditions: tt.conditions}
			assert.Equal(t, tt.want, l.IsUnlocked(metrics))
		})
	}
}

func TestProgress(t *testing.T) {
	l := &Label{Conditions: Conditions{
		{Type: ConditionNewsRead, Value: 100},
		{Type: ConditionLevel, Value: 4},
	}}

	p := l.Progress(UserMetrics{NewsReadCount: 30, CurrentLevel: 6})

	require.Len(t, p, 2)
	assert.Equal(t, ConditionProgress{Current: 30, Target: 100, Percentage: 30}, p[ConditionNewsRead])
	// перевыполнено — процент обрезается до 100
	assert.Equal(t, ConditionProgress{Current: 6, Target: 4, Percentage: 100}, p[ConditionLevel])
}

func TestConditions_ScanValue(t *testing.T) {
	raw := `[{"type":"level","value":5,"operator":"gte"},{"type":"news_read","value":10}]`

	var c Conditions
	require.NoError(t, c.Scan([]byte(raw)))
	require.Len(t, c, 2)
	assert.Equal(t, ConditionLevel, c[0].Type)
	assert.Equal(t, int64(10), c[1].Value)

	v, err := c.Value()
	require.NoError(t, err)

	var roundtrip Conditions
	require.NoError(t, json.Unmarshal(v.([]byte), &roundtrip))
	assert.Equal(t, c, roundtrip)

	var empty Conditions
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)
}
