package notification

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type Type string

const (
	TypeEarnings   Type = "earnings"
	TypeReward     Type = "reward"
	TypeNews       Type = "news"
	TypeWithdrawal Type = "withdrawal"
	TypeSystem     Type = "system"
)

func (t Type) Valid() bool {
	switch t {
	case TypeEarnings, TypeReward, TypeNews, TypeWithdrawal, TypeSystem:
		return true
	}
	return false
}

// Payload is the free-form data attached to a notification, stored as
// JSONB.
type Payload map[string]interface{}

func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

func (p *Payload) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = Payload{}
		return nil
	default:
		return errors.New("unsupported payload source")
	}
}

type Notification struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Type      Type      `db:"type" json:"type"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Data      Payload   `db:"data" json:"data"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	IsSent    bool      `db:"is_sent" json:"is_sent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Stats is the admin rollup.
type Stats struct {
	Total  int64            `json:"total"`
	Unread int64            `json:"unread"`
	Unsent int64            `json:"unsent"`
	ByType map[string]int64 `json:"by_type"`
}
