package wallet

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

type TransactionType string
type TransactionStatus string
type WithdrawalStatus string

const (
	TypeCredit     TransactionType = "credit"
	TypeDebit      TransactionType = "debit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeEarning    TransactionType = "earning"

	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
	TxCancelled TransactionStatus = "cancelled"

	WithdrawalPending    WithdrawalStatus = "pending"
	WithdrawalApproved   WithdrawalStatus = "approved"
	WithdrawalRejected   WithdrawalStatus = "rejected"
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalCompleted  WithdrawalStatus = "completed"
)

// Wallet — кошелёк пользователя. Amounts are whole currency units.
type Wallet struct {
	ID               int       `db:"id" json:"id"`
	UserID           int       `db:"user_id" json:"user_id"`
	Balance          int64     `db:"balance" json:"balance"`
	TotalEarnings    int64     `db:"total_earnings" json:"total_earnings"`
	TotalWithdrawals int64     `db:"total_withdrawals" json:"total_withdrawals"`
	IsActive         bool      `db:"is_active" json:"is_active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Transaction is the append-only audit record for every balance change.
// Reference carries the id of the originating entity (earning, label,
// withdrawal, investment) so ledger rows can be joined back to their cause.
type Transaction struct {
	ID           int               `db:"id" json:"id"`
	UserID       int               `db:"user_id" json:"user_id"`
	Type         TransactionType   `db:"type" json:"type"`
	Amount       int64             `db:"amount" json:"amount"`
	Description  string            `db:"description" json:"description"`
	Status       TransactionStatus `db:"status" json:"status"`
	Reference    string            `db:"reference" json:"reference"`
	BalanceAfter int64             `db:"balance_after" json:"balance_after"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updated_at"`
}

type WithdrawalRequest struct {
	ID              int              `db:"id" json:"id"`
	UserID          int              `db:"user_id" json:"user_id"`
	Amount          int64            `db:"amount" json:"amount"`
	Status          WithdrawalStatus `db:"status" json:"status"`
	PaymentMethod   string           `db:"payment_method" json:"payment_method"`
	PaymentDetails  types.JSONText   `db:"payment_details" json:"payment_details,omitempty"`
	Reference       string           `db:"reference" json:"reference"`
	RequestDate     time.Time        `db:"request_date" json:"request_date"`
	ProcessedDate   *time.Time       `db:"processed_date" json:"processed_date,omitempty"`
	AdminNotes      string           `db:"admin_notes" json:"admin_notes,omitempty"`
	RejectionReason string           `db:"rejection_reason" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// WalletSummary is the projection returned to clients.
type WalletSummary struct {
	ID               int   `json:"id"`
	UserID           int   `json:"user_id"`
	Balance          int64 `json:"balance"`
	TotalEarnings    int64 `json:"total_earnings"`
	TotalWithdrawals int64 `json:"total_withdrawals"`
	IsActive         bool  `json:"is_active"`
}

func (w *Wallet) Summary() WalletSummary {
	return WalletSummary{
		ID:               w.ID,
		UserID:           w.UserID,
		Balance:          w.Balance,
		TotalEarnings:    w.TotalEarnings,
		TotalWithdrawals: w.TotalWithdrawals,
		IsActive:         w.IsActive,
	}
}

type TransactionSummary struct {
	ID        int               `json:"id"`
	Type      TransactionType   `json:"type"`
	Amount    int64             `json:"amount"`
	Status    TransactionStatus `json:"status"`
	Reference string            `json:"reference"`
	CreatedAt time.Time         `json:"created_at"`
}

func (t *Transaction) Summary() TransactionSummary {
	return TransactionSummary{
		ID:        t.ID,
		Type:      t.Type,
		Amount:    t.Amount,
		Status:    t.Status,
		Reference: t.Reference,
		CreatedAt: t.CreatedAt,
	}
}

type WithdrawalSummary struct {
	ID              int              `json:"id"`
	Amount          int64            `json:"amount"`
	Status          WithdrawalStatus `json:"status"`
	PaymentMethod   string           `json:"payment_method"`
	Reference       string           `json:"reference"`
	RequestDate     time.Time        `json:"request_date"`
	ProcessedDate   *time.Time       `json:"processed_date,omitempty"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
}

func (w *WithdrawalRequest) Summary() WithdrawalSummary {
	return WithdrawalSummary{
		ID:              w.ID,
		Amount:          w.Amount,
		Status:          w.Status,
		PaymentMethod:   w.PaymentMethod,
		Reference:       w.Reference,
		RequestDate:     w.RequestDate,
		ProcessedDate:   w.ProcessedDate,
		RejectionReason: w.RejectionReason,
	}
}

// credits adds to the balance, debits subtract.
func (t TransactionType) credits() bool {
	return t == TypeCredit || t == TypeEarning
}
