package wallet

import "context"

type TransactionFilter struct {
	Type      TransactionType
	Status    TransactionStatus
	Reference string
	Limit     int
	Offset    int
}

type WithdrawalFilter struct {
	Status WithdrawalStatus
	Limit  int
	Offset int
}

type Repository interface {
	GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error)

	// Credit and Debit are the only ledger mutation entry points. Each runs
	// as one database transaction that locks the wallet row and inserts
	// exactly one transaction record.
	Credit(ctx context.Context, userID int, amount int64, txType TransactionType, reference, description string) (*Transaction, error)
	Debit(ctx context.Context, userID int, amount int64, txType TransactionType, reference, description string) (*Transaction, error)

	GetTransactions(ctx context.Context, userID int, filter TransactionFilter) ([]Transaction, error)

	CreateWithdrawal(ctx context.Context, userID int, amount int64, paymentMethod string, paymentDetails []byte) (*WithdrawalRequest, error)
	GetWithdrawalByID(ctx context.Context, id int) (*WithdrawalRequest, error)
	GetWithdrawals(ctx context.Context, userID int, filter WithdrawalFilter) ([]WithdrawalRequest, error)
	ListWithdrawals(ctx context.Context, filter WithdrawalFilter) ([]WithdrawalRequest, error)
	ProcessWithdrawal(ctx context.Context, id int, status WithdrawalStatus, adminNotes, rejectionReason string) (*WithdrawalRequest, error)
}
