package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrWithdrawalNotFound  = errors.New("withdrawal request not found")
	ErrInvalidTransition   = errors.New("invalid withdrawal status transition")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w, `SELECT * FROM wallets WHERE user_id = $1`, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO wallets (user_id)
		 VALUES ($1)
		 RETURNING id, user_id, balance, total_earnings, total_withdrawals, is_active, created_at, updated_at`,
		userID,
	).StructScan(w)

	if err != nil {
		return nil, err
	}

	return w, nil
}

// Apply performs one ledger mutation inside the caller's database
// transaction: it locks the wallet row (creating it when missing), applies
// the delta and inserts the paired transaction record. Other packages join
// their own claim transactions to the ledger through this function so the
// wallet update and its audit row always commit together.
func Apply(ctx context.Context, tx *sqlx.Tx, userID int, amount int64, txType TransactionType, reference, description string) (*Transaction, error) {
	newBalance, err := applyBalance(ctx, tx, userID, amount, txType)
	if err != nil {
		return nil, err
	}

	if reference == "" {
		reference = uuid.NewString()
	}

	t := &Transaction{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO transactions (user_id, type, amount, description, status, reference, balance_after)
		 VALUES ($1, $2, $3, $4, 'completed', $5, $6)
		 RETURNING id, user_id, type, amount, description, status, reference, balance_after, created_at, updated_at`,
		userID, txType, amount, description, reference, newBalance,
	).StructScan(t)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// applyBalance moves the balance without touching the transactions table.
// Callers that already hold a pending transaction row (withdrawals) pair
// the move with a status update instead of a fresh insert.
func applyBalance(ctx context.Context, tx *sqlx.Tx, userID int, amount int64, txType TransactionType) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var w Wallet
	err := tx.QueryRowxContext(ctx,
		`SELECT id, user_id, balance, total_earnings, total_withdrawals, is_active, created_at, updated_at
		 FROM wallets
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(&w)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = tx.QueryRowxContext(ctx,
				`INSERT INTO wallets (user_id)
				 VALUES ($1)
				 RETURNING id, user_id, balance, total_earnings, total_withdrawals, is_active, created_at, updated_at`,
				userID,
			).StructScan(&w)
			if err != nil {
				return 0, err
			}
		} else {
			return 0, err
		}
	}

	newBalance := w.Balance
	newEarnings := w.TotalEarnings
	newWithdrawals := w.TotalWithdrawals

	if txType.credits() {
		newBalance += amount
		newEarnings += amount
	} else {
		if amount > w.Balance {
			return 0, ErrInsufficientBalance
		}
		newBalance -= amount
		if txType == TypeWithdrawal {
			newWithdrawals += amount
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets
		 SET balance = $1, total_earnings = $2, total_withdrawals = $3, updated_at = NOW()
		 WHERE id = $4`,
		newBalance, newEarnings, newWithdrawals, w.ID,
	)
	if err != nil {
		return 0, err
	}

	return newBalance, nil
}

func (r *repository) apply(ctx context.Context, userID int, amount int64, txType TransactionType, reference, description string) (*Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := Apply(ctx, tx, userID, amount, txType, reference, description)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *repository) Credit(ctx context.Context, userID int, amount int64, txType TransactionType, reference, description string) (*Transaction, error) {
	if !txType.credits() {
		return nil, fmt.Errorf("credit called with debit type %q", txType)
	}
	return r.apply(ctx, userID, amount, txType, reference, description)
}

func (r *repository) Debit(ctx context.Context, userID int, amount int64, txType TransactionType, reference, description string) (*Transaction, error) {
	if txType.credits() {
		return nil, fmt.Errorf("debit called with credit type %q", txType)
	}
	return r.apply(ctx, userID, amount, txType, reference, description)
}

func (r *repository) GetTransactions(ctx context.Context, userID int, filter TransactionFilter) ([]Transaction, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT * FROM transactions WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Reference != "" {
		args = append(args, filter.Reference)
		query += fmt.Sprintf(" AND reference = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	txs := []Transaction{}
	if err := r.db.SelectContext(ctx, &txs, query, args...); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *repository) CreateWithdrawal(ctx context.Context, userID int, amount int64, paymentMethod string, paymentDetails []byte) (*WithdrawalRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if len(paymentDetails) == 0 || string(paymentDetails) == "null" {
		paymentDetails = []byte(`{}`)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// The balance is only checked here; the debit happens on approval. The
	// row lock keeps two concurrent requests from both passing the check
	// against the same balance snapshot.
	var balance int64
	err = tx.QueryRowxContext(ctx,
		`SELECT balance FROM wallets WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}
	if amount > balance {
		return nil, ErrInsufficientBalance
	}

	wr := &WithdrawalRequest{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO withdrawal_requests (user_id, amount, status, payment_method, payment_details, reference, request_date)
		 VALUES ($1, $2, 'pending', $3, $4, $5, NOW())
		 RETURNING *`,
		userID, amount, paymentMethod, paymentDetails, uuid.NewString(),
	).StructScan(wr)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (user_id, type, amount, description, status, reference, balance_after)
		 VALUES ($1, 'withdrawal', $2, $3, 'pending', $4, $5)`,
		userID, amount, "Withdrawal request - "+paymentMethod, wr.Reference, balance,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return wr, nil
}

func (r *repository) GetWithdrawalByID(ctx context.Context, id int) (*WithdrawalRequest, error) {
	wr := &WithdrawalRequest{}
	err := r.db.GetContext(ctx, wr, `SELECT * FROM withdrawal_requests WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, err
	}
	return wr, nil
}

func (r *repository) GetWithdrawals(ctx context.Context, userID int, filter WithdrawalFilter) ([]WithdrawalRequest, error) {
	return r.listWithdrawals(ctx, &userID, filter)
}

func (r *repository) ListWithdrawals(ctx context.Context, filter WithdrawalFilter) ([]WithdrawalRequest, error) {
	return r.listWithdrawals(ctx, nil, filter)
}

func (r *repository) listWithdrawals(ctx context.Context, userID *int, filter WithdrawalFilter) ([]WithdrawalRequest, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT * FROM withdrawal_requests WHERE 1=1`
	args := []interface{}{}

	if userID != nil {
		args = append(args, *userID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY request_date DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	wrs := []WithdrawalRequest{}
	if err := r.db.SelectContext(ctx, &wrs, query, args...); err != nil {
		return nil, err
	}
	return wrs, nil
}

// validTransition encodes pending -> approved|rejected -> processing -> completed.
func validTransition(from, to WithdrawalStatus) bool {
	switch from {
	case WithdrawalPending:
		return to == WithdrawalApproved || to == WithdrawalRejected
	case WithdrawalApproved:
		return to == WithdrawalProcessing || to == WithdrawalCompleted
	case WithdrawalProcessing:
		return to == WithdrawalCompleted
	default:
		return false
	}
}

func (r *repository) ProcessWithdrawal(ctx context.Context, id int, status WithdrawalStatus, adminNotes, rejectionReason string) (*WithdrawalRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var wr WithdrawalRequest
	err = tx.QueryRowxContext(ctx,
		`SELECT * FROM withdrawal_requests WHERE id = $1 FOR UPDATE`, id,
	).StructScan(&wr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, err
	}

	if !validTransition(wr.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, wr.Status, status)
	}

	// Approval is the moment the balance actually moves. The pending
	// transaction written at request time is completed in the same database
	// transaction so the mutation keeps exactly one audit record.
	if status == WithdrawalApproved {
		newBalance, err := applyBalance(ctx, tx, wr.UserID, wr.Amount, TypeWithdrawal)
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE transactions SET status = 'completed', balance_after = $1, updated_at = NOW()
			 WHERE reference = $2 AND status = 'pending'`,
			newBalance, wr.Reference,
		)
		if err != nil {
			return nil, err
		}
	}
	if status == WithdrawalRejected {
		_, err = tx.ExecContext(ctx,
			`UPDATE transactions SET status = 'cancelled', updated_at = NOW()
			 WHERE reference = $1 AND status = 'pending'`,
			wr.Reference,
		)
		if err != nil {
			return nil, err
		}
	}

	var processed *time.Time
	if status == WithdrawalProcessing || status == WithdrawalCompleted || status == WithdrawalApproved {
		now := time.Now()
		processed = &now
	} else {
		processed = wr.ProcessedDate
	}

	err = tx.QueryRowxContext(ctx,
		`UPDATE withdrawal_requests
		 SET status = $1, admin_notes = $2, rejection_reason = $3, processed_date = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING *`,
		status, adminNotes, rejectionReason, processed, id,
	).StructScan(&wr)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &wr, nil
}
