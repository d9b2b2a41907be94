package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sahu-SuMiT/WeNews/internal/auth"
	"github.com/sahu-SuMiT/WeNews/internal/logger"
	"github.com/sahu-SuMiT/WeNews/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// DecisionNotifier tells a user about a withdrawal decision. Satisfied by
// the notification dispatcher.
type DecisionNotifier interface {
	NotifyWithdrawalDecision(ctx context.Context, userID int, status string, amount int64) error
}

type Handler struct {
	repo     Repository
	notifier DecisionNotifier
}

func NewHandler(db *sqlx.DB, notifier DecisionNotifier) *Handler {
	return &Handler{repo: NewRepository(db), notifier: notifier}
}

type WithdrawRequest struct {
	Amount         int64             `json:"amount" binding:"required,gt=0"`
	PaymentMethod  string            `json:"payment_method" binding:"required"`
	PaymentDetails map[string]string `json:"payment_details"`
}

type ProcessWithdrawalRequest struct {
	Status          string `json:"status" binding:"required,oneof=approved rejected processing completed"`
	AdminNotes      string `json:"admin_notes"`
	RejectionReason string `json:"rejection_reason"`
}

// GetBalance godoc
// @Summary      Wallet balance
// @Description  Returns the caller's wallet summary, creating the wallet on first access.
// @Tags         wallet
// @Produce      json
// @Success      200 {object} WalletSummary
// @Failure      401 {object} api.ErrorResponse
// @Router       /wallet/balance [get]
func (h *Handler) GetBalance(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	w, err := h.repo.GetOrCreateWallet(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load wallet"})
		return
	}

	metrics.WalletBalance.WithLabelValues(strconv.Itoa(userID)).Set(float64(w.Balance))
	c.JSON(http.StatusOK, w.Summary())
}

func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := TransactionFilter{
		Type:   TransactionType(c.Query("type")),
		Status: TransactionStatus(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	}

	txs, err := h.repo.GetTransactions(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}

	summaries := make([]TransactionSummary, 0, len(txs))
	for i := range txs {
		summaries = append(summaries, txs[i].Summary())
	}

	c.JSON(http.StatusOK, summaries)
}

func (h *Handler) GetStats(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx := c.Request.Context()

	w, err := h.repo.GetOrCreateWallet(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load wallet"})
		return
	}

	recent, err := h.repo.GetTransactions(ctx, userID, TransactionFilter{Limit: 5})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}

	pending, err := h.repo.GetWithdrawals(ctx, userID, WithdrawalFilter{Status: WithdrawalPending})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load withdrawals"})
		return
	}

	recentSummaries := make([]TransactionSummary, 0, len(recent))
	for i := range recent {
		recentSummaries = append(recentSummaries, recent[i].Summary())
	}
	pendingSummaries := make([]WithdrawalSummary, 0, len(pending))
	for i := range pending {
		pendingSummaries = append(pendingSummaries, pending[i].Summary())
	}

	c.JSON(http.StatusOK, gin.H{
		"balance":                  w.Balance,
		"total_earnings":           w.TotalEarnings,
		"total_withdrawals":        w.TotalWithdrawals,
		"recent_transactions":      recentSummaries,
		"pending_withdrawals":      pendingSummaries,
		"pending_withdrawal_count": len(pendingSummaries),
	})
}

// RequestWithdrawal godoc
// @Summary      Request a withdrawal
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request body WithdrawRequest true "Withdrawal details"
// @Success      201 {object} WithdrawalSummary
// @Failure      400 {object} api.ErrorResponse
// @Router       /wallet/withdraw [post]
func (h *Handler) RequestWithdrawal(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	details, _ := json.Marshal(req.PaymentDetails)

	wr, err := h.repo.CreateWithdrawal(c.Request.Context(), userID, req.Amount, req.PaymentMethod, details)
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance for withdrawal"})
		case errors.Is(err, ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal amount"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit withdrawal request"})
		}
		return
	}

	metrics.RecordWithdrawal(string(WithdrawalPending))
	c.JSON(http.StatusCreated, wr.Summary())
}

func (h *Handler) ListMyWithdrawals(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	wrs, err := h.repo.GetWithdrawals(c.Request.Context(), userID, WithdrawalFilter{
		Status: WithdrawalStatus(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load withdrawal history"})
		return
	}

	summaries := make([]WithdrawalSummary, 0, len(wrs))
	for i := range wrs {
		summaries = append(summaries, wrs[i].Summary())
	}

	c.JSON(http.StatusOK, summaries)
}

func (h *Handler) ListAllWithdrawals(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	wrs, err := h.repo.ListWithdrawals(c.Request.Context(), WithdrawalFilter{
		Status: WithdrawalStatus(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load withdrawal requests"})
		return
	}

	c.JSON(http.StatusOK, wrs)
}

func (h *Handler) ProcessWithdrawal(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("withdrawalID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}

	var req ProcessWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wr, err := h.repo.ProcessWithdrawal(c.Request.Context(), id, WithdrawalStatus(req.Status), req.AdminNotes, req.RejectionReason)
	if err != nil {
		switch {
		case errors.Is(err, ErrWithdrawalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "withdrawal request not found"})
		case errors.Is(err, ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process withdrawal"})
		}
		return
	}

	metrics.RecordWithdrawal(string(wr.Status))

	if h.notifier != nil && (wr.Status == WithdrawalApproved || wr.Status == WithdrawalRejected) {
		if err := h.notifier.NotifyWithdrawalDecision(c.Request.Context(), wr.UserID, string(wr.Status), wr.Amount); err != nil {
			logger.WithError(err).Error("failed to queue withdrawal notification")
		}
	}

	c.JSON(http.StatusOK, wr.Summary())
}
