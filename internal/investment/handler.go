package investment

import (
	"errors"
	"net/http"

	"github.com/sahu-SuMiT/WeNews/internal/auth"
	"github.com/sahu-SuMiT/WeNews/internal/metrics"
	"github.com/sahu-SuMiT/WeNews/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{service: NewService(NewRepository(db))}
}

type PurchaseRequest struct {
	PlanID int `json:"plan_id" binding:"required,gt=0"`
}

// GetPlans godoc
// @Summary      Investment plans
// @Description  Lists the purchasable investment plans.
// @Tags         investment
// @Produce      json
// @Success      200 {array} Plan
// @Router       /investment/plans [get]
func (h *Handler) GetPlans(c *gin.Context) {
	plans, err := h.service.Plans(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load investment plans"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// GetLevelStructure godoc
// @Summary      Referral chain levels
// @Tags         investment
// @Produce      json
// @Success      200 {array} LevelTier
// @Router       /investment/levels [get]
func (h *Handler) GetLevelStructure(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": h.service.LevelStructure()})
}

// Purchase godoc
// @Summary      Buy an investment plan
// @Description  Debits the joining amount from the wallet and opens the investment.
// @Tags         investment
// @Accept       json
// @Produce      json
// @Param        request body PurchaseRequest true "plan to buy"
// @Success      201 {object} UserInvestment
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /investment/purchase [post]
func (h *Handler) Purchase(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ui, err := h.service.Purchase(c.Request.Context(), userID, req.PlanID)
	switch {
	case errors.Is(err, ErrPlanNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "investment plan not found"})
		return
	case errors.Is(err, ErrDuplicateActiveInvestment):
		c.JSON(http.StatusConflict, gin.H{"error": "an active investment plan already exists"})
		return
	case errors.Is(err, wallet.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient wallet balance"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to purchase investment plan"})
		return
	}

	metrics.RecordInvestmentPurchase(ui.PlanName)
	c.JSON(http.StatusCreated, gin.H{
		"message":    "investment plan purchased",
		"investment": ui,
	})
}

// GetMyInvestment godoc
// @Summary      Active investment
// @Description  Returns the caller's active investment with schedule and level details.
// @Tags         investment
// @Produce      json
// @Success      200 {object} InvestmentStatus
// @Failure      404 {object} api.ErrorResponse
// @Router       /investment/my [get]
func (h *Handler) GetMyInvestment(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	st, err := h.service.MyInvestment(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveInvestment) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active investment found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load investment"})
		return
	}

	c.JSON(http.StatusOK, st)
}

// ClaimDaily godoc
// @Summary      Claim daily investment return
// @Tags         investment
// @Produce      json
// @Success      200 {object} PayoutResult
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /investment/claim [post]
func (h *Handler) ClaimDaily(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	res, err := h.service.ClaimDaily(c.Request.Context(), userID)
	switch {
	case errors.Is(err, ErrNoActiveInvestment):
		c.JSON(http.StatusNotFound, gin.H{"error": "no active investment found"})
		return
	case errors.Is(err, ErrAlreadyClaimedToday):
		metrics.RecordRewardClaim("investment", "already_claimed")
		c.JSON(http.StatusConflict, gin.H{"error": "daily earnings already claimed for today"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process daily earnings"})
		return
	}

	metrics.RecordRewardClaim("investment", "success")
	c.JSON(http.StatusOK, gin.H{
		"message": "daily earnings credited",
		"payout":  res,
	})
}
