package earning

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sahu-SuMiT/WeNews/internal/auth"
	"github.com/sahu-SuMiT/WeNews/internal/level"
	"github.com/sahu-SuMiT/WeNews/internal/logger"
	"github.com/sahu-SuMiT/WeNews/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// RewardNotifier queues a notification after a paid claim. Satisfied by
// the notification dispatcher.
type RewardNotifier interface {
	NotifyDailyEarning(ctx context.Context, userID int, amount int64) error
}

type Handler struct {
	repo     Repository
	service  Service
	notifier RewardNotifier
}

func NewHandler(db *sqlx.DB, notifier RewardNotifier, baseReward, loginExp int64) *Handler {
	repo := NewRepository(db)
	return &Handler{
		repo:     repo,
		service:  NewService(repo, level.NewRepository(db), baseReward, loginExp),
		notifier: notifier,
	}
}

func (h *Handler) GetDailyEarnings(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	earnings, err := h.repo.GetByUser(c.Request.Context(), userID, Filter{
		Source: Source(c.Query("source")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load earnings"})
		return
	}

	summaries := make([]Summary, 0, len(earnings))
	for i := range earnings {
		summaries = append(summaries, earnings[i].Summary())
	}

	c.JSON(http.StatusOK, summaries)
}

func (h *Handler) GetTodayEarnings(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	total, err := h.repo.TodayTotal(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load today's earnings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"amount": total,
		"date":   time.Now().Format("2006-01-02"),
	})
}

func (h *Handler) GetEarningsSummary(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	start, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date are required (YYYY-MM-DD)"})
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date are required (YYYY-MM-DD)"})
		return
	}

	total, err := h.repo.RangeTotal(c.Request.Context(), userID, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load earnings summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_earnings": total,
		"start_date":     start.Format("2006-01-02"),
		"end_date":       end.Format("2006-01-02"),
	})
}

// ClaimDailyLogin godoc
// @Summary      Daily login reward
// @Description  Pays the once-per-day login reward (base + level bonus) and grants experience.
// @Tags         earnings
// @Produce      json
// @Success      200 {object} DailyLoginResult
// @Failure      400 {object} api.ErrorResponse
// @Router       /earnings/daily-login [post]
func (h *Handler) ClaimDailyLogin(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.service.ClaimDailyLogin(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrAlreadyClaimedToday) {
			metrics.RecordRewardClaim("daily_login", "already_claimed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "daily login reward already claimed today"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process daily login reward"})
		return
	}

	metrics.RecordRewardClaim("daily_login", "success")

	if h.notifier != nil {
		if err := h.notifier.NotifyDailyEarning(c.Request.Context(), userID, result.Reward); err != nil {
			logger.WithError(err).Error("failed to queue daily earning notification")
		}
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetEarningsStats(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx := c.Request.Context()
	now := time.Now()

	today, err := h.repo.TodayTotal(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load earnings stats"})
		return
	}

	week, err := h.repo.RangeTotal(ctx, userID, now.AddDate(0, 0, -7), now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load earnings stats"})
		return
	}

	month, err := h.repo.RangeTotal(ctx, userID, now.AddDate(0, 0, -30), now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load earnings stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"today":      today,
		"this_week":  week,
		"this_month": month,
		"date":       now.Format("2006-01-02"),
	})
}
