package dashboard

import (
	"net/http"

	"github.com/sahu-SuMiT/WeNews/internal/auth"
	"github.com/sahu-SuMiT/WeNews/internal/earning"
	"github.com/sahu-SuMiT/WeNews/internal/label"
	"github.com/sahu-SuMiT/WeNews/internal/level"
	"github.com/sahu-SuMiT/WeNews/internal/notification"
	"github.com/sahu-SuMiT/WeNews/internal/user"
	"github.com/sahu-SuMiT/WeNews/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB) *Handler {
	labelRepo := label.NewRepository(db)
	labelService := label.NewService(labelRepo, user.NewRepository(db), wallet.NewRepository(db), level.NewRepository(db))

	return &Handler{
		service: NewService(
			wallet.NewRepository(db),
			level.NewRepository(db),
			earning.NewRepository(db),
			labelService,
			notification.NewRepository(db),
		),
	}
}

// GetOverview godoc
// @Summary      Dashboard overview
// @Description  Aggregates wallet, level, earnings, labels and recent activity.
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} Overview
// @Router       /dashboard/overview [get]
func (h *Handler) GetOverview(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	overview, err := h.service.Overview(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard overview"})
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GetQuickStats godoc
// @Summary      Quick stats
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} QuickStats
// @Router       /dashboard/stats [get]
func (h *Handler) GetQuickStats(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	stats, err := h.service.QuickStats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load quick stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetEarningsSummary godoc
// @Summary      Earnings summary by period
// @Tags         dashboard
// @Produce      json
// @Param        period query string false "today, week or month" default(week)
// @Success      200 {object} EarningsSummary
// @Router       /dashboard/earnings [get]
func (h *Handler) GetEarningsSummary(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	period := c.DefaultQuery("period", "week")
	switch period {
	case "today", "week", "month":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be today, week, or month"})
		return
	}

	summary, err := h.service.EarningsSummary(c.Request.Context(), userID, period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load earnings summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetProgress godoc
// @Summary      User progress
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} Progress
// @Router       /dashboard/progress [get]
func (h *Handler) GetProgress(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	progress, err := h.service.Progress(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user progress"})
		return
	}

	c.JSON(http.StatusOK, progress)
}
