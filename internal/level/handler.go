package level

import (
	"context"
	"errors"
	"net/http"

	"github.com/sahu-SuMiT/WeNews/internal/auth"
	"github.com/sahu-SuMiT/WeNews/internal/logger"
	"github.com/sahu-SuMiT/WeNews/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// LevelUpNotifier congratulates a user on a new level. Satisfied by the
// notification dispatcher.
type LevelUpNotifier interface {
	NotifyLevelUp(ctx context.Context, userID, level int) error
}

type Handler struct {
	repo     Repository
	notifier LevelUpNotifier
}

func NewHandler(db *sqlx.DB, notifier LevelUpNotifier) *Handler {
	return &Handler{repo: NewRepository(db), notifier: notifier}
}

type AddExperienceRequest struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Source string `json:"source"`
}

// GetUserLevel godoc
// @Summary      Current level
// @Description  Returns the caller's level, progress and achievements.
// @Tags         earnings
// @Produce      json
// @Success      200 {object} Summary
// @Failure      401 {object} api.ErrorResponse
// @Router       /earnings/level [get]
func (h *Handler) GetUserLevel(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx := c.Request.Context()

	ul, err := h.repo.GetOrCreateUserLevel(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user level"})
		return
	}

	achievements, err := h.repo.GetAchievements(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load achievements"})
		return
	}

	c.JSON(http.StatusOK, ul.Summary(achievements))
}

// AddExperience godoc
// @Summary      Add experience
// @Tags         earnings
// @Accept       json
// @Produce      json
// @Param        request body AddExperienceRequest true "Experience to add"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} api.ErrorResponse
// @Router       /earnings/experience [post]
func (h *Handler) AddExperience(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req AddExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ul, leveledUp, err := h.repo.AddExperience(c.Request.Context(), userID, req.Amount)
	if err != nil {
		if errors.Is(err, ErrInvalidExperience) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "experience amount must be positive"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add experience"})
		return
	}

	if leveledUp {
		metrics.RecordLevelUp()
		if h.notifier != nil {
			if err := h.notifier.NotifyLevelUp(c.Request.Context(), userID, ul.CurrentLevel); err != nil {
				logger.WithError(err).Error("failed to queue level-up notification")
			}
		}
	}

	achievements, err := h.repo.GetAchievements(c.Request.Context(), userID)
	if err != nil {
		achievements = []Achievement{}
	}

	c.JSON(http.StatusOK, gin.H{
		"level":            ul.Summary(achievements),
		"level_up":         leveledUp,
		"experience_added": req.Amount,
	})
}

// GetLevelRewards godoc
// @Summary      Level reward table
// @Tags         earnings
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /earnings/rewards [get]
func (h *Handler) GetLevelRewards(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx := c.Request.Context()

	ul, err := h.repo.GetOrCreateUserLevel(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user level"})
		return
	}

	achievements, err := h.repo.GetAchievements(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load achievements"})
		return
	}

	current, _ := RewardFor(ul.CurrentLevel)
	resp := gin.H{
		"current_level":      ul.CurrentLevel,
		"current_level_data": current,
		"progress":           ul.LevelProgress,
		"experience":         ul.CurrentExp,
		"exp_for_next_level": ExpForNextLevel(ul.CurrentExp),
		"achievements":       achievements,
		"all_levels":         Rewards(),
	}
	if next, ok := RewardFor(ul.CurrentLevel + 1); ok {
		resp["next_level_data"] = next
	}

	c.JSON(http.StatusOK, resp)
}
