package label

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sahu-SuMiT/WeNews/internal/auth"
	"github.com/sahu-SuMiT/WeNews/internal/level"
	"github.com/sahu-SuMiT/WeNews/internal/metrics"
	"github.com/sahu-SuMiT/WeNews/internal/user"
	"github.com/sahu-SuMiT/WeNews/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo    Repository
	service Service
}

func NewHandler(db *sqlx.DB) *Handler {
	repo := NewRepository(db)
	return &Handler{
		repo: repo,
		service: NewService(
			repo,
			user.NewRepository(db),
			wallet.NewRepository(db),
			level.NewRepository(db),
		),
	}
}

type CreateLabelRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Color       string     `json:"color"`
	Reward      int64      `json:"reward" binding:"gte=0"`
	Conditions  Conditions `json:"unlock_conditions" binding:"dive"`
	Category    string     `json:"category"`
}

type UpdateLabelRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Color       string     `json:"color"`
	Reward      int64      `json:"reward" binding:"gte=0"`
	Conditions  Conditions `json:"unlock_conditions" binding:"dive"`
	Category    string     `json:"category"`
	IsActive    bool       `json:"is_active"`
}

// GetActiveLabels godoc
// @Summary      Unlocked labels
// @Description  Returns the active labels whose conditions the caller currently meets.
// @Tags         labels
// @Produce      json
// @Success      200 {array} LabelStatus
// @Failure      401 {object} api.ErrorResponse
// @Router       /labels/active [get]
func (h *Handler) GetActiveLabels(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	labels, err := h.service.ActiveLabels(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load labels"})
		return
	}

	c.JSON(http.StatusOK, labels)
}

func (h *Handler) GetLabelDetails(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	labelID, err := strconv.Atoi(c.Param("labelID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid label id"})
		return
	}

	details, err := h.service.LabelDetails(c.Request.Context(), userID, labelID)
	if err != nil {
		if errors.Is(err, ErrLabelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "label not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load label"})
		return
	}

	c.JSON(http.StatusOK, details)
}

// ClaimLabel godoc
// @Summary      Claim a label reward
// @Description  Writes the achievement and credits the reward once; repeat claims fail.
// @Tags         labels
// @Produce      json
// @Param        labelID path int true "Label ID"
// @Success      200 {object} ClaimResult
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /labels/{labelID}/claim [post]
func (h *Handler) ClaimLabel(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	labelID, err := strconv.Atoi(c.Param("labelID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid label id"})
		return
	}

	result, err := h.service.Claim(c.Request.Context(), userID, labelID)
	if err != nil {
		switch {
		case errors.Is(err, ErrLabelNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "label not found"})
		case errors.Is(err, ErrAlreadyClaimed):
			metrics.RecordRewardClaim("label", "already_claimed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "label reward already claimed"})
		case errors.Is(err, ErrConditionsNotMet):
			c.JSON(http.StatusBadRequest, gin.H{"error": "label conditions not met yet"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to claim label reward"})
		}
		return
	}

	metrics.RecordRewardClaim("label", "success")
	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetUserAchievements(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	achievements, totalRewards, err := h.service.Achievements(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load achievements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"achievements":  achievements,
		"total_count":   len(achievements),
		"total_rewards": totalRewards,
	})
}

func (h *Handler) ListLabels(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	labels, err := h.repo.GetLabels(c.Request.Context(), Filter{
		Category: c.Query("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load labels"})
		return
	}

	summaries := make([]LabelSummary, 0, len(labels))
	for i := range labels {
		summaries = append(summaries, labels[i].Summary())
	}

	c.JSON(http.StatusOK, summaries)
}

func (h *Handler) CreateLabel(c *gin.Context) {
	var req CreateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := req.Category
	if category == "" {
		category = "general"
	}

	l, err := h.repo.CreateLabel(c.Request.Context(), &Label{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		Reward:      req.Reward,
		Conditions:  req.Conditions,
		Category:    category,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateLabelName) {
			c.JSON(http.StatusConflict, gin.H{"error": "label with this name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create label"})
		return
	}

	c.JSON(http.StatusCreated, l.Summary())
}

func (h *Handler) UpdateLabel(c *gin.Context) {
	labelID, err := strconv.Atoi(c.Param("labelID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid label id"})
		return
	}

	var req UpdateLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l, err := h.repo.UpdateLabel(c.Request.Context(), labelID, &Label{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		Reward:      req.Reward,
		Conditions:  req.Conditions,
		Category:    req.Category,
		IsActive:    req.IsActive,
	})
	if err != nil {
		if errors.Is(err, ErrLabelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "label not found"})
			return
		}
		if errors.Is(err, ErrDuplicateLabelName) {
			c.JSON(http.StatusConflict, gin.H{"error": "label with this name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update label"})
		return
	}

	c.JSON(http.StatusOK, l.Summary())
}
