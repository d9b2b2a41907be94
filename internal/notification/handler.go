package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sahu-SuMiT/WeNews/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// List godoc
// @Summary      User notifications
// @Description  Lists the caller's notifications, newest first.
// @Tags         notifications
// @Produce      json
// @Param        type query string false "notification type filter"
// @Param        is_read query bool false "read-state filter"
// @Param        page query int false "page number"
// @Param        limit query int false "page size"
// @Success      200 {array} Notification
// @Router       /notifications [get]
func (h *Handler) List(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	f := Filter{
		Type:   Type(c.Query("type")),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if v := c.Query("is_read"); v != "" {
		isRead := v == "true"
		f.IsRead = &isRead
	}

	list, total, err := h.repo.GetByUser(c.Request.Context(), userID, f)
	if err != nil {
		if errors.Is(err, ErrInvalidType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification type"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": list,
		"pagination": gin.H{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": totalPages,
		},
	})
}

// UnreadCount godoc
// @Summary      Unread notification count
// @Tags         notifications
// @Produce      json
// @Success      200 {object} map[string]int64
// @Router       /notifications/unread-count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	count, err := h.repo.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// MarkRead godoc
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Param        id path int true "notification id"
// @Success      200 {object} Notification
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /notifications/{id}/read [put]
func (h *Handler) MarkRead(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	n, err := h.repo.MarkRead(c.Request.Context(), id, userID)
	switch {
	case errors.Is(err, ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	case errors.Is(err, ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "notification marked as read",
		"notification": n,
	})
}

// MarkAllRead godoc
// @Summary      Mark all notifications read
// @Tags         notifications
// @Produce      json
// @Success      200 {object} map[string]int64
// @Router       /notifications/mark-all-read [put]
func (h *Handler) MarkAllRead(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	count, err := h.repo.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_count": count})
}

// Delete godoc
// @Summary      Delete a notification
// @Tags         notifications
// @Param        id path int true "notification id"
// @Success      200 {object} map[string]string
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /notifications/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	err = h.repo.Delete(c.Request.Context(), id, userID)
	switch {
	case errors.Is(err, ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	case errors.Is(err, ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notification deleted"})
}

// GetStats godoc
// @Summary      Notification statistics
// @Description  Admin rollup of notification volumes.
// @Tags         notifications
// @Produce      json
// @Success      200 {object} Stats
// @Router       /notifications/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.repo.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notification stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
