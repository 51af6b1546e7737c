package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/novabank/banking/internal/middleware"
	"github.com/novabank/banking/internal/models"
	"github.com/novabank/banking/internal/store"
)

// NotificationHandler serves the in-app notification feed.
type NotificationHandler struct {
	notifications store.NotificationRepository
}

type ListNotificationsResponse struct {
	Notifications []models.Notification `json:"notifications"`
}

func NewNotificationHandler(notifications store.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	notifications, err := h.notifications.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list notifications")
		return
	}

	c.JSON(http.StatusOK, ListNotificationsResponse{Notifications: notifications})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID := c.Param("notificationId")
	userID, _ := middleware.GetUserID(c)

	if err := h.notifications.MarkRead(c.Request.Context(), notificationID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Notification not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update notification")
		return
	}

	c.Status(http.StatusNoContent)
}
