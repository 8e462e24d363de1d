package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/user-admin-console/internal/notify"
	appErrors "github.com/noah-isme/user-admin-console/pkg/errors"
	"github.com/noah-isme/user-admin-console/pkg/response"
)

// NotificationHandler exposes the operator notification.
type NotificationHandler struct {
	notifier *notify.Notifier
}

// NewNotificationHandler constructs a notification handler.
func NewNotificationHandler(notifier *notify.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// Current godoc
// @Summary Current notification
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.NotificationView}
// @Success 204
// @Router /notification [get]
func (h *NotificationHandler) Current(c *gin.Context) {
	n, ok := h.notifier.Current()
	if !ok {
		response.NoContent(c)
		return
	}
	response.JSON(c, http.StatusOK, notificationView(n))
}

// Acknowledge godoc
// @Summary Acknowledge notification
// @Tags Notifications
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /notification/{id}/acknowledge [post]
func (h *NotificationHandler) Acknowledge(c *gin.Context) {
	if !h.notifier.Acknowledge(c.Param("id")) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "notification is no longer displayed"))
		return
	}
	response.NoContent(c)
}
