package handlers

import (
	"shareride/internal/middleware"
	"shareride/internal/services"
	"shareride/internal/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	notifications, total, err := h.notificationService.List(c.Request.Context(), userID, params)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "", notifications, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// MarkRead handles PUT /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	notificationID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), notificationID, userID); err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Notification marked read", nil)
}
