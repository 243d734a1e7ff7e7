package routes

import (
	"shareride/internal/handlers"
	"shareride/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupNotificationRoutes sets up in-app notification routes
func SetupNotificationRoutes(r *gin.RouterGroup, notificationHandler *handlers.NotificationHandler, jwtSecret string) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthRequired(jwtSecret))
	{
		notifications.GET("", notificationHandler.List)
		notifications.PUT("/:id/read", notificationHandler.MarkRead)
	}
}
