package notification

import (
	"go-welfare/internal/middleware"
	"go-welfare/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	jwtSecret []byte,
) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(jwtSecret))
	{
		notifications.GET("", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.GetAll)
		notifications.GET("/unread-count", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.UnreadCount)
		notifications.PATCH("/:id/read", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.MarkRead)
		notifications.PATCH("/read-all", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.MarkAllRead)
	}

	// Token auth happens inside the websocket handshake.
	r.GET("/notifications/ws", handler.Subscribe)
}
