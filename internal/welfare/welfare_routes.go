package welfare

import (
	"go-welfare/internal/middleware"
	"go-welfare/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
	jwtSecret []byte,
) {
	requests := r.Group("/welfare-requests")
	requests.Use(middleware.AuthMiddleware(jwtSecret))
	{
		requests.GET("", middleware.RBACAuthorize(rbacService, "welfare_request", "read"), handler.GetAll)
		requests.GET("/:id", middleware.RBACAuthorize(rbacService, "welfare_request", "read"), handler.GetById)
		requests.GET("/:id/approvals", middleware.RBACAuthorize(rbacService, "welfare_request", "read"), handler.GetTrail)
		requests.GET("/:id/form", middleware.RBACAuthorize(rbacService, "welfare_request", "read"), handler.GetForm)
		requests.POST("", middleware.RBACAuthorize(rbacService, "welfare_request", "create"), middleware.Idempotency(rdb), handler.Create)
		requests.POST("/:id/attachments", middleware.RBACAuthorize(rbacService, "welfare_request", "create"), handler.AddAttachment)
		requests.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "welfare_request", "review"), handler.Approve)
		requests.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "welfare_request", "review"), handler.Reject)
		requests.POST("/:id/request-revision", middleware.RBACAuthorize(rbacService, "welfare_request", "review"), handler.RequestRevision)
		requests.POST("/:id/resubmit", middleware.RBACAuthorize(rbacService, "welfare_request", "create"), handler.Resubmit)
	}
}
