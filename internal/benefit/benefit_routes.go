package benefit

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
	limits := r.Group("/benefit-limits")
	limits.Use(middleware.AuthMiddleware(jwtSecret))
	{
		limits.GET("", middleware.RBACAuthorize(rbacService, "benefit_limit", "read"), handler.GetLimits)
		limits.GET("/:type/remaining", middleware.RBACAuthorize(rbacService, "benefit_limit", "read"), handler.GetRemaining)
	}
}
