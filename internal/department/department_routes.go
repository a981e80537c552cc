package department

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
	departments := r.Group("/departments")
	departments.Use(middleware.AuthMiddleware(jwtSecret))
	{
		departments.GET("", middleware.RBACAuthorize(rbacService, "department", "read"), handler.GetAll)
		departments.GET("/:id", middleware.RBACAuthorize(rbacService, "department", "read"), handler.GetById)
		departments.POST("", middleware.RBACAuthorize(rbacService, "department", "manage"), handler.Create)
		departments.PUT("/:id", middleware.RBACAuthorize(rbacService, "department", "manage"), handler.Update)
		departments.DELETE("/:id", middleware.RBACAuthorize(rbacService, "department", "manage"), handler.Delete)
	}
}
