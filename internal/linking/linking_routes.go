package linking

import (
	"go-welfare/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, jwtSecret []byte) {
	line := r.Group("/line")
	{
		// The callback arrives from LINE's redirect without our JWT; the
		// signed state carries the employee identity instead.
		line.GET("/callback", handler.Callback)

		line.GET("/authorize", middleware.AuthMiddleware(jwtSecret), handler.Authorize)
		line.GET("/status", middleware.AuthMiddleware(jwtSecret), handler.Status)
		line.POST("/unlink", middleware.AuthMiddleware(jwtSecret), handler.Unlink)
	}
}
