package auth

import (
	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/middleware"
)

// RegisterRoutes mounts public and protected auth endpoints
func RegisterRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	authGroup := rg.Group("/auth")
	{
		// Public routes
		authGroup.POST("/register", controller.Register)
		authGroup.POST("/login", controller.Login)
		authGroup.POST("/refresh", controller.RefreshToken)

		// Protected routes
		protected := authGroup.Group("")
		protected.Use(middleware.JWTAuthWithConfig(cfg))
		{
			protected.POST("/change-password", controller.ChangePassword)
			protected.GET("/me", controller.Me)
		}
	}
}
