package layouts

import (
	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/middleware"
)

// RegisterRoutes mounts layout CRUD. All endpoints require authentication;
// mutations are admin only.
func RegisterRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	layoutGroup := rg.Group("/layouts")
	layoutGroup.Use(middleware.JWTAuthWithConfig(cfg))
	{
		layoutGroup.GET("", controller.ListLayouts)
		layoutGroup.GET("/:id", controller.GetLayout)

		admin := layoutGroup.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("", controller.CreateLayout)
			admin.PUT("/:id", controller.UpdateLayout)
			admin.DELETE("/:id", controller.DeleteLayout)
		}
	}
}
