package shows

import (
	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/middleware"
)

// RegisterRoutes mounts show CRUD and manual transitions. Reads are open to
// any authenticated staff; mutations are admin only.
func RegisterRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	showGroup := rg.Group("/shows")
	showGroup.Use(middleware.JWTAuthWithConfig(cfg))
	{
		showGroup.GET("", controller.ListShows)
		showGroup.GET("/:id", controller.GetShow)

		admin := showGroup.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("", controller.CreateShow)
			admin.PUT("/:id", controller.UpdateShow)
			admin.DELETE("/:id", controller.DeleteShow)
			admin.PATCH("/:id/status", controller.TransitionShow)
		}
	}
}
