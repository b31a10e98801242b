package customers

import (
	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/middleware"
)

// RegisterRoutes mounts the customer directory. All staff can read and
// create (walk-in registration at the counter); delete is admin only.
func RegisterRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	customerGroup := rg.Group("/customers")
	customerGroup.Use(middleware.JWTAuthWithConfig(cfg))
	{
		customerGroup.GET("", controller.ListCustomers)
		customerGroup.GET("/:id", controller.GetCustomer)
		customerGroup.POST("", controller.CreateCustomer)
		customerGroup.PUT("/:id", controller.UpdateCustomer)

		admin := customerGroup.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.DELETE("/:id", controller.DeleteCustomer)
		}
	}
}
