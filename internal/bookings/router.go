package bookings

import (
	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/middleware"
)

// RegisterRoutes mounts booking operations. Any authenticated staff member
// can book, read availability, and cancel; per-show rollups are admin only.
func RegisterRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	bookingGroup := rg.Group("/bookings")
	bookingGroup.Use(middleware.JWTAuthWithConfig(cfg))
	{
		bookingGroup.POST("", controller.BookSeats)
		bookingGroup.GET("/:id", controller.GetBooking)
		bookingGroup.GET("/ref/:ref", controller.GetBookingByRef)
		bookingGroup.POST("/:id/cancel", controller.CancelBooking)
	}

	showGroup := rg.Group("/shows/:id")
	showGroup.Use(middleware.JWTAuthWithConfig(cfg))
	{
		showGroup.GET("/availability", controller.GetAvailability)

		admin := showGroup.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/bookings", controller.ListBookingsForShow)
			admin.GET("/tickets", controller.ListTicketsForShow)
		}
	}
}
