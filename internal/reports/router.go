package reports

import (
	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/middleware"
)

// RegisterRoutes mounts the read-only reporting endpoints, all admin only.
func RegisterRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	reportGroup := rg.Group("/reports")
	reportGroup.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		reportGroup.GET("/summary", controller.Summary)
		reportGroup.GET("/shows", controller.ShowReports)
		reportGroup.GET("/daily-sales", controller.DailySales)
		reportGroup.GET("/daily-sales/export", controller.ExportDailySalesCSV)
		reportGroup.GET("/shows/:id/bookings/export", controller.ExportBookingsCSV)
	}
}
