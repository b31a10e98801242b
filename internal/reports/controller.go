package reports

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ShowReports returns revenue and occupancy per show
func (ctrl *Controller) ShowReports(c *gin.Context) {
	reports, err := ctrl.service.ShowReports(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to build show reports", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Show reports retrieved successfully", reports, nil)
}

// DailySales returns per-date ticket issuance totals
func (ctrl *Controller) DailySales(c *gin.Context) {
	sales, err := ctrl.service.DailySales(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to build daily sales", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Daily sales retrieved successfully", sales, nil)
}

// Summary returns the top-line dashboard numbers
func (ctrl *Controller) Summary(c *gin.Context) {
	summary, err := ctrl.service.Summary(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to build summary", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Summary retrieved successfully", summary, nil)
}

// ExportBookingsCSV streams a CSV of all tickets for one show
func (ctrl *Controller) ExportBookingsCSV(c *gin.Context) {
	showID := c.Param("id")
	filename := fmt.Sprintf("bookings-%s-%s.csv", showID, time.Now().UTC().Format("20060102"))

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	if err := ctrl.service.WriteBookingsCSV(c.Request.Context(), showID, c.Writer); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to export bookings", nil, err.Error())
		return
	}
}

// ExportDailySalesCSV streams a CSV of daily sales
func (ctrl *Controller) ExportDailySalesCSV(c *gin.Context) {
	filename := fmt.Sprintf("daily-sales-%s.csv", time.Now().UTC().Format("20060102"))

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	if err := ctrl.service.WriteDailySalesCSV(c.Request.Context(), c.Query("from"), c.Query("to"), c.Writer); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to export daily sales", nil, err.Error())
		return
	}
}
