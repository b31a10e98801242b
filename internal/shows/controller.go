package shows

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"boxoffice/internal/shared/utils/response"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

// CreateShow schedules a new show
func (ctrl *Controller) CreateShow(c *gin.Context) {
	var req CreateShowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	show, err := ctrl.service.CreateShow(c.Request.Context(), &req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to create show", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Show created successfully", show, nil)
}

// GetShow returns a single show
func (ctrl *Controller) GetShow(c *gin.Context) {
	show, err := ctrl.service.GetShow(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrShowNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Show not found", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to get show", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Show retrieved successfully", show, nil)
}

// ListShows lists shows, optionally filtered by status or date
func (ctrl *Controller) ListShows(c *gin.Context) {
	var filters ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	shows, err := ctrl.service.ListShows(c.Request.Context(), filters)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list shows", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Shows retrieved successfully", shows, nil)
}

// UpdateShow updates a scheduled show
func (ctrl *Controller) UpdateShow(c *gin.Context) {
	var req CreateShowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	show, err := ctrl.service.UpdateShow(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrShowNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Show not found", nil, err.Error())
		case errors.Is(err, ErrShowHasBookings):
			response.RespondJSON(c, "error", http.StatusConflict, "Show has confirmed bookings; layout cannot change", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to update show", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Show updated successfully", show, nil)
}

// DeleteShow removes a show without bookings
func (ctrl *Controller) DeleteShow(c *gin.Context) {
	err := ctrl.service.DeleteShow(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrShowNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Show not found", nil, err.Error())
		case errors.Is(err, ErrShowHasBookings):
			response.RespondJSON(c, "error", http.StatusConflict, "Show has bookings and cannot be deleted", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to delete show", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Show deleted successfully", nil, nil)
}

type transitionRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE HOUSE_FULL SHOW_STARTED SHOW_DONE"`
}

// TransitionShow applies a manual status transition
func (ctrl *Controller) TransitionShow(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	show, err := ctrl.service.Transition(c.Request.Context(), c.Param("id"), Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrShowNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Show not found", nil, err.Error())
		case errors.Is(err, ErrInvalidTransition):
			response.RespondJSON(c, "error", http.StatusConflict, "Status transition not allowed", nil, err.Error())
		case errors.Is(err, ErrStaleStatus):
			response.RespondJSON(c, "error", http.StatusConflict, "Show status changed concurrently, retry", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to transition show", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Show status updated successfully", show, nil)
}
