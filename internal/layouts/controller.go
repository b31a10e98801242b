package layouts

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

// CreateLayout creates a new seating layout
func (ctrl *Controller) CreateLayout(c *gin.Context) {
	var req CreateLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	layout, err := ctrl.service.CreateLayout(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrLayoutNameTaken):
			response.RespondJSON(c, "error", http.StatusConflict, "A layout with this name already exists", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to create layout", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Layout created successfully", layout, nil)
}

// GetLayout returns a layout with its sections
func (ctrl *Controller) GetLayout(c *gin.Context) {
	layout, err := ctrl.service.GetLayout(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrLayoutNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Layout not found", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to get layout", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Layout retrieved successfully", layout, nil)
}

// ListLayouts returns all layouts
func (ctrl *Controller) ListLayouts(c *gin.Context) {
	layouts, err := ctrl.service.ListLayouts(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list layouts", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Layouts retrieved successfully", layouts, nil)
}

// UpdateLayout replaces a layout definition
func (ctrl *Controller) UpdateLayout(c *gin.Context) {
	var req CreateLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	layout, err := ctrl.service.UpdateLayout(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrLayoutNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Layout not found", nil, err.Error())
		case errors.Is(err, ErrLayoutInUse):
			response.RespondJSON(c, "error", http.StatusConflict, "Layout has confirmed bookings and cannot be edited", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to update layout", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Layout updated successfully", layout, nil)
}

// DeleteLayout removes a layout not referenced by any show
func (ctrl *Controller) DeleteLayout(c *gin.Context) {
	err := ctrl.service.DeleteLayout(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrLayoutNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Layout not found", nil, err.Error())
		case errors.Is(err, ErrLayoutInUse):
			response.RespondJSON(c, "error", http.StatusConflict, "Layout is referenced by existing shows", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to delete layout", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Layout deleted successfully", nil, nil)
}
