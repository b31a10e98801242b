package customers

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

// CreateCustomer registers a new customer
func (ctrl *Controller) CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	customer, err := ctrl.service.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create customer", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Customer created successfully", customer, nil)
}

// GetCustomer returns one customer
func (ctrl *Controller) GetCustomer(c *gin.Context) {
	customer, err := ctrl.service.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrCustomerNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Customer not found", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to get customer", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Customer retrieved successfully", customer, nil)
}

// ListCustomers lists customers, optionally filtered by a search term
func (ctrl *Controller) ListCustomers(c *gin.Context) {
	customers, err := ctrl.service.ListCustomers(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list customers", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Customers retrieved successfully", customers, nil)
}

// UpdateCustomer updates customer details
func (ctrl *Controller) UpdateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	customer, err := ctrl.service.UpdateCustomer(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCustomerNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Customer not found", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to update customer", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Customer updated successfully", customer, nil)
}

// DeleteCustomer removes a customer; their bookings are detached, not deleted
func (ctrl *Controller) DeleteCustomer(c *gin.Context) {
	err := ctrl.service.DeleteCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrCustomerNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Customer not found", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to delete customer", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Customer deleted successfully", nil, nil)
}
