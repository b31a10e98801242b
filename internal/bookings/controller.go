package bookings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"boxoffice/internal/shared/utils/response"
	"boxoffice/internal/shows"
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

// BookSeats runs the atomic booking transaction
func (ctrl *Controller) BookSeats(c *gin.Context) {
	var req BookSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	bookedBy := c.GetString("user_email")
	if bookedBy == "" {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	result, err := ctrl.service.BookSeats(c.Request.Context(), &req, bookedBy)
	if err != nil {
		switch {
		case errors.Is(err, shows.ErrShowNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Show not found", nil, err.Error())
		case errors.Is(err, shows.ErrShowNotBookable):
			response.RespondJSON(c, "error", http.StatusConflict, "Show is not accepting bookings", nil, err.Error())
		case errors.Is(err, ErrBookingTimeout):
			response.RespondJSON(c, "error", http.StatusServiceUnavailable, "Booking is busy for this show, try again", nil, err.Error())
		case errors.Is(err, ErrUnknownSeat), errors.Is(err, ErrDuplicateSeats), errors.Is(err, ErrNoSeats):
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid seat selection", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Booking failed", nil, err.Error())
		}
		return
	}

	if !result.Success {
		// Conflict is an expected outcome: the caller retries with the
		// remaining seats.
		response.RespondJSON(c, "error", http.StatusConflict, "Some seats are already booked", result, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Seats booked successfully", result, nil)
}

// GetAvailability returns the booked and free seat view for a show
func (ctrl *Controller) GetAvailability(c *gin.Context) {
	availability, err := ctrl.service.SeatsBookedForShow(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, shows.ErrShowNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Show not found", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to read availability", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat availability retrieved successfully", availability, nil)
}

// GetBooking returns a booking with its seats and tickets
func (ctrl *Controller) GetBooking(c *gin.Context) {
	booking, err := ctrl.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to get booking", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// GetBookingByRef resolves a booking by its human-quotable reference
func (ctrl *Controller) GetBookingByRef(c *gin.Context) {
	booking, err := ctrl.service.GetBookingByRef(c.Request.Context(), c.Param("ref"))
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to get booking", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// CancelBooking revokes a booking and frees its seats
func (ctrl *Controller) CancelBooking(c *gin.Context) {
	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	booking, err := ctrl.service.CancelBooking(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, err.Error())
		case errors.Is(err, ErrAlreadyCancelled):
			response.RespondJSON(c, "error", http.StatusConflict, "Booking is already cancelled", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to cancel booking", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking cancelled successfully", booking, nil)
}

// ListBookingsForShow lists all bookings of a show
func (ctrl *Controller) ListBookingsForShow(c *gin.Context) {
	bookings, err := ctrl.service.ListBookingsForShow(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to list bookings", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", bookings, nil)
}

// ListTicketsForShow lists all tickets issued for a show
func (ctrl *Controller) ListTicketsForShow(c *gin.Context) {
	tickets, err := ctrl.service.ListTicketsForShow(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to list tickets", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tickets retrieved successfully", tickets, nil)
}
