package auth

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

// Register creates a new staff account
func (ctrl *Controller) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	result, err := ctrl.service.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserAlreadyExists):
			response.RespondJSON(c, "error", http.StatusConflict, "An account with this email already exists", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to register account", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Account registered successfully", result, nil)
}

// Login authenticates a staff account and returns a token pair
func (ctrl *Controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	result, err := ctrl.service.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid email or password", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to login", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Login successful", result, nil)
}

// RefreshToken exchanges a refresh token for a new token pair
func (ctrl *Controller) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	result, err := ctrl.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired), errors.Is(err, ErrUserNotFound):
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid or expired refresh token", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to refresh token", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Token refreshed successfully", result, nil)
}

// ChangePassword updates the password of the authenticated account
func (ctrl *Controller) ChangePassword(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	err := ctrl.service.ChangePassword(c.Request.Context(), userID.(string), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Current password is incorrect", nil, err.Error())
		case errors.Is(err, ErrUserNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Account not found", nil, err.Error())
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to change password", nil, err.Error())
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Password changed successfully", nil, nil)
}

// Me returns the profile of the authenticated account
func (ctrl *Controller) Me(c *gin.Context) {
	userID, _ := c.Get("user_id")
	email, _ := c.Get("user_email")
	role, _ := c.Get("user_role")

	response.RespondJSON(c, "success", http.StatusOK, "Profile retrieved successfully", gin.H{
		"id":    userID,
		"email": email,
		"role":  role,
	}, nil)
}
