package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/utils/response"
	"boxoffice/internal/users"
	"boxoffice/pkg/logger"
)

// JWTAuthWithConfig validates the bearer token and stores the staff identity
// on the request context under user_id, user_email, and user_role.
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	log := logger.GetDefault()

	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err != nil {
			log.LogAuthFailure(c.Request.Context(), err.Error(), c.ClientIP())
			response.RespondJSON(c, "error", http.StatusUnauthorized, err.Error(), nil, nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWT.Secret), nil
		})
		if err != nil || !token.Valid {
			log.LogAuthFailure(c.Request.Context(), "invalid or expired token", c.ClientIP())
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid or expired token", nil, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["type"] != "access" {
			log.LogAuthFailure(c.Request.Context(), "wrong token type", c.ClientIP())
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid token type", nil, nil)
			c.Abort()
			return
		}

		c.Set("user_id", claims["user_id"])
		c.Set("user_email", claims["email"])
		c.Set("user_role", claims["role"])

		c.Next()
	}
}

// bearerToken extracts the raw token from the Authorization header.
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("authorization header is required")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("authorization header format must be Bearer {token}")
	}
	return parts[1], nil
}

// RequireRole gates a route on the staff role set by JWTAuthWithConfig.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}

		if role, ok := userRole.(string); !ok || role != requiredRole {
			response.RespondJSON(c, "error", http.StatusForbidden, "insufficient permissions", nil, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin gates layout, show, and customer mutations plus reporting.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(string(users.RoleAdmin))
}
