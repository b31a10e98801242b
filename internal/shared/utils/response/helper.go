package response

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RespondJSON writes the standard envelope. Every handler in the service
// goes through this so clients see one consistent shape.
func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, Envelope{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
		Timestamp:  time.Now().UTC(),
	})
}
