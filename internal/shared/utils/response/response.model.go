package response

import "time"

// Envelope is the wire shape of every API response, success or error.
type Envelope struct {
	Status     string      `json:"status"`           // "success" or "error"
	StatusCode int         `json:"status_code"`      // HTTP status code
	Message    string      `json:"message"`          // Human-readable message
	Data       interface{} `json:"data,omitempty"`   // Payload for success
	Errors     interface{} `json:"errors,omitempty"` // Validation or error details
	Timestamp  time.Time   `json:"timestamp"`        // Server time in UTC
}
