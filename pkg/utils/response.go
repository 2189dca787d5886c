package utils

import (
	"github.com/gin-gonic/gin"
)

// Response is the common envelope for all API responses.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Message: message,
	})
}

// RejectionResponse reports a business rejection with a machine-readable
// reason code. These are expected outcomes, not server errors.
func RejectionResponse(c *gin.Context, status int, reason, message string) {
	c.JSON(status, Response{
		Success: false,
		Reason:  reason,
		Message: message,
	})
}
