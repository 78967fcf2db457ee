package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	JSONErrorCode(c, status, "", message, details)
}

// JSONErrorCode is JSONError with a machine-readable code the console can branch on.
func JSONErrorCode(c *gin.Context, status int, code, message, details string) {
	logger := GetLogger()
	if status >= http.StatusInternalServerError {
		logger.Error(message, zap.String("code", code), zap.String("details", details))
	} else {
		logger.Warn(message, zap.String("code", code), zap.String("details", details))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Details: details, Code: code})
}
