package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shootdispatch/utils"
)

// getLogger returns the request-scoped logger set by the request logger
// middleware, or the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}
