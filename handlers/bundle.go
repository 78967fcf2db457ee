package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shootdispatch/utils"
)

// HandlerBundle groups the endpoint handlers. The CRUD handlers are nil when
// the service runs against a remote backend.
type HandlerBundle struct {
	Dispatch      *DispatchHandler
	Availability  *AvailabilityHandler
	Shoots        *ShootHandler
	Photographers *PhotographerHandler
}

// Health reports the last dependency snapshot.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Mongo {
		code = http.StatusServiceUnavailable
	}
	for _, ok := range status.Redis {
		if !ok {
			code = http.StatusServiceUnavailable
		}
	}
	c.JSON(code, status)
}
