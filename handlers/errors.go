package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shootdispatch/clients/backend"
	"shootdispatch/models"
	"shootdispatch/services/assignment"
	"shootdispatch/services/availability"
	"shootdispatch/services/dispatch"
	"shootdispatch/utils"
)

// respondError maps a service error onto the status and code the console branches on.
func respondError(c *gin.Context, message string, err error) {
	var ae *assignment.AssignmentError
	switch {
	case errors.As(err, &ae):
		status := http.StatusBadGateway
		switch ae.Kind {
		case assignment.KindNotFound:
			status = http.StatusNotFound
		case assignment.KindConflict:
			status = http.StatusConflict
		case assignment.KindInvalid:
			status = http.StatusBadRequest
		}
		utils.JSONErrorCode(c, status, "assignment_"+string(ae.Kind), message, err.Error())
	case errors.Is(err, dispatch.ErrInvalidRequest):
		utils.JSONErrorCode(c, http.StatusBadRequest, "invalid_request", message, err.Error())
	case errors.Is(err, dispatch.ErrSessionNotFound):
		utils.JSONErrorCode(c, http.StatusNotFound, "session_not_found", message, err.Error())
	case errors.Is(err, dispatch.ErrStaleView):
		utils.JSONErrorCode(c, http.StatusConflict, "stale_view", message, err.Error())
	case errors.Is(err, models.ErrNotFound):
		utils.JSONErrorCode(c, http.StatusNotFound, "not_found", message, err.Error())
	case errors.Is(err, models.ErrConflict):
		utils.JSONErrorCode(c, http.StatusConflict, "conflict", message, err.Error())
	case errors.Is(err, availability.ErrShootsFetchFailed), errors.Is(err, backend.ErrBackendUnavailable):
		utils.JSONErrorCode(c, http.StatusServiceUnavailable, "backend_unavailable", message, err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, message, err.Error())
	}
}
