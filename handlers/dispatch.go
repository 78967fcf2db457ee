package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shootdispatch/models"
	"shootdispatch/services/dispatch"
	"shootdispatch/utils"
)

// DispatchHandler serves the operator assignment view.
type DispatchHandler struct {
	Service dispatch.DispatchService
}

func NewDispatchHandler(service dispatch.DispatchService) *DispatchHandler {
	return &DispatchHandler{Service: service}
}

// InitiateSession ranks the roster for a booking and opens a session.
func (h *DispatchHandler) InitiateSession(c *gin.Context) {
	var input struct {
		Booking models.BookingRequest `json:"booking" binding:"required"`
		Options models.RankOptions    `json:"options"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	view, err := h.Service.InitiateSession(c.Request.Context(), input.Booking, input.Options)
	if err != nil {
		respondError(c, "Failed to start dispatch session", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DispatchHandler) RankSession(c *gin.Context) {
	var input struct {
		Options models.RankOptions `json:"options"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	view, err := h.Service.RankSession(c.Request.Context(), c.Param("sessionID"), input.Options)
	if err != nil {
		respondError(c, "Failed to rank candidates", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// OpenPhotographer selects a photographer-day and returns its timeline.
// A request overtaken by a newer selection answers 409 and must be ignored.
func (h *DispatchHandler) OpenPhotographer(c *gin.Context) {
	var input struct {
		PhotographerID string `json:"photographerId" binding:"required"`
		Date           string `json:"date"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	view, err := h.Service.OpenPhotographer(c.Request.Context(), c.Param("sessionID"), input.PhotographerID, input.Date)
	if err != nil {
		respondError(c, "Failed to load photographer timeline", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DispatchHandler) Assign(c *gin.Context) {
	var input struct {
		ShootID        string `json:"shootId" binding:"required"`
		PhotographerID string `json:"photographerId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	view, err := h.Service.Assign(c.Request.Context(), c.Param("sessionID"), input.ShootID, input.PhotographerID)
	if err != nil {
		respondError(c, "Failed to assign shoot", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *DispatchHandler) CancelSession(c *gin.Context) {
	if err := h.Service.CancelSession(c.Request.Context(), c.Param("sessionID")); err != nil {
		respondError(c, "Failed to cancel dispatch session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dispatch session cancelled"})
}

// Timeline builds a single photographer-day without a session.
func (h *DispatchHandler) Timeline(c *gin.Context) {
	photographerID := c.Query("photographerId")
	if photographerID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "photographerId is required")
		return
	}
	timeline, err := h.Service.Timeline(c.Request.Context(), photographerID, c.Query("date"))
	if err != nil {
		respondError(c, "Failed to build timeline", err)
		return
	}
	c.JSON(http.StatusOK, timeline)
}

func (h *DispatchHandler) NextAvailable(c *gin.Context) {
	photographerID := c.Query("photographerId")
	if photographerID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "photographerId is required")
		return
	}
	next, err := h.Service.NextAvailable(c.Request.Context(), photographerID, c.Query("from"))
	if err != nil {
		respondError(c, "Failed to search availability", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photographerId": photographerID, "nextAvailable": next})
}
