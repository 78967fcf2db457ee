package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	availabilityRepo "shootdispatch/database/repository/availability"
	"shootdispatch/models"
	"shootdispatch/utils"
)

// AvailabilityHandler serves declared availability slots.
type AvailabilityHandler struct {
	Repo availabilityRepo.AvailabilityRepository
}

func NewAvailabilityHandler(repo availabilityRepo.AvailabilityRepository) *AvailabilityHandler {
	return &AvailabilityHandler{Repo: repo}
}

func (h *AvailabilityHandler) List(c *gin.Context) {
	photographerID := strings.TrimSpace(c.Query("photographerId"))
	if photographerID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "photographerId is required")
		return
	}
	slots, err := h.Repo.ListByPhotographer(c.Request.Context(), photographerID)
	if err != nil {
		respondError(c, "Failed to fetch availability", err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// Create stores one slot, or a batch sent as {"slots": [...]}.
// The whole batch is rejected if any slot is invalid.
func (h *AvailabilityHandler) Create(c *gin.Context) {
	logger := getLogger(c)
	var input struct {
		models.AvailabilitySlot
		Slots []models.AvailabilitySlot `json:"slots"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	slots := input.Slots
	if len(slots) == 0 {
		slots = []models.AvailabilitySlot{input.AvailabilitySlot}
	}
	for i := range slots {
		slots[i].ID = ""
		if slots[i].Status == "" {
			slots[i].Status = models.SlotAvailable
		}
		if err := slots[i].Validate(); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid availability slot", err.Error())
			return
		}
	}

	ids, err := h.Repo.CreateMany(c.Request.Context(), slots)
	if err != nil {
		respondError(c, "Failed to create availability", err)
		return
	}
	for i := range slots {
		slots[i].ID = ids[i]
	}
	logger.Info("Availability slots created", zap.Int("count", len(ids)))
	c.JSON(http.StatusCreated, slots)
}

func (h *AvailabilityHandler) Delete(c *gin.Context) {
	if err := h.Repo.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "Failed to delete availability slot", err)
		return
	}
	c.Status(http.StatusNoContent)
}
