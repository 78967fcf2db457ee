package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	shootRepo "shootdispatch/database/repository/shoot"
	"shootdispatch/models"
	"shootdispatch/services/assignment"
	"shootdispatch/utils"
)

// ShootAssigner is satisfied by *assignment.Coordinator.
type ShootAssigner interface {
	Assign(ctx context.Context, shootID, photographerID string) (*assignment.Result, error)
}

// ShootHandler serves the shoot overview and single-shoot assignment.
type ShootHandler struct {
	Repo     shootRepo.ShootRepository
	Assigner ShootAssigner
}

func NewShootHandler(repo shootRepo.ShootRepository, assigner ShootAssigner) *ShootHandler {
	return &ShootHandler{Repo: repo, Assigner: assigner}
}

func (h *ShootHandler) Overview(c *gin.Context) {
	shoots, err := h.Repo.ListOverview(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to fetch shoots", err)
		return
	}
	c.JSON(http.StatusOK, shoots)
}

func (h *ShootHandler) Create(c *gin.Context) {
	var shoot models.Shoot
	if err := c.ShouldBindJSON(&shoot); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	if strings.TrimSpace(shoot.AddressLine) == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "addressLine is required")
		return
	}
	shoot.ID = ""
	if err := h.Repo.Create(c.Request.Context(), &shoot); err != nil {
		respondError(c, "Failed to create shoot", err)
		return
	}
	c.JSON(http.StatusCreated, shoot)
}

// Patch assigns a photographer. Both photographer_id and photographerId are accepted.
func (h *ShootHandler) Patch(c *gin.Context) {
	var input struct {
		PhotographerIDSnake string `json:"photographer_id"`
		PhotographerID      string `json:"photographerId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	photographerID := input.PhotographerID
	if photographerID == "" {
		photographerID = input.PhotographerIDSnake
	}

	res, err := h.Assigner.Assign(c.Request.Context(), c.Param("id"), photographerID)
	if err != nil {
		respondError(c, "Failed to assign shoot", err)
		return
	}
	c.JSON(http.StatusOK, res.Shoot)
}
