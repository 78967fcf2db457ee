package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	photographerRepo "shootdispatch/database/repository/photographer"
	"shootdispatch/models"
	"shootdispatch/services/tasks"
	"shootdispatch/utils"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PhotographerHandler serves the roster.
type PhotographerHandler struct {
	Repo  photographerRepo.PhotographerRepository
	Queue Enqueuer
}

func NewPhotographerHandler(repo photographerRepo.PhotographerRepository, queue Enqueuer) *PhotographerHandler {
	return &PhotographerHandler{Repo: repo, Queue: queue}
}

func (h *PhotographerHandler) List(c *gin.Context) {
	photographers, err := h.Repo.ListPhotographers(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to fetch photographers", err)
		return
	}
	c.JSON(http.StatusOK, photographers)
}

// Upsert ingests a roster entry and queues its home address for geocoding.
func (h *PhotographerHandler) Upsert(c *gin.Context) {
	logger := getLogger(c)
	var p models.Photographer
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "name is required")
		return
	}
	p.Status = models.PhotographerStatus(strings.ToLower(string(p.Status)))
	if !p.Status.Valid() {
		p.Status = models.StatusFree
	}

	if err := h.Repo.Upsert(c.Request.Context(), &p); err != nil {
		respondError(c, "Failed to save photographer", err)
		return
	}

	if h.Queue != nil && !p.Address.IsZero() {
		task, opts, err := tasks.NewGeocodeAddressTask(tasks.GeocodePayload{PhotographerID: p.ID, Address: p.Address})
		if err == nil {
			_, err = h.Queue.EnqueueContext(c.Request.Context(), task, opts...)
		}
		if err != nil {
			// The address is resolved on first ranking instead.
			logger.Warn("Failed to enqueue geocode task", zap.String("photographerID", p.ID), zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, p)
}
