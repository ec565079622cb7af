package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voxhire/voxhire/internal/models"
	"github.com/voxhire/voxhire/internal/services"
	"github.com/voxhire/voxhire/internal/utils"
)

type ApplicationHandler struct {
	pipeline services.Pipeline
}

func NewApplicationHandler(pipeline services.Pipeline) *ApplicationHandler {
	return &ApplicationHandler{pipeline: pipeline}
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	detail, err := h.pipeline.GetForRecruiter(c.Request.Context(), c.Param("application_id"), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type UpdateStatusRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required"`
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ApplicationHandler.UpdateStatus", "invalid request body", err))
		return
	}

	app, err := h.pipeline.Advance(c.Request.Context(), c.Param("application_id"), req.Status, actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
