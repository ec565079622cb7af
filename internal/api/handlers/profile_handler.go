package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voxhire/voxhire/internal/services"
	"github.com/voxhire/voxhire/internal/utils"
)

type ProfileHandler struct {
	svc services.ProfileService
}

func NewProfileHandler(svc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.EnsureProfile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProfileRequest is the résumé producer's payload. Nil fields keep
// their current values.
type UpdateProfileRequest struct {
	Email      *string          `json:"email,omitempty"`
	ResumeText *string          `json:"resume_text,omitempty"`
	Skills     *[]string        `json:"skills,omitempty"`
	Experience *json.RawMessage `json:"experience,omitempty"`
	Education  *json.RawMessage `json:"education,omitempty"`
	Embedding  []float32        `json:"embedding,omitempty"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProfileHandler.Update", "invalid request body", err))
		return
	}

	p, err := h.svc.UpdateResume(c.Request.Context(), userID, services.ResumeUpdate{
		Email:      req.Email,
		ResumeText: req.ResumeText,
		Skills:     req.Skills,
		Experience: req.Experience,
		Education:  req.Education,
		Embedding:  req.Embedding,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
