package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/voxhire/voxhire/internal/cache"
	"github.com/voxhire/voxhire/internal/callengine"
	"github.com/voxhire/voxhire/internal/models"
	"github.com/voxhire/voxhire/internal/services"
	"github.com/voxhire/voxhire/internal/utils"
)

const artifactTTL = 10 * time.Minute

type SessionHandler struct {
	orch      services.Orchestrator
	profiles  services.ProfileService
	artifacts cache.Cache
}

func NewSessionHandler(orch services.Orchestrator, profiles services.ProfileService, artifacts cache.Cache) *SessionHandler {
	return &SessionHandler{orch: orch, profiles: profiles, artifacts: artifacts}
}

func (h *SessionHandler) CreatePractice(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	res, err := h.orch.CreateSession(c.Request.Context(), userID, models.KindPractice, "")
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

type LaunchApplicationRequest struct {
	JobPostingID string `json:"job_posting_id" binding:"required"`
}

func (h *SessionHandler) LaunchApplication(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req LaunchApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SessionHandler.LaunchApplication", "invalid request body", err))
		return
	}

	res, err := h.orch.CreateSession(c.Request.Context(), userID, models.KindApplication, req.JobPostingID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *SessionHandler) Get(c *gin.Context) {
	sess, ok := h.authorizeOwner(c)
	if !ok {
		return
	}

	// completed artifacts are immutable, cache them
	if sess.Status == models.SessionCompleted && h.artifacts != nil {
		_ = h.artifacts.SetJSON(c.Request.Context(), artifactKey(sess.SessionID), sess, artifactTTL)
	}
	c.JSON(http.StatusOK, sess)
}

type BindCallIDRequest struct {
	CallID string `json:"call_id" binding:"required"`
}

func (h *SessionHandler) BindCallID(c *gin.Context) {
	sess, ok := h.authorizeOwner(c)
	if !ok {
		return
	}

	var req BindCallIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SessionHandler.BindCallID", "invalid request body", err))
		return
	}

	if err := h.orch.BindCallID(c.Request.Context(), sess.SessionID, req.CallID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// IngestEvent accepts a single call-engine event over plain HTTP, for
// engines that deliver by webhook instead of the websocket stream.
func (h *SessionHandler) IngestEvent(c *gin.Context) {
	sess, ok := h.authorizeOwner(c)
	if !ok {
		return
	}

	var ev callengine.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SessionHandler.IngestEvent", "invalid event payload", err))
		return
	}

	if err := h.orch.Ingest(c.Request.Context(), sess.SessionID, ev); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "ok"})
}

// authorizeOwner resolves the session (artifact cache first for completed
// ones) and verifies the caller's profile owns it.
func (h *SessionHandler) authorizeOwner(c *gin.Context) (*models.Session, bool) {
	userID, ok := requireUserID(c)
	if !ok {
		return nil, false
	}

	sessionID := c.Param("session_id")

	var sess *models.Session
	if h.artifacts != nil {
		var cached models.Session
		if hit, _ := h.artifacts.GetJSON(c.Request.Context(), artifactKey(sessionID), &cached); hit {
			sess = &cached
		}
	}
	if sess == nil {
		s, err := h.orch.Get(c.Request.Context(), sessionID)
		if err != nil {
			writeError(c, err)
			return nil, false
		}
		sess = s
	}

	profile, err := h.profiles.GetMe(c.Request.Context(), userID)
	if err != nil || profile.ID != sess.CandidateID {
		writeError(c, utils.E(utils.CodeForbidden, "SessionHandler", "forbidden", nil))
		return nil, false
	}
	return sess, true
}

func artifactKey(sessionID string) string {
	return "session:" + sessionID + ":artifact"
}
