package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/voxhire/voxhire/internal/api/handlers"
	"github.com/voxhire/voxhire/internal/api/middleware"
)

type Deps struct {
	JWT         middleware.JWTConfig
	Session     *handlers.SessionHandler
	Events      *handlers.EventsHandler
	Profile     *handlers.ProfileHandler
	Resume      *handlers.ResumeHandler
	Application *handlers.ApplicationHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	auth := r.Group("/")
	auth.Use(middleware.JWTAuth(d.JWT))

	candidate := auth.Group("/", middleware.RequireCandidate())
	candidate.POST("/candidate/practice-session", d.Session.CreatePractice)
	candidate.POST("/candidate/application-launch", d.Session.LaunchApplication)
	candidate.GET("/profile/me", d.Profile.Me)
	candidate.PUT("/profile/update", d.Profile.Update)
	candidate.POST("/profile/resume", d.Resume.Upload)

	auth.GET("/session/:session_id", d.Session.Get)
	auth.POST("/session/:session_id/call-id", d.Session.BindCallID)
	auth.POST("/session/:session_id/events", d.Session.IngestEvent)
	auth.GET("/ws/session/:session_id/events", d.Events.SessionEvents)

	recruiter := auth.Group("/", middleware.RequireRecruiter())
	recruiter.GET("/recruiter/applications/:application_id", d.Application.Get)
	recruiter.PATCH("/recruiter/applications/:application_id/status", d.Application.UpdateStatus)
}
