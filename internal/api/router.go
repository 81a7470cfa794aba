package api

import (
	"github.com/gin-gonic/gin"
	"github.com/josiasmanzur02/sevenminutes/internal/auth"
	"github.com/josiasmanzur02/sevenminutes/internal/config"
)

func NewRouter(app App, cfg *config.Config, provider auth.Provider) *gin.Engine {
	r := gin.Default()
	r.Use(RequestIDMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	protected := r.Group("/", auth.AuthMiddleware(provider, cfg))
	protected.POST("/devotion/complete", CompleteDevotion(app))

	a := protected.Group("/api")
	a.GET("/state", GetState(app))
	a.PUT("/settings", PutSettings(app))
	a.GET("/export", ExportState(app))
	a.POST("/import", ImportState(app))
	a.POST("/reset", ResetState(app))

	a.GET("/alarm/next", GetNextAlarm(app))
	a.POST("/alarm/test", TestAlarm(app))
	a.POST("/alarm/snooze", SnoozeAlarm(app))
	a.POST("/resume", AppResumed(app))

	a.POST("/session/start", StartSession(app))
	a.POST("/session/pause", PauseSession(app))
	a.POST("/session/resume", ResumeSession(app))
	a.POST("/session/back", BackSession(app))
	a.POST("/session/restart", RestartSession(app))
	a.GET("/session", GetSession(app))

	return r
}
