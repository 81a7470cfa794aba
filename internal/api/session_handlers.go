package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/josiasmanzur02/sevenminutes/internal/session"
)

func StartSession(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := app.Sessions().Start()
		HandleSuccess(c, app.Logger(), snap, nil)
	}
}

func sessionAction(app App, act func() (session.Snapshot, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := act()
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				HandleError(c, app.Logger(), err, 404, "No active session")
			} else {
				HandleError(c, app.Logger(), err, 500, "Session action failed")
			}
			return
		}
		HandleSuccess(c, app.Logger(), snap, nil)
	}
}

func PauseSession(app App) gin.HandlerFunc {
	return sessionAction(app, app.Sessions().Pause)
}

func ResumeSession(app App) gin.HandlerFunc {
	return sessionAction(app, app.Sessions().Resume)
}

func BackSession(app App) gin.HandlerFunc {
	return sessionAction(app, app.Sessions().Back)
}

func RestartSession(app App) gin.HandlerFunc {
	return sessionAction(app, app.Sessions().Restart)
}

func GetSession(app App) gin.HandlerFunc {
	return sessionAction(app, app.Sessions().Snapshot)
}
