package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/josiasmanzur02/sevenminutes/internal/scheduler"
)

// GetNextAlarm previews the next occurrence from persisted settings.
func GetNextAlarm(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := app.StateRepo().State(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to read state")
			return
		}
		meta := map[string]any{"armed": false}
		if next, ok := scheduler.NextOccurrence(st.Settings.Alarm, time.Now()); ok {
			meta["next"] = next
		}
		if planned, ok := app.Scheduler().Planned(); ok {
			meta["armed"] = true
			meta["planned"] = planned
		}
		HandleSuccess(c, app.Logger(), nil, meta)
	}
}

// TestAlarm runs the real fire path with a manual cause.
func TestAlarm(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		app.Scheduler().TriggerTest(c.Request.Context())
		HandleSuccess(c, app.Logger(), nil, map[string]any{"fired": true})
	}
}

type snoozeRequest struct {
	Minutes int `json:"minutes"`
}

func SnoozeAlarm(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req snoozeRequest
		_ = c.ShouldBindJSON(&req) // empty body means default snooze
		until := app.Scheduler().Snooze(time.Duration(req.Minutes) * time.Minute)
		HandleSuccess(c, app.Logger(), nil, map[string]any{"until": until})
	}
}

// AppResumed is the foregrounding hook: the host signals "visible
// again" and the scheduler re-plans.
func AppResumed(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		app.Scheduler().Resume(c.Request.Context())
		meta := map[string]any{"armed": false}
		if planned, ok := app.Scheduler().Planned(); ok {
			meta["armed"] = true
			meta["planned"] = planned
		}
		HandleSuccess(c, app.Logger(), nil, meta)
	}
}
