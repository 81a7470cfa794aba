package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/josiasmanzur02/sevenminutes/internal/service"
	"github.com/josiasmanzur02/sevenminutes/internal/session"
)

type completeRequest struct {
	DurationSec    int `json:"durationSec"`
	StepsCompleted int `json:"stepsCompleted"`
}

// CompleteDevotion records a finished session. The response shape
// { ok, streak } is a wire contract with existing clients.
func CompleteDevotion(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req completeRequest
		_ = c.ShouldBindJSON(&req) // body optional, defaults below
		if req.DurationSec <= 0 {
			total := 0
			for _, s := range session.DefaultSteps() {
				total += s.Seconds
			}
			req.DurationSec = total
		}
		if req.StepsCompleted <= 0 {
			req.StepsCompleted = len(session.DefaultSteps())
		}

		st, err := service.RecordCompletion(c.Request.Context(), app.StateRepo(), time.Now(), req.DurationSec, req.StepsCompleted)
		if err != nil {
			app.Logger().Errorf("failed to record completion: %v", err)
			c.JSON(500, gin.H{"ok": false})
			return
		}
		c.JSON(200, gin.H{"ok": true, "streak": st.Streak.Count})
	}
}
