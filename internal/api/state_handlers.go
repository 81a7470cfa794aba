package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/josiasmanzur02/sevenminutes/internal"
	"github.com/josiasmanzur02/sevenminutes/internal/service"
)

func GetState(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := app.StateRepo().State(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to read state")
			return
		}
		HandleSuccess(c, app.Logger(), st, nil)
	}
}

// PutSettings replaces the settings block and re-plans the alarm so
// time/day/enabled changes take effect immediately.
func PutSettings(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.SettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateSettingsRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}
		st, err := service.ApplySettings(c.Request.Context(), app.StateRepo(), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save settings")
			return
		}

		meta := map[string]any{}
		if next, ok, err := app.Scheduler().Plan(c.Request.Context()); err != nil {
			app.Logger().Errorf("alarm replan after settings save failed: %v", err)
		} else if ok {
			meta["nextAlarm"] = next
		}
		HandleSuccess(c, app.Logger(), st, meta)
	}
}

func ExportState(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := app.StateRepo().Export(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to export state")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="seven-minutes-backup.json"`)
		c.Data(200, "application/json; charset=utf-8", raw)
	}
}

func ImportState(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.GetRawData()
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Failed to read body")
			return
		}
		st, err := app.StateRepo().Import(c.Request.Context(), raw)
		if err != nil {
			if errors.Is(err, internal.ErrInvalidImport) {
				HandleError(c, app.Logger(), err, 400, "Invalid import file")
			} else {
				HandleError(c, app.Logger(), err, 500, "Failed to import state")
			}
			return
		}
		app.Scheduler().Resume(c.Request.Context())
		HandleSuccess(c, app.Logger(), st, nil)
	}
}

func ResetState(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := app.StateRepo().Reset(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to reset state")
			return
		}
		app.Scheduler().Resume(c.Request.Context())
		HandleSuccess(c, app.Logger(), st, nil)
	}
}
