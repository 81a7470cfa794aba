package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/josiasmanzur02/sevenminutes/internal"
	"github.com/josiasmanzur02/sevenminutes/internal/storage"
)

var validate = validator.New()

type SoundRequest struct {
	Enabled bool    `json:"enabled"`
	Volume  float64 `json:"volume" validate:"gte=0,lte=1"`
}

type AlarmRequest struct {
	Enabled bool   `json:"enabled"`
	Time    string `json:"time" validate:"required"`
	Days    []int  `json:"days" validate:"max=7,dive,gte=0,lte=6"`
}

type SettingsRequest struct {
	Theme    string       `json:"theme" validate:"required,oneof=light dark"`
	Language string       `json:"language" validate:"required,oneof=en es"`
	Sound    SoundRequest `json:"sound"`
	Alarm    AlarmRequest `json:"alarm"`
}

func ValidateSettingsRequest(req *SettingsRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if _, _, err := internal.ParseClock(req.Alarm.Time); err != nil {
		return fmt.Errorf("alarm: %w", err)
	}
	return nil
}

// ApplySettings commits a full settings replacement. The alarm's
// lastTriggeredAt survives; only the configuration fields change.
func ApplySettings(ctx context.Context, repo storage.StateRepository, req *SettingsRequest) (*internal.AppState, error) {
	days := req.Alarm.Days
	if days == nil {
		days = []int{}
	}
	return repo.Update(ctx, func(s *internal.AppState) {
		s.Settings.Theme = req.Theme
		s.Settings.Language = req.Language
		s.Settings.Sound.Enabled = req.Sound.Enabled
		s.Settings.Sound.Volume = req.Sound.Volume
		s.Settings.Alarm.Enabled = req.Alarm.Enabled
		s.Settings.Alarm.Time = req.Alarm.Time
		s.Settings.Alarm.Days = append([]int(nil), days...)
	})
}
