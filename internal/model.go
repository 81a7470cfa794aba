package internal

import (
	"fmt"
	"time"
)

const (
	// StateID is the fixed key of the singleton state record.
	StateID = "singleton"

	// SchemaVersion is the current schema of the durable AppState record.
	SchemaVersion = 1

	// MaxLogEntries caps the session log; oldest entries are evicted.
	MaxLogEntries = 50

	// DateLayout is the zero-padded calendar-day key used by the streak ledger.
	DateLayout = "2006-01-02"
)

type User struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
}

// AppState is the root aggregate persisted as a single versioned record.
type AppState struct {
	ID            string        `json:"id"`
	SchemaVersion int           `json:"schemaVersion"`
	UpdatedAt     *time.Time    `json:"updatedAt"`
	Settings      Settings      `json:"settings"`
	Streak        StreakSummary `json:"streak"`
	Logs          []LogEntry    `json:"logs"`
}

type Settings struct {
	Theme    string        `json:"theme"`
	Language string        `json:"language"`
	Sound    SoundSettings `json:"sound"`
	Alarm    AlarmConfig   `json:"alarm"`
}

type SoundSettings struct {
	Enabled bool    `json:"enabled"`
	Volume  float64 `json:"volume"`
}

// AlarmConfig holds the recurring weekly reminder settings.
// Days uses 0 (Sunday) through 6 (Saturday); empty means never fires.
type AlarmConfig struct {
	Enabled         bool       `json:"enabled"`
	Time            string     `json:"time"` // HH:MM local wall clock
	Days            []int      `json:"days"`
	LastTriggeredAt *time.Time `json:"lastTriggeredAt"`
}

// StreakSummary is a cached projection of the log; the log is the
// source of truth and the summary must stay derivable from it.
type StreakSummary struct {
	Count         int    `json:"count"`
	LastCheckDate string `json:"lastCheckDate"`
}

// LogEntry records one completed session.
type LogEntry struct {
	ID             string `json:"id,omitempty"`
	Date           string `json:"date"`
	DurationSec    int    `json:"durationSec"`
	StepsCompleted int    `json:"stepsCompleted"`
}

func DefaultState() *AppState {
	return &AppState{
		ID:            StateID,
		SchemaVersion: SchemaVersion,
		Settings: Settings{
			Theme:    "light",
			Language: "en",
			Sound:    SoundSettings{Enabled: true, Volume: 0.7},
			Alarm: AlarmConfig{
				Enabled: false,
				Time:    "07:00",
				Days:    []int{},
			},
		},
		Streak: StreakSummary{Count: 0, LastCheckDate: ""},
		Logs:   []LogEntry{},
	}
}

// Clone returns a deep copy so no caller holds a live reference into
// the repository's state across a commit.
func (s *AppState) Clone() *AppState {
	out := *s
	if s.UpdatedAt != nil {
		t := *s.UpdatedAt
		out.UpdatedAt = &t
	}
	out.Settings.Alarm.Days = append([]int(nil), s.Settings.Alarm.Days...)
	if s.Settings.Alarm.LastTriggeredAt != nil {
		t := *s.Settings.Alarm.LastTriggeredAt
		out.Settings.Alarm.LastTriggeredAt = &t
	}
	out.Logs = append([]LogEntry(nil), s.Logs...)
	return &out
}

// DateKey formats a moment as its local calendar-day ledger key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseClock parses an "HH:MM" wall-clock string, requiring
// hour in [0,23] and minute in [0,59].
func ParseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("invalid clock time %q", s)
	}
	if _, err := fmt.Sscanf(s, "%2d:%2d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid clock time %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock time %q out of range", s)
	}
	return hour, minute, nil
}
