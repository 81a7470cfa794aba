package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/josiasmanzur02/sevenminutes/internal"
)

func newStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := NewFileStore(path, internal.NopLogger{})
	assert.NoError(t, err)
	return s, path
}

func TestFirstAccessMaterializesDefaults(t *testing.T) {
	s, path := newStore(t)

	st, err := s.State(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, internal.StateID, st.ID)
	assert.Equal(t, internal.SchemaVersion, st.SchemaVersion)
	assert.Equal(t, "light", st.Settings.Theme)
	assert.Equal(t, "07:00", st.Settings.Alarm.Time)
	assert.False(t, st.Settings.Alarm.Enabled)
	assert.Empty(t, st.Logs)
	assert.NotNil(t, st.UpdatedAt)

	// defaults were persisted, not just returned
	info, err := os.Stat(path)
	assert.NoError(t, err)
	assert.True(t, info.Size() > 0)
}

func TestUpdateCommitsAndSurvivesReload(t *testing.T) {
	s, path := newStore(t)

	_, err := s.Update(context.Background(), func(st *internal.AppState) {
		st.Settings.Alarm.Enabled = true
		st.Settings.Alarm.Days = []int{1, 3, 5}
		st.Streak.Count = 4
	})
	assert.NoError(t, err)

	// a fresh store over the same file sees the committed state
	reopened, err := NewFileStore(path, internal.NopLogger{})
	assert.NoError(t, err)
	st, err := reopened.State(context.Background())
	assert.NoError(t, err)
	assert.True(t, st.Settings.Alarm.Enabled)
	assert.Equal(t, []int{1, 3, 5}, st.Settings.Alarm.Days)
	assert.Equal(t, 4, st.Streak.Count)
}

func TestCallersGetCopiesNotLiveReferences(t *testing.T) {
	s, _ := newStore(t)

	a, err := s.State(context.Background())
	assert.NoError(t, err)
	a.Settings.Theme = "dark"
	a.Logs = append(a.Logs, internal.LogEntry{Date: "2024-01-01"})

	b, err := s.State(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "light", b.Settings.Theme, "mutating a returned state must not leak into the store")
	assert.Empty(t, b.Logs)
}

func TestExportImportRoundTrip(t *testing.T) {
	s, _ := newStore(t)

	before, err := s.Update(context.Background(), func(st *internal.AppState) {
		st.Settings.Theme = "dark"
		st.Settings.Alarm.Enabled = true
		st.Settings.Alarm.Time = "06:30"
		st.Settings.Alarm.Days = []int{0, 6}
		st.Streak = internal.StreakSummary{Count: 12, LastCheckDate: "2024-05-01"}
		st.Logs = []internal.LogEntry{{ID: "e1", Date: "2024-05-01", DurationSec: 420, StepsCompleted: 7}}
	})
	assert.NoError(t, err)

	raw, err := s.Export(context.Background())
	assert.NoError(t, err)

	after, err := s.Import(context.Background(), raw)
	assert.NoError(t, err)

	assert.Equal(t, before.Settings, after.Settings)
	assert.Equal(t, before.Streak, after.Streak)
	assert.Equal(t, before.Logs, after.Logs)
	assert.Equal(t, before.SchemaVersion, after.SchemaVersion)
}

func TestImportMissingSchemaVersionRejected(t *testing.T) {
	s, _ := newStore(t)

	committed, err := s.Update(context.Background(), func(st *internal.AppState) {
		st.Streak.Count = 3
	})
	assert.NoError(t, err)

	_, err = s.Import(context.Background(), []byte(`{"settings":{"theme":"dark"}}`))
	assert.ErrorIs(t, err, internal.ErrInvalidImport)

	_, err = s.Import(context.Background(), []byte(`{"schemaVersion":"1"}`))
	assert.ErrorIs(t, err, internal.ErrInvalidImport, "string schemaVersion is not numeric")

	_, err = s.Import(context.Background(), []byte(`not json at all`))
	assert.ErrorIs(t, err, internal.ErrInvalidImport)

	// persisted state untouched by the rejections
	st, err := s.State(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, committed.Streak.Count, st.Streak.Count)
	assert.Equal(t, "light", st.Settings.Theme)
}

func TestImportPartialPayloadMergesOntoDefaults(t *testing.T) {
	s, _ := newStore(t)

	st, err := s.Import(context.Background(), []byte(`{
		"schemaVersion": 1,
		"settings": { "alarm": { "enabled": true, "days": [2, 4] } },
		"streak": { "count": 9 }
	}`))
	assert.NoError(t, err)

	// provided fields win, arrays replaced wholesale
	assert.True(t, st.Settings.Alarm.Enabled)
	assert.Equal(t, []int{2, 4}, st.Settings.Alarm.Days)
	assert.Equal(t, 9, st.Streak.Count)

	// absent fields filled from defaults
	assert.Equal(t, "07:00", st.Settings.Alarm.Time)
	assert.Equal(t, "light", st.Settings.Theme)
	assert.Equal(t, 0.7, st.Settings.Sound.Volume)
	assert.True(t, st.Settings.Sound.Enabled)
}

func TestResetRestoresDefaults(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.Update(context.Background(), func(st *internal.AppState) {
		st.Settings.Theme = "dark"
		st.Streak.Count = 7
		st.Logs = []internal.LogEntry{{Date: "2024-01-01"}}
	})
	assert.NoError(t, err)

	st, err := s.Reset(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "light", st.Settings.Theme)
	assert.Equal(t, 0, st.Streak.Count)
	assert.Empty(t, st.Logs)
}

func TestExportIsPrettyPrintedJSON(t *testing.T) {
	s, _ := newStore(t)

	raw, err := s.Export(context.Background())
	assert.NoError(t, err)

	var decoded map[string]any
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, string(raw), "\n  \"", "export is indented for humans")
	assert.Equal(t, float64(internal.SchemaVersion), decoded["schemaVersion"])
}

func TestSerializedUpdatesNeverLose(t *testing.T) {
	s, _ := newStore(t)
	done := make(chan error, 20)

	for i := 0; i < 20; i++ {
		go func() {
			_, err := s.Update(context.Background(), func(st *internal.AppState) {
				st.Streak.Count++
			})
			done <- err
		}()
	}
	for i := 0; i < 20; i++ {
		assert.NoError(t, <-done)
	}

	st, err := s.State(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 20, st.Streak.Count, "read-modify-write cycles must not interleave")
}

func TestLoadToleratesUnknownAndMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	err := os.WriteFile(path, []byte(`{
		"id": "singleton",
		"schemaVersion": 1,
		"settings": { "theme": "dark", "futureField": {"x": 1} }
	}`), 0644)
	assert.NoError(t, err)

	s, err := NewFileStore(path, internal.NopLogger{})
	assert.NoError(t, err)
	st, err := s.State(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "dark", st.Settings.Theme)
	assert.Equal(t, "en", st.Settings.Language, "missing field filled from defaults")
}

func TestStorageFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	// a directory where the state file should be makes writes fail
	path := filepath.Join(dir, "state.json")
	assert.NoError(t, os.Mkdir(path, 0755))

	_, err := NewFileStore(path, internal.NopLogger{})
	if err == nil {
		// open succeeded (directory read); the write must still fail
		s := &FileStore{path: path, logger: internal.NopLogger{}}
		_, err = s.State(context.Background())
	}
	assert.Error(t, err)
	assert.True(t, errors.Is(err, internal.ErrStorageUnavailable))
}
