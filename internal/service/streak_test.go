package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/josiasmanzur02/sevenminutes/internal"
	"github.com/josiasmanzur02/sevenminutes/internal/storage"
)

func day(s string) time.Time {
	t, err := time.Parse(internal.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func entries(dates ...string) []internal.LogEntry {
	out := make([]internal.LogEntry, len(dates))
	for i, d := range dates {
		out[i] = internal.LogEntry{Date: d, DurationSec: 420, StepsCompleted: 7}
	}
	return out
}

func TestComputeStreakEmptyLog(t *testing.T) {
	res := ComputeStreak(nil, day("2024-01-05"))
	assert.Equal(t, 0, res.Count)
	assert.Equal(t, "", res.Last)
}

func TestComputeStreakConsecutiveRun(t *testing.T) {
	res := ComputeStreak(entries("2024-01-04", "2024-01-03", "2024-01-02"), day("2024-01-04"))
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, "2024-01-04", res.Last)
}

func TestComputeStreakBrokenByMissedDays(t *testing.T) {
	// latest is 2024-01-04, evaluated on the 2024-01-06: gap > 1 day
	res := ComputeStreak(entries("2024-01-01", "2024-01-02", "2024-01-04"), day("2024-01-06"))
	assert.Equal(t, 0, res.Count)
	assert.Equal(t, "2024-01-04", res.Last)
}

func TestComputeStreakStopsAtGap(t *testing.T) {
	// 2024-01-01, 02, 04 evaluated on the 5th: latest still within a
	// day of today, but the run back from it stops at the missing 3rd
	res := ComputeStreak(entries("2024-01-01", "2024-01-02", "2024-01-04"), day("2024-01-05"))
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "2024-01-04", res.Last)
}

func TestComputeStreakUnsortedAndDuplicateDates(t *testing.T) {
	logs := entries("2024-01-02", "2024-01-03", "2024-01-03", "2024-01-01")
	res := ComputeStreak(logs, day("2024-01-03"))
	assert.Equal(t, 3, res.Count, "duplicate same-day entries count once")
}

func TestComputeStreakLazyRecomputeMatchesEager(t *testing.T) {
	logs := entries("2024-01-04", "2024-01-03")
	eager := ComputeStreak(logs, day("2024-01-04"))
	lazy := ComputeStreak(logs, day("2024-01-05"))
	assert.Equal(t, eager.Count, lazy.Count, "no decay job needed within one day")
}

func newTestRepo(t *testing.T) storage.StateRepository {
	t.Helper()
	repo, err := storage.NewFileStore(filepath.Join(t.TempDir(), "state.json"), internal.NopLogger{})
	assert.NoError(t, err)
	return repo
}

func TestRecordCompletionFirstEver(t *testing.T) {
	repo := newTestRepo(t)
	now := day("2024-03-10")

	st, err := RecordCompletion(context.Background(), repo, now, 420, 7)
	assert.NoError(t, err)
	assert.Equal(t, 1, st.Streak.Count)
	assert.Equal(t, "2024-03-10", st.Streak.LastCheckDate)
	assert.Len(t, st.Logs, 1)
	assert.Equal(t, "2024-03-10", st.Logs[0].Date)
	assert.Equal(t, 420, st.Logs[0].DurationSec)
	assert.Equal(t, 7, st.Logs[0].StepsCompleted)
	assert.NotEmpty(t, st.Logs[0].ID)
}

func TestRecordCompletionSameDayIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	now := day("2024-03-10")

	_, err := RecordCompletion(context.Background(), repo, now, 420, 7)
	assert.NoError(t, err)
	st, err := RecordCompletion(context.Background(), repo, now.Add(4*time.Hour), 300, 5)
	assert.NoError(t, err)

	assert.Equal(t, 1, st.Streak.Count, "second completion same day must not double-increment")
	assert.Len(t, st.Logs, 2, "the session itself is still logged")
}

func TestRecordCompletionNextDayIncrements(t *testing.T) {
	repo := newTestRepo(t)

	_, err := RecordCompletion(context.Background(), repo, day("2024-03-10"), 420, 7)
	assert.NoError(t, err)
	st, err := RecordCompletion(context.Background(), repo, day("2024-03-11"), 420, 7)
	assert.NoError(t, err)
	assert.Equal(t, 2, st.Streak.Count)
}

func TestRecordCompletionAfterGapResetsToOne(t *testing.T) {
	repo := newTestRepo(t)

	_, err := RecordCompletion(context.Background(), repo, day("2024-03-10"), 420, 7)
	assert.NoError(t, err)
	st, err := RecordCompletion(context.Background(), repo, day("2024-03-13"), 420, 7)
	assert.NoError(t, err)
	assert.Equal(t, 1, st.Streak.Count)
	assert.Equal(t, "2024-03-13", st.Streak.LastCheckDate)
}

func TestRecordCompletionSummaryMatchesRecomputation(t *testing.T) {
	repo := newTestRepo(t)
	days := []string{"2024-03-10", "2024-03-11", "2024-03-12", "2024-03-12", "2024-03-14"}

	for _, d := range days {
		st, err := RecordCompletion(context.Background(), repo, day(d), 420, 7)
		assert.NoError(t, err)
		recomputed := ComputeStreak(st.Logs, day(d))
		assert.Equal(t, recomputed.Count, st.Streak.Count,
			"cached summary must never diverge from the log on %s", d)
	}
}

func TestRecordCompletionCapsLog(t *testing.T) {
	repo := newTestRepo(t)
	start := day("2024-01-01")

	var st *internal.AppState
	var err error
	for i := 0; i < internal.MaxLogEntries+5; i++ {
		st, err = RecordCompletion(context.Background(), repo, start.AddDate(0, 0, i), 420, 7)
		assert.NoError(t, err)
	}
	assert.Len(t, st.Logs, internal.MaxLogEntries)
	// newest first, oldest evicted
	assert.Equal(t, internal.DateKey(start.AddDate(0, 0, internal.MaxLogEntries+4)), st.Logs[0].Date)
}
