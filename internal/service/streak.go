package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/josiasmanzur02/sevenminutes/internal"
	"github.com/josiasmanzur02/sevenminutes/internal/storage"
)

// StreakResult reports the current consecutive-day count and the most
// recent completion date. Last is reported even when the streak is
// broken.
type StreakResult struct {
	Count int    `json:"count"`
	Last  string `json:"last"`
}

// ComputeStreak derives the streak from the session log alone. It
// yields the same result whether called right after a completion or
// lazily days later; staleness self-corrects on read.
func ComputeStreak(logs []internal.LogEntry, today time.Time) StreakResult {
	if len(logs) == 0 {
		return StreakResult{}
	}

	// Distinct dates, newest first. Duplicate same-day entries count once.
	seen := make(map[string]bool, len(logs))
	dates := make([]string, 0, len(logs))
	for _, l := range logs {
		if l.Date == "" || seen[l.Date] {
			continue
		}
		seen[l.Date] = true
		dates = append(dates, l.Date)
	}
	if len(dates) == 0 {
		return StreakResult{}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	latest := dates[0]
	latestDay, err := time.Parse(internal.DateLayout, latest)
	if err != nil {
		return StreakResult{Last: latest}
	}
	todayDay, _ := time.Parse(internal.DateLayout, internal.DateKey(today))
	if dayDiff(todayDay, latestDay) > 1 {
		return StreakResult{Count: 0, Last: latest}
	}

	count := 1
	prev := latestDay
	for _, d := range dates[1:] {
		day, err := time.Parse(internal.DateLayout, d)
		if err != nil {
			break
		}
		if dayDiff(prev, day) != 1 {
			break
		}
		count++
		prev = day
	}
	return StreakResult{Count: count, Last: latest}
}

// dayDiff counts whole calendar days between two UTC midnights.
func dayDiff(a, b time.Time) int {
	return int(a.Sub(b) / (24 * time.Hour))
}

// RecordCompletion commits one finished session: prepends a log entry
// (capped) and advances the cached streak summary. Idempotent per
// calendar day; a second completion on the same date never
// double-increments.
func RecordCompletion(ctx context.Context, repo storage.StateRepository, now time.Time, durationSec, stepsCompleted int) (*internal.AppState, error) {
	today := internal.DateKey(now)
	yesterday := internal.DateKey(now.AddDate(0, 0, -1))

	return repo.Update(ctx, func(s *internal.AppState) {
		switch s.Streak.LastCheckDate {
		case today:
			// already counted today
		case yesterday:
			s.Streak.Count++
		default:
			s.Streak.Count = 1
		}
		s.Streak.LastCheckDate = today

		entry := internal.LogEntry{
			ID:             uuid.NewString(),
			Date:           today,
			DurationSec:    durationSec,
			StepsCompleted: stepsCompleted,
		}
		s.Logs = append([]internal.LogEntry{entry}, s.Logs...)
		if len(s.Logs) > internal.MaxLogEntries {
			s.Logs = s.Logs[:internal.MaxLogEntries]
		}
	})
}
