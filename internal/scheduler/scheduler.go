package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/josiasmanzur02/sevenminutes/internal"
	"github.com/josiasmanzur02/sevenminutes/internal/notify"
	"github.com/josiasmanzur02/sevenminutes/internal/storage"
)

// Host timer APIs degrade on very long waits, so anything beyond 24h
// is chunked: sleep 24h, then re-plan from scratch. Re-planning rather
// than re-arming the same target lets configuration changes made
// mid-wait take effect.
const maxChunk = 24 * time.Hour

const defaultSnooze = 10 * time.Minute

const (
	notifyTitle = "Time with the Lord"
	notifyBody  = "Your 7-minute reminder is here."
	notifyTag   = "seven-minutes-alarm"
)

// Presenter is the slice of the notification/audio presenter the
// scheduler needs.
type Presenter interface {
	Notify(ctx context.Context, title, body, tag string)
	PlayTone(ctx context.Context, kind string)
}

// NextOccurrence scans the next 7 calendar days from now and returns
// the first instant matching the configured HH:MM on a configured
// weekday that is strictly after now. A disabled alarm, empty day set
// or unparseable time yields no occurrence.
func NextOccurrence(alarm internal.AlarmConfig, now time.Time) (time.Time, bool) {
	if !alarm.Enabled || len(alarm.Days) == 0 {
		return time.Time{}, false
	}
	hour, minute, err := internal.ParseClock(alarm.Time)
	if err != nil {
		return time.Time{}, false
	}
	days := make(map[int]bool, len(alarm.Days))
	for _, d := range alarm.Days {
		if d >= 0 && d <= 6 {
			days[d] = true
		}
	}
	if len(days) == 0 {
		return time.Time{}, false
	}
	// 8 days, not 7: when now coincides exactly with today's occurrence
	// the next valid instant is a full week out
	for i := 0; i <= 7; i++ {
		d := now.AddDate(0, 0, i)
		candidate := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, now.Location())
		if !days[int(candidate.Weekday())] {
			continue
		}
		if !candidate.After(now) {
			continue
		}
		return candidate, true
	}
	return time.Time{}, false
}

// Scheduler owns the single outstanding weekly-alarm timer. It is
// Idle (no timer) when the alarm is disabled or has no valid
// time/days, Armed (exactly one pending timer, target at most 24h
// away) otherwise.
type Scheduler struct {
	mu      sync.Mutex
	timer   *time.Timer
	snooze  *time.Timer
	planned time.Time

	store     storage.StateRepository
	presenter Presenter
	logger    internal.Logger

	// now is swapped out by tests
	now func() time.Time
}

func New(store storage.StateRepository, presenter Presenter, logger internal.Logger) *Scheduler {
	return &Scheduler{
		store:     store,
		presenter: presenter,
		logger:    logger,
		now:       time.Now,
	}
}

// Plan cancels any pending timer, recomputes the next occurrence from
// persisted settings and arms a fresh timer for it. Returns the
// planned instant, or ok=false when the scheduler goes Idle.
func (s *Scheduler) Plan(ctx context.Context) (time.Time, bool, error) {
	// cancel-before-anything keeps the at-most-one-armed-timer
	// invariant across the store read below
	s.mu.Lock()
	s.cancelLocked()
	s.mu.Unlock()

	st, err := s.store.State(ctx)
	if err != nil {
		return time.Time{}, false, err
	}

	now := s.now()
	next, ok := NextOccurrence(st.Settings.Alarm, now)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	if !ok {
		s.logger.Debugf("alarm idle: no upcoming occurrence")
		return time.Time{}, false, nil
	}

	wait := next.Sub(now)
	if wait > maxChunk {
		s.timer = time.AfterFunc(maxChunk, func() {
			if _, _, err := s.Plan(context.Background()); err != nil {
				s.logger.Errorf("alarm replan after chunk failed: %v", err)
			}
		})
	} else {
		s.timer = time.AfterFunc(wait, func() {
			s.fire(context.Background(), "schedule")
		})
	}
	s.planned = next
	s.logger.Infof("alarm armed for %s (in %s)", next.Format(time.RFC3339), wait.Round(time.Second))
	return next, true, nil
}

// Planned reports the currently armed target, if any.
func (s *Scheduler) Planned() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer == nil {
		return time.Time{}, false
	}
	return s.planned, true
}

// fire runs the occurrence side effects: best-effort presentation,
// unconditional lastTriggeredAt stamp, unconditional replan. A failed
// notification never blocks the timestamp write or the next plan.
func (s *Scheduler) fire(ctx context.Context, reason string) {
	s.logger.Infof("alarm fired (%s)", reason)

	s.presenter.Notify(ctx, notifyTitle, notifyBody, notifyTag)
	s.presenter.PlayTone(ctx, notify.ToneAlarm)

	firedAt := s.now()
	if _, err := s.store.Update(ctx, func(st *internal.AppState) {
		t := firedAt
		st.Settings.Alarm.LastTriggeredAt = &t
	}); err != nil {
		s.logger.Errorf("failed to record alarm trigger: %v", err)
	}

	if _, _, err := s.Plan(ctx); err != nil {
		s.logger.Errorf("alarm replan after fire failed: %v", err)
	}
}

// TriggerTest runs the full fire path so a manual test is
// indistinguishable from a real occurrence except for its cause.
func (s *Scheduler) TriggerTest(ctx context.Context) {
	s.fire(ctx, "manual")
}

// Snooze arms an independent one-shot that re-invokes the fire path.
// The primary weekly plan is left untouched.
func (s *Scheduler) Snooze(d time.Duration) time.Time {
	if d <= 0 {
		d = defaultSnooze
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snooze != nil {
		s.snooze.Stop()
	}
	s.snooze = time.AfterFunc(d, func() {
		s.fire(context.Background(), "snooze")
	})
	return s.now().Add(d)
}

// Resume is the host's "application regained foreground" hook; it
// simply re-plans.
func (s *Scheduler) Resume(ctx context.Context) {
	if _, _, err := s.Plan(ctx); err != nil {
		s.logger.Errorf("alarm replan on resume failed: %v", err)
	}
}

// Stop cancels all timers. Called on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	if s.snooze != nil {
		s.snooze.Stop()
		s.snooze = nil
	}
}

func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.planned = time.Time{}
}
