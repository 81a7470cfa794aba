package session

import (
	"context"
	"sync"
	"time"

	"github.com/josiasmanzur02/sevenminutes/internal"
	"github.com/josiasmanzur02/sevenminutes/internal/notify"
	"github.com/josiasmanzur02/sevenminutes/internal/service"
	"github.com/josiasmanzur02/sevenminutes/internal/storage"
)

type State string

const (
	StateRunning  State = "running"
	StatePaused   State = "paused"
	StateFinished State = "finished"
)

// Completion statuses surfaced to the UI after Finished.
const (
	StatusSaved        = "saved"
	StatusOffline      = "offline"
	StatusStorageError = "storage-error"
)

// Presenter is the slice of the notification/audio presenter the
// sequencer needs.
type Presenter interface {
	PlayTone(ctx context.Context, kind string)
}

// CompletionReporter pushes a finished session to a remote endpoint.
// Failures degrade to an "offline" status; local state stays
// authoritative.
type CompletionReporter interface {
	Report(ctx context.Context, streak int) error
}

type Event struct {
	StepIndex int   `json:"stepIndex"`
	Remaining int   `json:"remaining"`
	State     State `json:"state"`
}

type Snapshot struct {
	State      State  `json:"state"`
	StepIndex  int    `json:"stepIndex"`
	StepKey    string `json:"stepKey"`
	Remaining  int    `json:"remaining"`
	TotalSteps int    `json:"totalSteps"`
	Streak     int    `json:"streak,omitempty"`
	Status     string `json:"status,omitempty"`
}

// Runner drives one session through its ordered steps. A 1s ticker
// feeds tick; decrements use whole elapsed wall-clock seconds so a
// throttled or delayed tick can never skip the reached-zero
// transition.
type Runner struct {
	mu        sync.Mutex
	steps     []Step
	idx       int
	remaining int
	state     State
	startedAt time.Time
	lastTick  time.Time
	cancel    chan struct{}
	events    chan Event

	streak int
	status string

	store     storage.StateRepository
	presenter Presenter
	reporter  CompletionReporter
	logger    internal.Logger
	now       func() time.Time
}

func NewRunner(steps []Step, store storage.StateRepository, presenter Presenter, reporter CompletionReporter, logger internal.Logger) *Runner {
	if len(steps) == 0 {
		steps = DefaultSteps()
	}
	return &Runner{
		steps:     steps,
		idx:       0,
		remaining: steps[0].Seconds,
		state:     StatePaused,
		events:    make(chan Event, len(steps)*2),
		store:     store,
		presenter: presenter,
		reporter:  reporter,
		logger:    logger,
		now:       time.Now,
	}
}

func (r *Runner) Events() <-chan Event {
	return r.events
}

// Start begins (or resumes) the countdown.
func (r *Runner) Start() {
	r.mu.Lock()
	if r.state == StateRunning || r.state == StateFinished {
		r.mu.Unlock()
		return
	}
	now := r.now()
	if r.startedAt.IsZero() {
		r.startedAt = now
	}
	r.state = StateRunning
	r.lastTick = now
	cancel := make(chan struct{})
	r.cancel = cancel
	r.mu.Unlock()

	go r.loop(cancel)
}

func (r *Runner) loop(cancel <-chan struct{}) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			r.tick(now)
			r.mu.Lock()
			running := r.state == StateRunning
			r.mu.Unlock()
			if !running {
				return
			}
		case <-cancel:
			return
		}
	}
}

// tick consumes whole elapsed seconds since the previous tick. Under
// background throttling one tick may stand for many seconds; the loop
// below walks every step boundary it crosses instead of jumping.
func (r *Runner) tick(now time.Time) {
	r.mu.Lock()
	if r.state != StateRunning {
		r.mu.Unlock()
		return
	}

	elapsed := int(now.Sub(r.lastTick).Seconds())
	if elapsed < 1 {
		r.mu.Unlock()
		return
	}
	r.lastTick = r.lastTick.Add(time.Duration(elapsed) * time.Second)
	r.remaining -= elapsed

	advanced := false
	finished := false
	for r.remaining <= 0 {
		if r.idx+1 >= len(r.steps) {
			finished = true
			r.remaining = 0
			break
		}
		carry := -r.remaining
		r.idx++
		r.remaining = r.steps[r.idx].Seconds - carry
		advanced = true
	}

	var duration int
	if finished {
		r.state = StateFinished
		duration = int(now.Sub(r.startedAt).Seconds())
	}
	r.emitLocked()
	r.mu.Unlock()

	ctx := context.Background()
	if advanced && !finished {
		r.presenter.PlayTone(ctx, notify.TonePing)
	}
	if finished {
		r.finish(ctx, now, duration)
	}
}

// finish commits the completion locally first; the remote report is
// best-effort and never rolls the local commit back.
func (r *Runner) finish(ctx context.Context, now time.Time, duration int) {
	r.presenter.PlayTone(ctx, notify.ToneFinish)

	st, err := service.RecordCompletion(ctx, r.store, now, duration, len(r.steps))
	if err != nil {
		r.logger.Errorf("session: failed to record completion: %v", err)
		r.setResult(0, StatusStorageError)
		return
	}

	status := StatusSaved
	if r.reporter != nil {
		if err := r.reporter.Report(ctx, st.Streak.Count); err != nil {
			r.logger.Warnf("session: completion report failed, continuing offline: %v", err)
			status = StatusOffline
		}
	}
	r.setResult(st.Streak.Count, status)
}

func (r *Runner) setResult(streak int, status string) {
	r.mu.Lock()
	r.streak = streak
	r.status = status
	r.emitLocked()
	r.mu.Unlock()
}

func (r *Runner) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRunning {
		return
	}
	r.state = StatePaused
	if r.cancel != nil {
		close(r.cancel)
		r.cancel = nil
	}
	r.emitLocked()
}

func (r *Runner) Resume() {
	r.Start()
}

// Back rewinds to the previous step with its full duration. No-op on
// the first step or after finishing.
func (r *Runner) Back() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateFinished || r.idx == 0 {
		return
	}
	r.idx--
	r.remaining = r.steps[r.idx].Seconds
	r.emitLocked()
}

// Restart returns a finished session to step 0 and starts counting.
func (r *Runner) Restart() {
	r.mu.Lock()
	if r.state == StateRunning {
		r.mu.Unlock()
		return
	}
	r.idx = 0
	r.remaining = r.steps[0].Seconds
	r.state = StatePaused
	r.startedAt = time.Time{}
	r.streak = 0
	r.status = ""
	r.mu.Unlock()
	r.Start()
}

// Stop halts the ticker without finishing. Used on shutdown.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		close(r.cancel)
		r.cancel = nil
	}
	if r.state == StateRunning {
		r.state = StatePaused
	}
}

func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		State:      r.state,
		StepIndex:  r.idx,
		StepKey:    r.steps[r.idx].Key,
		Remaining:  r.remaining,
		TotalSteps: len(r.steps),
		Streak:     r.streak,
		Status:     r.status,
	}
}

func (r *Runner) emitLocked() {
	select {
	case r.events <- Event{StepIndex: r.idx, Remaining: r.remaining, State: r.state}:
	default:
	}
}
