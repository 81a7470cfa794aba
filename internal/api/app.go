package api

import (
	"github.com/josiasmanzur02/sevenminutes/internal"
	"github.com/josiasmanzur02/sevenminutes/internal/scheduler"
	"github.com/josiasmanzur02/sevenminutes/internal/session"
	"github.com/josiasmanzur02/sevenminutes/internal/storage"
)

type App interface {
	Logger() internal.Logger
	StateRepo() storage.StateRepository
	Scheduler() *scheduler.Scheduler
	Sessions() *session.Manager
}

// Services is the concrete App wiring built at startup.
type Services struct {
	Log   internal.Logger
	Repo  storage.StateRepository
	Sched *scheduler.Scheduler
	Sess  *session.Manager
}

func (s *Services) Logger() internal.Logger           { return s.Log }
func (s *Services) StateRepo() storage.StateRepository { return s.Repo }
func (s *Services) Scheduler() *scheduler.Scheduler   { return s.Sched }
func (s *Services) Sessions() *session.Manager        { return s.Sess }

var _ App = (*Services)(nil)
