package session

import (
	"errors"
	"sync"

	"github.com/josiasmanzur02/sevenminutes/internal"
	"github.com/josiasmanzur02/sevenminutes/internal/storage"
)

var ErrNoSession = errors.New("no active session")

// Manager holds the single in-flight session for this device.
// Starting a new one replaces whatever was there.
type Manager struct {
	mu      sync.Mutex
	current *Runner

	store     storage.StateRepository
	presenter Presenter
	reporter  CompletionReporter
	logger    internal.Logger
}

func NewManager(store storage.StateRepository, presenter Presenter, reporter CompletionReporter, logger internal.Logger) *Manager {
	return &Manager{
		store:     store,
		presenter: presenter,
		reporter:  reporter,
		logger:    logger,
	}
}

func (m *Manager) Start() Snapshot {
	m.mu.Lock()
	if m.current != nil {
		m.current.Stop()
	}
	r := NewRunner(DefaultSteps(), m.store, m.presenter, m.reporter, m.logger)
	m.current = r
	m.mu.Unlock()

	r.Start()
	return r.Snapshot()
}

func (m *Manager) runner() (*Runner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, ErrNoSession
	}
	return m.current, nil
}

func (m *Manager) Pause() (Snapshot, error) {
	r, err := m.runner()
	if err != nil {
		return Snapshot{}, err
	}
	r.Pause()
	return r.Snapshot(), nil
}

func (m *Manager) Resume() (Snapshot, error) {
	r, err := m.runner()
	if err != nil {
		return Snapshot{}, err
	}
	r.Resume()
	return r.Snapshot(), nil
}

func (m *Manager) Back() (Snapshot, error) {
	r, err := m.runner()
	if err != nil {
		return Snapshot{}, err
	}
	r.Back()
	return r.Snapshot(), nil
}

func (m *Manager) Restart() (Snapshot, error) {
	r, err := m.runner()
	if err != nil {
		return Snapshot{}, err
	}
	r.Restart()
	return r.Snapshot(), nil
}

func (m *Manager) Snapshot() (Snapshot, error) {
	r, err := m.runner()
	if err != nil {
		return Snapshot{}, err
	}
	return r.Snapshot(), nil
}

// Stop halts any in-flight session. Called on shutdown.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.Stop()
	}
}
