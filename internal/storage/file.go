package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/josiasmanzur02/sevenminutes/internal"
)

// FileStore keeps the singleton AppState in a single JSON file. The
// mutex serializes every read-modify-write cycle; writes go through an
// atomic temp-file rename and must succeed before Update returns.
type FileStore struct {
	mu     sync.Mutex
	path   string
	state  *internal.AppState // last committed state, nil before first access
	logger internal.Logger
}

func NewFileStore(path string, logger internal.Logger) (*FileStore, error) {
	s := &FileStore{path: path, logger: logger}
	if err := s.load(); err != nil {
		logger.Errorf("storage: failed to load state file: %v", err)
		return nil, fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
	}
	return s, nil
}

func (s *FileStore) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return err
	}
	st, err := mergeOntoDefaults(obj)
	if err != nil {
		return err
	}
	s.state = st
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

// commitLocked writes next durably and swaps the in-memory copy only
// after the file write succeeded. Callers must hold s.mu.
func (s *FileStore) commitLocked(next *internal.AppState) error {
	next.ID = internal.StateID
	if next.SchemaVersion == 0 {
		next.SchemaVersion = internal.SchemaVersion
	}
	now := time.Now()
	next.UpdatedAt = &now
	if err := atomicWriteFileJSON(s.path, next); err != nil {
		return fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
	}
	s.state = next
	return nil
}

// currentLocked materializes and persists defaults on first access.
func (s *FileStore) currentLocked() (*internal.AppState, error) {
	if s.state == nil {
		if err := s.commitLocked(internal.DefaultState()); err != nil {
			return nil, err
		}
	}
	return s.state, nil
}

func (s *FileStore) State(ctx context.Context) (*internal.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.currentLocked()
	if err != nil {
		return nil, err
	}
	return cur.Clone(), nil
}

func (s *FileStore) Update(ctx context.Context, mutate func(*internal.AppState)) (*internal.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.currentLocked()
	if err != nil {
		return nil, err
	}
	next := cur.Clone()
	mutate(next)
	if err := s.commitLocked(next); err != nil {
		return nil, err
	}
	return next.Clone(), nil
}

func (s *FileStore) Export(ctx context.Context) ([]byte, error) {
	st, err := s.State(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(st, "", "  ")
}

func (s *FileStore) Import(ctx context.Context, raw []byte) (*internal.AppState, error) {
	st, err := decodeImport(raw)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.commitLocked(st); err != nil {
		return nil, err
	}
	return st.Clone(), nil
}

func (s *FileStore) Reset(ctx context.Context) (*internal.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := internal.DefaultState()
	if err := s.commitLocked(st); err != nil {
		return nil, err
	}
	return st.Clone(), nil
}

func (s *FileStore) Close() error {
	return nil
}

var _ StateRepository = (*FileStore)(nil)
